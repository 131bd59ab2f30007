package helper

import (
	"context"
	"log"

	"tour_booking/booking"

	"github.com/robfig/cron/v3"
)

var reconcileCron *cron.Cron

// StartPaymentReconciler polls the gateway for bookings whose payment saw no
// webhook within the configured window. Results go through the same
// ApplyPaymentEvent path as webhooks, so there is one transition entry point.
func StartPaymentReconciler(svc *booking.Service, spec string) {
	reconcileCron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := reconcileCron.AddFunc(spec, func() {
		applied, err := svc.ReconcilePending(context.Background())
		if err != nil {
			log.Printf("[reconcile] run failed: %v", err)
			return
		}
		if applied > 0 {
			log.Printf("[reconcile] applied %d gateway statuses", applied)
		}
	})
	if err != nil {
		log.Printf("failed to start payment reconciler: %v", err)
		return
	}

	reconcileCron.Start()
	log.Printf("payment reconciler started (%s)", spec)
}

func StopPaymentReconciler() {
	if reconcileCron != nil {
		reconcileCron.Stop()
		log.Println("payment reconciler stopped")
	}
}
