package helper

import (
	"log"
	"time"

	"tour_booking/database"
	"tour_booking/model"

	"github.com/go-co-op/gocron/v2"
)

var completionScheduler gocron.Scheduler

// AutoCompleteFinishedBookings moves confirmed bookings whose trip has ended
// to completed. This is the only way a booking reaches completed.
func AutoCompleteFinishedBookings() {
	result := database.DB.Model(&model.Booking{}).
		Where("status = ? AND schedule_end < ?", model.BookingConfirmed, time.Now()).
		Update("status", model.BookingCompleted)

	if result.Error != nil {
		log.Printf("failed to complete finished bookings: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("marked %d bookings as completed", result.RowsAffected)
	}
}

func StartBookingCompletionScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}
	completionScheduler = s

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 10, 0),
			),
		),
		gocron.NewTask(AutoCompleteFinishedBookings),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("booking completion scheduler started (00:10 daily)")
}

func StopBookingCompletionScheduler() {
	if completionScheduler != nil {
		_ = completionScheduler.Shutdown()
	}
}
