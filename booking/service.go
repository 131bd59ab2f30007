package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"tour_booking/gateway"
	"tour_booking/model"
)

// Store is the passive persistence layer for bookings. Implementations carry
// no business logic; write ownership of status/paymentStatus stays here in
// the service.
type Store interface {
	GetPackage(ctx context.Context, id uint) (*model.TourPackage, error)
	CreateBooking(ctx context.Context, b *model.Booking) error
	GetBookingByCode(ctx context.Context, code string) (*model.Booking, error)
	UpdateBooking(ctx context.Context, b *model.Booking) error
	// SaveBookingWithEvent persists the booking mutation and appends the
	// payment event in one transaction. Returns ErrDuplicateEvent when the
	// event identity already exists in the log.
	SaveBookingWithEvent(ctx context.Context, b *model.Booking, ev *model.PaymentEvent) error
	HasEvent(ctx context.Context, orderRef, transactionID, status string) (bool, error)
	ListStalePending(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
}

// Gateway is the outbound payment gateway contract.
type Gateway interface {
	CreateSession(ctx context.Context, orderRef string, amount float64, customer gateway.Customer) (*gateway.Session, error)
	QueryStatus(ctx context.Context, orderRef string) (*gateway.Status, error)
}

// Notifier delivers the voucher after a confirmed transition commits.
// Best effort: failures never roll the booking back, so implementations do
// their slow work (email) internally async.
type Notifier interface {
	DeliverVoucher(b model.Booking)
}

type Config struct {
	GatewayMaxAttempts int
	GatewayBackoffBase time.Duration
	ReconcileAfter     time.Duration
}

type Service struct {
	store    Store
	gateway  Gateway
	notifier Notifier
	cfg      Config

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store Store, gw Gateway, notifier Notifier, cfg Config) *Service {
	if cfg.GatewayMaxAttempts <= 0 {
		cfg.GatewayMaxAttempts = 3
	}
	if cfg.GatewayBackoffBase <= 0 {
		cfg.GatewayBackoffBase = 500 * time.Millisecond
	}
	if cfg.ReconcileAfter <= 0 {
		cfg.ReconcileAfter = 24 * time.Hour
	}
	return &Service{
		store:    store,
		gateway:  gw,
		notifier: notifier,
		cfg:      cfg,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockBooking is the per-booking serialization point. Concurrent webhook
// deliveries and payment re-initiations for the same booking queue here.
func (s *Service) lockBooking(code string) func() {
	s.mu.Lock()
	l, ok := s.locks[code]
	if !ok {
		l = &sync.Mutex{}
		s.locks[code] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// CreateBooking validates the request against the package catalog, snapshots
// the price and persists a pending booking. The payment session is requested
// in a separate step so both can be retried independently.
func (s *Service) CreateBooking(ctx context.Context, input model.CreateBookingInput) (*model.Booking, error) {
	pkg, err := s.store.GetPackage(ctx, input.PackageID)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}
	if pkg == nil {
		return nil, &NotFoundError{Entity: "package", Ref: fmt.Sprintf("%d", input.PackageID)}
	}
	if !pkg.IsActive {
		return nil, &ValidationError{Reason: "package is no longer offered"}
	}

	var schedule *model.PackageSchedule
	for i := range pkg.Schedules {
		if pkg.Schedules[i].ID == input.ScheduleID {
			schedule = &pkg.Schedules[i]
			break
		}
	}
	if schedule == nil {
		return nil, &ValidationError{Reason: "schedule does not belong to the selected package"}
	}
	if schedule.StartDate.Before(time.Now()) {
		return nil, &ValidationError{Reason: "schedule has already departed"}
	}
	if input.ParticipantCount > pkg.Capacity {
		return nil, &ValidationError{Reason: fmt.Sprintf("participant count exceeds package capacity of %d", pkg.Capacity)}
	}

	b := &model.Booking{
		BookingCode:      NewBookingCode(),
		PackageID:        pkg.ID,
		PackageName:      pkg.Name,
		UnitPrice:        pkg.Price,
		ScheduleStart:    schedule.StartDate,
		ScheduleEnd:      schedule.EndDate,
		CustomerName:     input.CustomerName,
		Email:            input.Email,
		Phone:            input.Phone,
		Address:          input.Address,
		Notes:            input.Notes,
		ParticipantCount: input.ParticipantCount,
		TotalAmount:      pkg.Price * float64(input.ParticipantCount),
		Status:           model.BookingPending,
		PaymentStatus:    model.PaymentPending,
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("persist booking: %w", err)
	}
	return b, nil
}

// InitiatePayment requests a fresh payment session from the gateway and
// stores the new order reference, superseding any prior attempt. The booking
// is not mutated when the gateway cannot be reached.
func (s *Service) InitiatePayment(ctx context.Context, code string) (*model.Booking, *gateway.Session, error) {
	unlock := s.lockBooking(code)
	defer unlock()

	b, err := s.store.GetBookingByCode(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("load booking: %w", err)
	}
	if b == nil {
		return nil, nil, &NotFoundError{Entity: "booking", Ref: code}
	}
	if b.Status != model.BookingPending && b.Status != model.BookingPendingVerification {
		return nil, nil, &ValidationError{Reason: "booking is not awaiting payment"}
	}

	orderRef := NewOrderRef(b.BookingCode)
	session, err := s.createSessionWithRetry(ctx, orderRef, b)
	if err != nil {
		return nil, nil, err
	}

	b.PaymentOrderRef = orderRef
	b.PaymentSessionToken = session.Token
	b.PaymentStatus = model.PaymentPending
	if err := s.store.UpdateBooking(ctx, b); err != nil {
		return nil, nil, fmt.Errorf("store payment session: %w", err)
	}
	return b, session, nil
}

// createSessionWithRetry wraps the single gateway call in bounded exponential
// backoff. The orderRef stays constant across attempts so a request that
// succeeded gateway-side but failed on the wire cannot spawn a second order.
func (s *Service) createSessionWithRetry(ctx context.Context, orderRef string, b *model.Booking) (*gateway.Session, error) {
	customer := gateway.Customer{Name: b.CustomerName, Email: b.Email, Phone: b.Phone}
	backoff := s.cfg.GatewayBackoffBase

	var lastErr error
	for attempt := 1; attempt <= s.cfg.GatewayMaxAttempts; attempt++ {
		session, err := s.gateway.CreateSession(ctx, orderRef, b.TotalAmount, customer)
		if err == nil {
			return session, nil
		}
		lastErr = err
		if !gateway.IsUnavailable(err) {
			return nil, fmt.Errorf("create payment session: %w", err)
		}
		log.Printf("[payment] create session attempt %d/%d failed for %s: %v", attempt, s.cfg.GatewayMaxAttempts, orderRef, err)

		if attempt < s.cfg.GatewayMaxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, &GatewayUnavailableError{Attempts: s.cfg.GatewayMaxAttempts, Err: lastErr}
}

// QueryBooking loads a booking by its public code.
func (s *Service) QueryBooking(ctx context.Context, code string) (*model.Booking, error) {
	b, err := s.store.GetBookingByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if b == nil {
		return nil, &NotFoundError{Entity: "booking", Ref: code}
	}
	return b, nil
}

// MarkPendingVerification is the administrative action for "payment claimed
// by the customer but not yet gateway-confirmed". The state machine treats it
// the same as pending.
func (s *Service) MarkPendingVerification(ctx context.Context, code string) (*model.Booking, error) {
	unlock := s.lockBooking(code)
	defer unlock()

	b, err := s.store.GetBookingByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if b == nil {
		return nil, &NotFoundError{Entity: "booking", Ref: code}
	}
	if b.Status != model.BookingPending {
		return nil, &ValidationError{Reason: "only pending bookings can be marked for verification"}
	}
	b.Status = model.BookingPendingVerification
	if err := s.store.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return b, nil
}

// PaymentEventInput is a strictly parsed gateway notification, the only thing
// the state machine ever sees. Push (webhook) and pull (reconciliation poll)
// both funnel through ApplyPaymentEvent.
type PaymentEventInput struct {
	OrderRef      string
	Status        string
	TransactionID string
	StatusCode    string
	GrossAmount   string
	Source        string // webhook | reconcile
}

type ApplyResult struct {
	Booking *model.Booking
	Outcome string
}

// ApplyPaymentEvent is the single state-machine transition entry point.
// Events are deduplicated by (orderRef, status, transactionId), matched
// against the booking's current order reference and ordered by finality rank.
// Discards return a non-applied outcome, never an error.
func (s *Service) ApplyPaymentEvent(ctx context.Context, in PaymentEventInput) (*ApplyResult, error) {
	code, err := ParseOrderRef(in.OrderRef)
	if err != nil {
		return nil, err
	}
	if !IsKnownPaymentStatus(in.Status) {
		return nil, &ValidationError{Reason: "unknown transaction status " + in.Status}
	}

	unlock := s.lockBooking(code)
	defer unlock()

	b, err := s.store.GetBookingByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if b == nil {
		return nil, &NotFoundError{Entity: "booking", Ref: code}
	}

	// Orphan check: webhook for a superseded payment attempt.
	if b.PaymentOrderRef != in.OrderRef {
		log.Printf("[webhook] discarded stale event for %s: ref %s, current %s", code, in.OrderRef, b.PaymentOrderRef)
		return &ApplyResult{Booking: b, Outcome: OutcomeStaleOrderRef}, nil
	}

	applied, err := s.store.HasEvent(ctx, in.OrderRef, in.TransactionID, in.Status)
	if err != nil {
		return nil, fmt.Errorf("dedup check: %w", err)
	}
	if applied {
		log.Printf("[webhook] duplicate event for %s (%s/%s), no-op", code, in.Status, in.TransactionID)
		return &ApplyResult{Booking: b, Outcome: OutcomeDuplicate}, nil
	}

	d := decideTransition(b, in.Status)
	if d.Outcome != OutcomeApplied {
		log.Printf("[webhook] discarded event for %s (%s): %s", code, in.Status, d.DiscardReason)
		return &ApplyResult{Booking: b, Outcome: d.Outcome}, nil
	}

	wasConfirmed := b.Status == model.BookingConfirmed
	b.Status = d.NewStatus
	b.PaymentStatus = d.NewPayment
	now := time.Now()
	b.LastWebhookReceivedAt = &now
	if d.IssueVoucher {
		issueVoucher(b)
	}

	ev := &model.PaymentEvent{
		BookingID:     b.ID,
		OrderRef:      in.OrderRef,
		TransactionID: in.TransactionID,
		Status:        in.Status,
		StatusCode:    in.StatusCode,
		GrossAmount:   in.GrossAmount,
		Source:        in.Source,
	}
	if err := s.store.SaveBookingWithEvent(ctx, b, ev); err != nil {
		if errors.Is(err, ErrDuplicateEvent) {
			// Lost a cross-process race; re-read the winner's state.
			current, loadErr := s.store.GetBookingByCode(ctx, code)
			if loadErr != nil || current == nil {
				current = b
			}
			return &ApplyResult{Booking: current, Outcome: OutcomeDuplicate}, nil
		}
		return nil, fmt.Errorf("apply payment event: %w", err)
	}

	if b.Status == model.BookingConfirmed && !wasConfirmed && s.notifier != nil {
		// After commit only. The notifier is best effort and internally async.
		s.notifier.DeliverVoucher(*b)
	}

	log.Printf("[webhook] applied %s event for %s via %s: status=%s", in.Status, code, in.Source, b.Status)
	return &ApplyResult{Booking: b, Outcome: OutcomeApplied}, nil
}

// ReconcilePending pulls gateway state for bookings that initiated payment
// but saw no webhook inside the configured window, and feeds the answers
// through ApplyPaymentEvent like any other event.
func (s *Service) ReconcilePending(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.cfg.ReconcileAfter)
	stale, err := s.store.ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale bookings: %w", err)
	}

	applied := 0
	for i := range stale {
		b := stale[i]
		status, err := s.gateway.QueryStatus(ctx, b.PaymentOrderRef)
		if err != nil {
			log.Printf("[reconcile] status query failed for %s: %v", b.BookingCode, err)
			continue
		}
		res, err := s.ApplyPaymentEvent(ctx, PaymentEventInput{
			OrderRef:      b.PaymentOrderRef,
			Status:        status.TransactionStatus,
			TransactionID: status.TransactionID,
			StatusCode:    status.StatusCode,
			GrossAmount:   status.GrossAmount,
			Source:        "reconcile",
		})
		if err != nil {
			log.Printf("[reconcile] apply failed for %s: %v", b.BookingCode, err)
			continue
		}
		if res.Outcome == OutcomeApplied {
			applied++
		}
	}
	return applied, nil
}
