package database

import (
	"context"
	"errors"
	"time"

	"tour_booking/booking"
	"tour_booking/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingStore is the gorm-backed persistence layer behind the booking
// service. No business logic lives here.
type BookingStore struct {
	db *gorm.DB
}

func NewBookingStore(db *gorm.DB) *BookingStore {
	return &BookingStore{db: db}
}

func (s *BookingStore) GetPackage(ctx context.Context, id uint) (*model.TourPackage, error) {
	var pkg model.TourPackage
	if err := s.db.WithContext(ctx).Preload("Schedules").First(&pkg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pkg, nil
}

func (s *BookingStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *BookingStore) GetBookingByCode(ctx context.Context, code string) (*model.Booking, error) {
	var b model.Booking
	if err := s.db.WithContext(ctx).First(&b, "booking_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (s *BookingStore) UpdateBooking(ctx context.Context, b *model.Booking) error {
	return s.db.WithContext(ctx).Save(b).Error
}

// SaveBookingWithEvent appends the payment event and saves the booking in a
// single transaction. The unique index on the event identity turns a
// redelivered event into booking.ErrDuplicateEvent instead of a second apply.
func (s *BookingStore) SaveBookingWithEvent(ctx context.Context, b *model.Booking, ev *model.PaymentEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(ev)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return booking.ErrDuplicateEvent
		}
		return tx.Save(b).Error
	})
}

func (s *BookingStore) HasEvent(ctx context.Context, orderRef, transactionID, status string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PaymentEvent{}).
		Where("order_ref = ? AND transaction_id = ? AND status = ?", orderRef, transactionID, status).
		Count(&count).Error
	return count > 0, err
}

func (s *BookingStore) ListStalePending(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Where("status IN ? AND payment_order_ref <> '' AND last_webhook_received_at IS NULL AND updated_at < ?",
			[]string{model.BookingPending, model.BookingPendingVerification}, cutoff).
		Find(&bookings).Error
	return bookings, err
}
