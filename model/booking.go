package model

import "time"

// Booking lifecycle statuses. cancelled is terminal; completed is only reached
// by the daily completion job after the trip's schedule has ended.
const (
	BookingPending             = "pending"
	BookingPendingVerification = "pending_verification"
	BookingConfirmed           = "confirmed"
	BookingCompleted           = "completed"
	BookingCancelled           = "cancelled"
)

// Gateway payment status vocabulary, mirrored as delivered on the wire.
// Intentionally distinct from the booking status above.
const (
	PaymentPending    = "pending"
	PaymentSettlement = "settlement"
	PaymentCapture    = "capture"
	PaymentDeny       = "deny"
	PaymentCancel     = "cancel"
	PaymentExpire     = "expire"
	PaymentFailure    = "failure"
)

type Booking struct {
	DTO
	BookingCode string `gorm:"unique;size:20" json:"bookingCode"`

	PackageID   uint         `json:"packageId"`
	Package     *TourPackage `json:"package,omitempty"`
	PackageName string       `json:"packageName"` // snapshot at booking time
	UnitPrice   float64      `json:"unitPrice"`   // snapshot at booking time

	ScheduleStart time.Time `json:"scheduleStart"`
	ScheduleEnd   time.Time `json:"scheduleEnd"`

	CustomerName string `json:"customerName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address,omitempty"`
	Notes        string `json:"notes,omitempty"`

	ParticipantCount int     `json:"participantCount"`
	TotalAmount      float64 `json:"totalAmount"` // UnitPrice * ParticipantCount, never recomputed

	Status        string `gorm:"size:30;default:pending" json:"status"`
	PaymentStatus string `gorm:"size:30;default:pending" json:"paymentStatus"`

	// Current payment attempt. A re-initiated payment overwrites both fields;
	// webhooks carrying the old ref are discarded as stale.
	PaymentSessionToken string `json:"-"`
	PaymentOrderRef     string `gorm:"index;size:100" json:"paymentOrderRef,omitempty"`

	VoucherIssued bool   `json:"voucherIssued"`
	VoucherCode   string `gorm:"size:30" json:"voucherCode,omitempty"`

	LastWebhookReceivedAt *time.Time `json:"lastWebhookReceivedAt,omitempty"`
}

// PaymentEvent is the append-only log of applied gateway notifications.
// The composite unique index is the idempotency key: redelivered events hit
// the conflict and are treated as no-ops.
type PaymentEvent struct {
	DTO
	BookingID     uint   `gorm:"index" json:"bookingId"`
	OrderRef      string `gorm:"uniqueIndex:idx_payment_event_identity;size:100" json:"orderRef"`
	TransactionID string `gorm:"uniqueIndex:idx_payment_event_identity;size:100" json:"transactionId"`
	Status        string `gorm:"uniqueIndex:idx_payment_event_identity;size:30" json:"status"`
	StatusCode    string `gorm:"size:10" json:"statusCode"`
	GrossAmount   string `gorm:"size:30" json:"grossAmount"`
	Source        string `gorm:"size:20" json:"source"` // webhook | reconcile
}

type CreateBookingInput struct {
	PackageID        uint   `json:"packageId" validate:"required,gt=0"`
	ScheduleID       uint   `json:"scheduleId" validate:"required,gt=0"`
	ParticipantCount int    `json:"participantCount" validate:"required,gt=0"`
	CustomerName     string `json:"customerName" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required"`
	Address          string `json:"address"`
	Notes            string `json:"notes"`
}
