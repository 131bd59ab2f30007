package booking

import (
	"errors"
	"fmt"
)

// ValidationError rejects bad input synchronously; nothing is persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// NotFoundError is an unresolvable package or booking reference.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Ref)
}

// GatewayUnavailableError surfaces after the bounded retry loop around the
// payment gateway is exhausted. The booking keeps its prior status, so the
// caller may retry the whole operation.
type GatewayUnavailableError struct {
	Attempts int
	Err      error
}

func (e *GatewayUnavailableError) Error() string {
	return fmt.Sprintf("payment gateway unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *GatewayUnavailableError) Unwrap() error {
	return e.Err
}

// ErrDuplicateEvent is returned by the store when the payment event's
// identity already exists in the applied-event log.
var ErrDuplicateEvent = errors.New("payment event already applied")

// ErrMalformedOrderRef means the order reference does not follow the
// TRX-{bookingCode}-{timestamp} convention. That indicates a protocol
// mismatch with the gateway, so it is rejected loudly rather than ignored.
var ErrMalformedOrderRef = errors.New("malformed order reference")
