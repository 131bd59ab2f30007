package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBookingCode generates the externally visible booking identifier.
// No dashes, so order references built from it split unambiguously.
func NewBookingCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "TRB" + raw[:10]
}

// NewVoucherCode generates a redeemable voucher code.
func NewVoucherCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "VCH-" + raw[:10]
}

// NewOrderRef builds a fresh per-attempt order reference. The timestamp keeps
// every payment attempt distinguishable to the gateway and to the webhook
// matcher.
func NewOrderRef(bookingCode string) string {
	return fmt.Sprintf("TRX-%s-%d", bookingCode, time.Now().Unix())
}

// ParseOrderRef extracts the booking code from TRX-{bookingCode}-{timestamp}.
func ParseOrderRef(orderRef string) (string, error) {
	parts := strings.Split(orderRef, "-")
	if len(parts) != 3 || parts[0] != "TRX" || parts[1] == "" {
		return "", ErrMalformedOrderRef
	}
	if _, err := strconv.ParseInt(parts[2], 10, 64); err != nil {
		return "", ErrMalformedOrderRef
	}
	return parts[1], nil
}
