package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
)

// Notification is the webhook payload. Business fields are only trusted after
// VerifyNotification has passed.
type Notification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

var ErrSignatureMismatch = errors.New("notification signature mismatch")

// Signature computes HMAC-SHA512 over order_id + status_code + gross_amount
// keyed with the gateway server key, hex encoded.
func (c *Client) Signature(orderID, statusCode, grossAmount string) string {
	h := hmac.New(sha512.New, []byte(c.cfg.ServerKey))
	h.Write([]byte(orderID + statusCode + grossAmount))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyNotification checks the payload signature before anything else looks
// at the business fields. A mismatch is a potential spoofing attempt.
func (c *Client) VerifyNotification(n Notification) error {
	expected := c.Signature(n.OrderID, n.StatusCode, n.GrossAmount)
	if !hmac.Equal([]byte(expected), []byte(n.SignatureKey)) {
		return ErrSignatureMismatch
	}
	return nil
}
