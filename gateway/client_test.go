package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	var gotPath, gotUser string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(Session{Token: "tok-123", RedirectURL: "https://pay.example/tok-123"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, ServerKey: "sk-test"})
	session, err := c.CreateSession(context.Background(), "TRX-TRB1-1700000000", 4000000, Customer{Name: "Ayu", Email: "ayu@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "tok-123", session.Token)
	assert.Equal(t, "https://pay.example/tok-123", session.RedirectURL)
	assert.Equal(t, "/v2/sessions", gotPath)
	assert.Equal(t, "sk-test", gotUser)
	assert.Equal(t, "TRX-TRB1-1700000000", gotBody["order_id"])
	assert.Equal(t, "4000000.00", gotBody["gross_amount"])
}

func TestCreateSessionEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Session{})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, ServerKey: "sk-test"})
	_, err := c.CreateSession(context.Background(), "TRX-TRB1-1700000000", 100, Customer{})
	assert.Error(t, err)
}

func TestCreateSessionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, ServerKey: "sk-test"})
	_, err := c.CreateSession(context.Background(), "TRX-TRB1-1700000000", 100, Customer{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.True(t, IsUnavailable(err))
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(&APIError{StatusCode: 500}))
	assert.True(t, IsUnavailable(&APIError{StatusCode: 503}))
	assert.False(t, IsUnavailable(&APIError{StatusCode: 400}))
	assert.False(t, IsUnavailable(&APIError{StatusCode: 422}))
	// transport errors carry no gateway response
	assert.True(t, IsUnavailable(errors.New("connection refused")))
}

func TestQueryStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/sessions/TRX-TRB1-1700000000/status", r.URL.Path)
		json.NewEncoder(w).Encode(Status{
			OrderRef:          "TRX-TRB1-1700000000",
			TransactionStatus: "settlement",
			TransactionID:     "txn-9",
			StatusCode:        "200",
			GrossAmount:       "4000000.00",
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, ServerKey: "sk-test"})
	status, err := c.QueryStatus(context.Background(), "TRX-TRB1-1700000000")

	require.NoError(t, err)
	assert.Equal(t, "settlement", status.TransactionStatus)
	assert.Equal(t, "txn-9", status.TransactionID)
}

func TestSignature(t *testing.T) {
	c := NewClient(Config{ServerKey: "sk-test"})

	mac := hmac.New(sha512.New, []byte("sk-test"))
	mac.Write([]byte("TRX-TRB1-1700000000" + "200" + "4000000.00"))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, c.Signature("TRX-TRB1-1700000000", "200", "4000000.00"))
}

func TestVerifyNotification(t *testing.T) {
	c := NewClient(Config{ServerKey: "sk-test"})

	n := Notification{
		OrderID:     "TRX-TRB1-1700000000",
		StatusCode:  "200",
		GrossAmount: "4000000.00",
	}
	n.SignatureKey = c.Signature(n.OrderID, n.StatusCode, n.GrossAmount)
	assert.NoError(t, c.VerifyNotification(n))

	// amount tampered after signing
	n.GrossAmount = "1.00"
	assert.ErrorIs(t, c.VerifyNotification(n), ErrSignatureMismatch)

	// signed with the wrong key
	other := NewClient(Config{ServerKey: "sk-other"})
	n.GrossAmount = "4000000.00"
	n.SignatureKey = other.Signature(n.OrderID, n.StatusCode, n.GrossAmount)
	assert.ErrorIs(t, c.VerifyNotification(n), ErrSignatureMismatch)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "4000000.00", FormatAmount(4000000))
	assert.Equal(t, "1999.50", FormatAmount(1999.5))
	assert.Equal(t, "0.00", FormatAmount(0))
}
