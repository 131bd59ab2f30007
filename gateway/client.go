package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

type Config struct {
	BaseURL   string
	ServerKey string
	Timeout   time.Duration
}

// Client is a thin adapter over the payment gateway's REST API. It owns no
// state and performs no retries; retrying createSession here could create
// duplicate gateway-side orders, so retries live in the booking service.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Session is one checkout attempt handed back by the gateway.
type Session struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// Status is the gateway's view of a payment attempt, shared by the
// status-query call and the webhook payload.
type Status struct {
	OrderRef          string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
}

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway responded %d: %s", e.StatusCode, e.Body)
}

// IsUnavailable reports whether err looks like a transient gateway problem
// (transport failure or 5xx) worth retrying at the caller's layer.
func IsUnavailable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	// Transport-level failures carry no gateway response.
	return true
}

func (c *Client) CreateSession(ctx context.Context, orderRef string, amount float64, customer Customer) (*Session, error) {
	payload := map[string]any{
		"order_id":     orderRef,
		"gross_amount": FormatAmount(amount),
		"customer":     customer,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v2/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.ServerKey, "")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &APIError{StatusCode: res.StatusCode, Body: string(raw)}
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}
	if session.Token == "" {
		return nil, fmt.Errorf("gateway returned an empty session token")
	}
	return &session, nil
}

// QueryStatus is the reconciliation fallback when no webhook has arrived.
func (c *Client) QueryStatus(ctx context.Context, orderRef string) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/v2/sessions/"+orderRef+"/status", nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.cfg.ServerKey, "")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &APIError{StatusCode: res.StatusCode, Body: string(raw)}
	}

	var status Status
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("parse status response: %w", err)
	}
	return &status, nil
}

// FormatAmount renders an amount the way the gateway expects it (two decimals),
// which is also the exact string covered by the webhook signature.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
