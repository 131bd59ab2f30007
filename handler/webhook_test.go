package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"tour_booking/booking"
	"tour_booking/gateway"
	"tour_booking/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	events   map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: make(map[string]*model.Booking),
		events:   make(map[string]bool),
	}
}

func (s *fakeStore) GetPackage(context.Context, uint) (*model.TourPackage, error) {
	return nil, nil
}

func (s *fakeStore) CreateBooking(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	s.bookings[b.BookingCode] = &cp
	return nil
}

func (s *fakeStore) GetBookingByCode(_ context.Context, code string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[code]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) UpdateBooking(_ context.Context, b *model.Booking) error {
	return s.CreateBooking(context.Background(), b)
}

func (s *fakeStore) SaveBookingWithEvent(_ context.Context, b *model.Booking, ev *model.PaymentEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ev.OrderRef + "|" + ev.TransactionID + "|" + ev.Status
	if s.events[key] {
		return booking.ErrDuplicateEvent
	}
	s.events[key] = true
	cp := *b
	s.bookings[b.BookingCode] = &cp
	return nil
}

func (s *fakeStore) HasEvent(_ context.Context, orderRef, transactionID, status string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[orderRef+"|"+transactionID+"|"+status], nil
}

func (s *fakeStore) ListStalePending(context.Context, time.Time) ([]model.Booking, error) {
	return nil, nil
}

func setupWebhookApp(t *testing.T) (*fiber.App, *fakeStore, *gateway.Client) {
	t.Helper()

	store := newFakeStore()
	gw := gateway.NewClient(gateway.Config{BaseURL: "http://gateway.invalid", ServerKey: "sk-test"})
	Init(booking.NewService(store, gw, nil, booking.Config{}), gw)

	app := fiber.New()
	app.Post("/webhooks/payment", PaymentWebhook)
	return app, store, gw
}

func seedBookingWithOrder(store *fakeStore, code, orderRef string) {
	store.bookings[code] = &model.Booking{
		DTO:             model.DTO{ID: 1},
		BookingCode:     code,
		Status:          model.BookingPending,
		PaymentStatus:   model.PaymentPending,
		PaymentOrderRef: orderRef,
		TotalAmount:     4000000,
	}
}

func signedNotification(gw *gateway.Client, orderRef, status, transactionID string) gateway.Notification {
	n := gateway.Notification{
		OrderID:           orderRef,
		TransactionStatus: status,
		TransactionID:     transactionID,
		StatusCode:        "200",
		GrossAmount:       "4000000.00",
	}
	n.SignatureKey = gw.Signature(n.OrderID, n.StatusCode, n.GrossAmount)
	return n
}

func postNotification(t *testing.T, app *fiber.App, n gateway.Notification) (*http.Response, map[string]any) {
	t.Helper()
	body, err := json.Marshal(n)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, _ := io.ReadAll(res.Body)
	var parsed map[string]any
	_ = json.Unmarshal(raw, &parsed)
	return res, parsed
}

func TestPaymentWebhookRejectsBadSignature(t *testing.T) {
	app, store, gw := setupWebhookApp(t)
	seedBookingWithOrder(store, "TRBAAAA000001", "TRX-TRBAAAA000001-1700000000")

	n := signedNotification(gw, "TRX-TRBAAAA000001-1700000000", model.PaymentSettlement, "txn-1")
	n.SignatureKey = "forged"

	res, _ := postNotification(t, app, n)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	b, _ := store.GetBookingByCode(context.Background(), "TRBAAAA000001")
	assert.Equal(t, model.BookingPending, b.Status)
}

func TestPaymentWebhookRejectsMalformedOrderRef(t *testing.T) {
	app, _, gw := setupWebhookApp(t)

	n := signedNotification(gw, "garbage", model.PaymentSettlement, "txn-1")
	res, _ := postNotification(t, app, n)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestPaymentWebhookUnknownBooking(t *testing.T) {
	app, _, gw := setupWebhookApp(t)

	n := signedNotification(gw, "TRX-TRBDOESNOTEX-1700000000", model.PaymentSettlement, "txn-1")
	res, _ := postNotification(t, app, n)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestPaymentWebhookSettlement(t *testing.T) {
	app, store, gw := setupWebhookApp(t)
	seedBookingWithOrder(store, "TRBAAAA000002", "TRX-TRBAAAA000002-1700000000")

	n := signedNotification(gw, "TRX-TRBAAAA000002-1700000000", model.PaymentSettlement, "txn-1")
	res, payload := postNotification(t, app, n)

	require.Equal(t, http.StatusOK, res.StatusCode)
	data := payload["data"].(map[string]any)
	assert.Equal(t, booking.OutcomeApplied, data["outcome"])
	assert.Equal(t, model.BookingConfirmed, data["status"])

	b, _ := store.GetBookingByCode(context.Background(), "TRBAAAA000002")
	assert.Equal(t, model.BookingConfirmed, b.Status)
	assert.True(t, b.VoucherIssued)
}

func TestPaymentWebhookRedelivery(t *testing.T) {
	app, store, gw := setupWebhookApp(t)
	seedBookingWithOrder(store, "TRBAAAA000003", "TRX-TRBAAAA000003-1700000000")

	n := signedNotification(gw, "TRX-TRBAAAA000003-1700000000", model.PaymentSettlement, "txn-1")

	res, payload := postNotification(t, app, n)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, booking.OutcomeApplied, payload["data"].(map[string]any)["outcome"])

	res, payload = postNotification(t, app, n)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, booking.OutcomeDuplicate, payload["data"].(map[string]any)["outcome"])

	b, _ := store.GetBookingByCode(context.Background(), "TRBAAAA000003")
	assert.Equal(t, model.BookingConfirmed, b.Status)
}

func TestPaymentWebhookStaleRef(t *testing.T) {
	app, store, gw := setupWebhookApp(t)
	seedBookingWithOrder(store, "TRBAAAA000004", "TRX-TRBAAAA000004-1700000099")

	// notification for a superseded payment attempt
	n := signedNotification(gw, "TRX-TRBAAAA000004-1700000000", model.PaymentSettlement, "txn-1")
	res, payload := postNotification(t, app, n)

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, booking.OutcomeStaleOrderRef, payload["data"].(map[string]any)["outcome"])

	b, _ := store.GetBookingByCode(context.Background(), "TRBAAAA000004")
	assert.Equal(t, model.BookingPending, b.Status)
	assert.False(t, b.VoucherIssued)
}
