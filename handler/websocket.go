package handler

import (
	"context"
	"encoding/json"
	"log"

	"tour_booking/config"
	"tour_booking/model"

	"github.com/gofiber/contrib/websocket"
	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedis connects the websocket fanout. Without REDIS_ADDR the live
// status push is disabled and clients fall back to polling GetBooking.
func InitRedis() {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, booking status push disabled")
		return
	}
	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
	})
}

type BookingUpdate struct {
	BookingCode   string `json:"bookingCode"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	VoucherIssued bool   `json:"voucherIssued"`
}

func bookingChannel(code string) string {
	return "booking:" + code
}

func marshalUpdate(b *model.Booking) []byte {
	payload, _ := json.Marshal(BookingUpdate{
		BookingCode:   b.BookingCode,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		VoucherIssued: b.VoucherIssued,
	})
	return payload
}

// PublishBookingUpdate pushes the new booking state to every open socket
// watching that booking, across all instances.
func PublishBookingUpdate(b *model.Booking) {
	if redisClient == nil || b == nil {
		return
	}
	if err := redisClient.Publish(context.Background(), bookingChannel(b.BookingCode), marshalUpdate(b)).Err(); err != nil {
		log.Printf("publish booking update for %s: %v", b.BookingCode, err)
	}
}

// BookingSocket streams status changes for one booking. The storefront keeps
// it open on the "waiting for payment" page.
func BookingSocket(c *websocket.Conn) {
	defer c.Close()

	code := c.Params("code")
	if redisClient == nil || code == "" {
		return
	}

	// Snapshot first so the client does not miss a transition that happened
	// before the subscription was live.
	if b, err := BookingService.QueryBooking(context.Background(), code); err == nil {
		if err := c.WriteMessage(websocket.TextMessage, marshalUpdate(b)); err != nil {
			return
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := redisClient.Subscribe(ctx, bookingChannel(code))
	defer pubsub.Close()

	// Drain reads so a close frame from the client ends the subscription.
	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for msg := range pubsub.Channel() {
		if err := c.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
			return
		}
	}
}
