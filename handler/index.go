package handler

import (
	"tour_booking/booking"
	"tour_booking/gateway"
)

var (
	BookingService *booking.Service
	GatewayClient  *gateway.Client
)

// Init wires the handlers to the booking service and the gateway client
// built in main.
func Init(svc *booking.Service, gw *gateway.Client) {
	BookingService = svc
	GatewayClient = gw
}
