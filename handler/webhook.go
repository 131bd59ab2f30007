package handler

import (
	"errors"
	"fmt"
	"log"

	"tour_booking/booking"
	"tour_booking/constants"
	"tour_booking/gateway"
	"tour_booking/utils"

	"github.com/gofiber/fiber/v2"
)

// PaymentWebhook receives asynchronous transaction notifications from the
// payment gateway. The gateway retries delivery, so the same notification
// can arrive more than once and out of order; the booking service sorts
// that out and tells us what happened via the outcome.
func PaymentWebhook(c *fiber.Ctx) error {
	var n gateway.Notification
	if err := c.BodyParser(&n); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Malformed notification payload", err)
	}

	if err := GatewayClient.VerifyNotification(n); err != nil {
		log.Printf("[webhook] signature mismatch for order %s from %s", n.OrderID, c.IP())
		utils.SendOpsAlert(
			"Payment webhook signature mismatch",
			fmt.Sprintf("order_id=%s status=%s source_ip=%s", n.OrderID, n.TransactionStatus, c.IP()),
		)
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Invalid notification signature", err)
	}

	result, err := BookingService.ApplyPaymentEvent(c.UserContext(), booking.PaymentEventInput{
		OrderRef:      n.OrderID,
		Status:        n.TransactionStatus,
		TransactionID: n.TransactionID,
		StatusCode:    n.StatusCode,
		GrossAmount:   n.GrossAmount,
		Source:        "webhook",
	})
	if err != nil {
		if errors.Is(err, booking.ErrMalformedOrderRef) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Malformed order reference", err)
		}
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, vErr.Reason, err)
		}
		var nfErr *booking.NotFoundError
		if errors.As(err, &nfErr) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Unknown booking for order reference", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if result.Outcome == booking.OutcomeApplied {
		PublishBookingUpdate(result.Booking)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"outcome":       result.Outcome,
		"bookingCode":   result.Booking.BookingCode,
		"status":        result.Booking.Status,
		"paymentStatus": result.Booking.PaymentStatus,
	})
}
