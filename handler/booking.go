package handler

import (
	"errors"

	"tour_booking/booking"
	"tour_booking/constants"
	"tour_booking/helper"
	"tour_booking/model"
	"tour_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func respondBookingError(c *fiber.Ctx, err error) error {
	var vErr *booking.ValidationError
	var nfErr *booking.NotFoundError
	var gwErr *booking.GatewayUnavailableError

	switch {
	case errors.As(err, &vErr):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, vErr.Reason, err)
	case errors.As(err, &nfErr):
		return utils.ErrorResponse(c, fiber.StatusNotFound, err.Error(), err)
	case errors.As(err, &gwErr):
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Payment gateway unavailable, please retry", err)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
}

func CreateBooking(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateBookingInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing booking input", nil)
	}

	b, err := BookingService.CreateBooking(c.UserContext(), input)
	if err != nil {
		return respondBookingError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"bookingCode": b.BookingCode,
		"status":      b.Status,
		"totalAmount": b.TotalAmount,
		"nextStep":    "Initiate payment",
	})
}

func InitiatePayment(c *fiber.Ctx) error {
	code := c.Params("code")

	b, session, err := BookingService.InitiatePayment(c.UserContext(), code)
	if err != nil {
		return respondBookingError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"bookingCode":  b.BookingCode,
		"orderRef":     b.PaymentOrderRef,
		"sessionToken": session.Token,
		"redirectUrl":  session.RedirectURL,
	})
}

// GetBooking is what the storefront polls while waiting on the asynchronous
// payment confirmation.
func GetBooking(c *fiber.Ctx) error {
	code := c.Params("code")

	b, err := BookingService.QueryBooking(c.UserContext(), code)
	if err != nil {
		return respondBookingError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, b)
}

// VerifyBooking is the manual admin action for payments claimed by the
// customer but not yet confirmed by the gateway.
func VerifyBooking(c *fiber.Ctx) error {
	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, nil)
	}

	b, err := BookingService.MarkPendingVerification(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondBookingError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, b)
}

// GetVoucherQR serves the voucher as a scannable PNG once issued.
func GetVoucherQR(c *fiber.Ctx) error {
	code := c.Params("code")

	b, err := BookingService.QueryBooking(c.UserContext(), code)
	if err != nil {
		return respondBookingError(c, err)
	}
	if !b.VoucherIssued {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Voucher not issued for this booking", nil)
	}

	qrBytes, err := utils.GenerateQRCode(b.VoucherCode, 400)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to render voucher QR", err)
	}
	c.Set("Content-Type", "image/png")
	return c.Send(qrBytes)
}
