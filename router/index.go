package router

import (
	"tour_booking/handler"
	"tour_booking/middleware"
	"tour_booking/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App) {
	// Gateway callback, outside the versioned API surface.
	app.Post("/webhooks/payment", handler.PaymentWebhook)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/bookings/:code", websocket.New(handler.BookingSocket))

	api := app.Group("/api/v1")

	api.Post("/auth/login", handler.Login)
	api.Post("/auth/logout", handler.Logout)

	api.Get("/destinations", handler.GetDestinations)
	api.Get("/packages", handler.GetPackages)
	api.Get("/packages/:slug", handler.GetPackageBySlug)

	api.Post("/bookings", validate.CreateBooking(), handler.CreateBooking)
	api.Get("/bookings/:code", handler.GetBooking)
	api.Post("/bookings/:code/payment", handler.InitiatePayment)
	api.Get("/bookings/:code/voucher", handler.GetVoucherQR)

	admin := api.Group("", middleware.Protected())
	admin.Get("/bookings", handler.GetBookings)
	admin.Patch("/bookings/:code/verify", handler.VerifyBooking)

	admin.Post("/destinations", validate.CreateDestination(), handler.CreateDestination)
	admin.Put("/destinations/:destinationId", validate.EditDestination(), handler.EditDestination)
	admin.Delete("/destinations/:destinationId", handler.DeleteDestination)

	admin.Post("/packages", validate.CreatePackage(), handler.CreatePackage)
	admin.Put("/packages/:packageId", validate.EditPackage(), handler.EditPackage)
	admin.Post("/packages/:packageId/schedules", handler.AddSchedule)
	admin.Patch("/packages/:packageId/deactivate", handler.DeactivatePackage)

	admin.Get("/statistic", handler.GetAdminStats)
	admin.Post("/cloudinary-signature", handler.GenerateUploadSignature)
}
