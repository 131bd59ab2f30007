package main

import (
	"log"

	"tour_booking/booking"
	"tour_booking/config"
	"tour_booking/database"
	"tour_booking/gateway"
	"tour_booking/handler"
	"tour_booking/helper"
	"tour_booking/router"
	"tour_booking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigOr("CORS_ORIGINS", "http://localhost:3000"),
		AllowCredentials: true,
	}))

	database.ConnectDB()

	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL:   config.Config("PAYMENT_GATEWAY_URL"),
		ServerKey: config.Config("PAYMENT_SERVER_KEY"),
	})

	bookingService := booking.NewService(
		database.NewBookingStore(database.DB),
		gatewayClient,
		&utils.VoucherNotifier{},
		booking.Config{},
	)

	handler.Init(bookingService, gatewayClient)
	handler.InitRedis()

	helper.StartPaymentReconciler(bookingService, config.ConfigOr("RECONCILE_CRON", "*/10 * * * *"))
	defer helper.StopPaymentReconciler()

	helper.StartBookingCompletionScheduler()
	defer helper.StopBookingCompletionScheduler()

	router.SetupRoutes(app)

	port := config.ConfigOr("SERVER_PORT", "8000")
	log.Fatal(app.Listen(":" + port))
}
