package router

import (
	"cinema_booking/handler"
	"cinema_booking/middleware"
	"cinema_booking/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	khachhang := v1.Group("/khach-hang")
	khachhang.Post("/register", validate.RegisterCustomer(), handler.RegisterCustomer)
	khachhang.Post("/login", handler.CustomerLogin)
	khachhang.Post("/refresh-token", handler.RefreshCustomerToken)
	khachhang.Get("/me", middleware.OptionalJWT(), middleware.OptionalAuth(), handler.GetCurrentCustomer)

	phim := v1.Group("/phim")
	phim.Get("/", handler.GetMovies)

	rap := v1.Group("/phong-chieu")
	rap.Get("/", handler.GetRooms)

	combo := v1.Group("/combo")
	combo.Get("/", handler.GetCombos)

	ghe := v1.Group("/ghe")
	ghe.Get("/:roomId", handler.GetSeatMap)
	ghe.Get("/:roomId/da-giu", handler.GetOccupiedSeats)

	datve := v1.Group("/dat-ve", logger.New())
	datve.Post("/", middleware.OptionalJWT(), middleware.OptionalAuth(), validate.CreateBooking(), handler.CreateBooking)
	datve.Get("/cua-toi", middleware.OptionalJWT(), middleware.OptionalAuth(), handler.GetMyBookings)
	datve.Get("/:bookingId", middleware.OptionalJWT(), middleware.OptionalAuth(), handler.GetBookingDetail)
	datve.Get("/:bookingId/hoa-don", middleware.OptionalJWT(), middleware.OptionalAuth(), handler.GetInvoiceByBooking)
	datve.Post("/:bookingId/cancel", middleware.OptionalJWT(), middleware.OptionalAuth(), handler.CancelBooking)

	// Admin
	admin := v1.Group("/admin", logger.New())
	admin.Get("/bookings", middleware.Protected(), handler.GetBookingsAdmin)
	admin.Post("/bookings/:bookingId/cash", middleware.Protected(), handler.CashPayment)

	v1.Post("/cloudinary-signature", middleware.Protected(), handler.GenerateSignature)

	// Payments
	app.Post("/payments", middleware.OptionalJWT(), middleware.OptionalAuth(), validate.CreatePayment(), handler.CreatePayment)
	app.Get("/payments/:bookingId/status", handler.GetPaymentStatus)
	app.Get("/vnpay/return", handler.VNPayCallback) // Callback từ VNPay
	app.Post("/vnpay/ipn", handler.VNPayIPN)        // Server-to-Server
	app.Post("/payos/webhook", handler.PayOSWebhook)

	// Realtime seat map
	v1.Get("/ws/ghe/:roomId", websocket.New(handler.SeatWebsocket))
}
