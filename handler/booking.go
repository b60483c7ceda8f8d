package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"encoding/base64"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// purchaserSnapshot là thông tin người mua chụp lại tại thời điểm đặt
type purchaserSnapshot struct {
	UserName string
	Phone    string
	Email    string
}

// CreateBooking nhận input đã validate từ middleware, bổ sung snapshot
// người mua rồi giao cho helper giữ ghế
func CreateBooking(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateBookingInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Thiếu dữ liệu đặt vé", nil)
	}

	var customerId *uint
	customer, _ := c.Locals("customer").(*model.Customer)
	if customer != nil {
		customerId = &customer.ID

		var snapshot purchaserSnapshot
		if err := copier.Copy(&snapshot, customer); err == nil {
			if input.CustomerName == "" {
				input.CustomerName = snapshot.UserName
			}
			if input.Phone == "" {
				input.Phone = snapshot.Phone
			}
			if input.Email == "" {
				input.Email = snapshot.Email
			}
		}
	}

	// khách vãng lai bắt buộc có đủ thông tin liên hệ
	if input.CustomerName == "" || input.Phone == "" || input.Email == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Thiếu thông tin người mua", nil)
	}

	booking, err := helper.CreateBooking(input, customerId)
	if err != nil {
		var conflict *helper.SeatConflictError
		switch {
		case errors.As(err, &conflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": constants.SEATS_ALREADY_TAKEN,
				"seats":   conflict.Seats,
			})
		case errors.Is(err, helper.ErrRoomNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ROOM_NOT_FOUND, err)
		case errors.Is(err, helper.ErrSeatUnknown), errors.Is(err, helper.ErrDuplicateSeat):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ghế không hợp lệ", err)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}

	PublishSeatClaim(booking)

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"bookingId":  booking.BookingID,
		"status":     booking.Status,
		"grandTotal": booking.GrandTotal,
		"expiresAt":  booking.ExpiresAt,
	})
}

func GetMyBookings(c *fiber.Ctx) error {
	customer, ok := c.Locals("customer").(*model.Customer)
	if !ok || customer == nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Vui lòng đăng nhập", nil)
	}

	var bookings []model.Booking
	if err := database.DB.
		Preload("Seats").
		Preload("Combos").
		Preload("Movie").
		Preload("Room").
		Where("customer_id = ?", customer.ID).
		Order("created_at desc").
		Find(&bookings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi tải đơn đặt vé", err)
	}

	response := []map[string]interface{}{}
	for _, booking := range bookings {
		seats := make([]string, 0, len(booking.Seats))
		for _, s := range booking.Seats {
			seats = append(seats, s.SeatLabel)
		}

		response = append(response, map[string]interface{}{
			"bookingId":  booking.BookingID,
			"movieTitle": booking.Movie.Title,
			"room":       booking.Room.Name,
			"showtime":   booking.Showtime.Format("02/01/2006 15:04"),
			"seats":      seats,
			"grandTotal": booking.GrandTotal,
			"status":     booking.Status,
			"poster":     booking.Movie.PosterUrl,
		})
	}

	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

func GetBookingDetail(c *fiber.Ctx) error {
	bookingId := c.Params("bookingId")

	booking, err := helper.FindBookingByRef(bookingId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	seats := make([]string, 0, len(booking.Seats))
	for _, s := range booking.Seats {
		seats = append(seats, s.SeatLabel)
	}
	combos := make([]map[string]interface{}, 0, len(booking.Combos))
	for _, cb := range booking.Combos {
		combos = append(combos, map[string]interface{}{
			"name":     cb.Name,
			"quantity": cb.Quantity,
			"subtotal": cb.Subtotal,
		})
	}

	// 1 QR duy nhất cho cả đơn, quầy quét khi check-in
	qrBase64 := ""
	if booking.Status == model.BookingPaid {
		qrBytes, err := utils.GenerateQRCode(booking.BookingID, 400)
		if err != nil {
			log.Printf("Lỗi tạo QR cho đơn %s: %v", booking.BookingID, err)
		} else {
			qrBase64 = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrBytes)
		}
	}

	response := map[string]interface{}{
		"bookingId":     booking.BookingID,
		"movieTitle":    booking.Movie.Title,
		"room":          booking.Room.Name,
		"showtime":      booking.Showtime.Format("15:04 - 02/01/2006"),
		"seats":         seats,
		"combos":        combos,
		"grandTotal":    booking.GrandTotal,
		"paymentMethod": booking.PaymentMethod,
		"status":        booking.Status,
		"expiresAt":     booking.ExpiresAt,
		"customerName":  booking.CustomerName,
		"phone":         booking.Phone,
		"email":         booking.Email,
		"qrCode":        qrBase64,
	}
	if booking.PaidAt != nil {
		response["paidAt"] = booking.PaidAt.Format("15:04 - 02/01/2006")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

// CancelBooking cho khách tự hủy đơn còn chờ thanh toán. Đơn đã ở trạng
// thái cuối thì không đổi được nữa.
func CancelBooking(c *fiber.Ctx) error {
	bookingId := c.Params("bookingId")

	booking, err := helper.ConfirmPayment(helper.PaymentConfirmation{
		BookingRef: bookingId,
		Outcome:    model.BookingCancelled,
		Details:    `{"source":"customer_cancel"}`,
	})
	if err != nil {
		if errors.Is(err, helper.ErrBookingNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if booking.Status != model.BookingCancelled {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_NOT_PENDING, nil)
	}

	if booking.Email != "" {
		seats := make([]string, 0, len(booking.Seats))
		for _, s := range booking.Seats {
			seats = append(seats, s.SeatLabel)
		}
		utils.SendBookingCancelledEmail(booking.Email, utils.BookingEmailData{
			BookingCode: booking.BookingID,
			MovieName:   booking.Movie.Title,
			Showtime:    booking.Showtime.Format("15:04 - 02/01/2006"),
			Seats:       joinSeats(seats),
			CancelledAt: time.Now().Format("15:04 - 02/01/2006"),
		})
	}

	PublishSeatReleases([]helper.SeatRelease{{
		RoomID:     booking.RoomID,
		Showtime:   booking.Showtime,
		SeatLabels: seatLabelsOf(booking),
	}})

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"bookingId": booking.BookingID,
		"status":    booking.Status,
	})
}

// GetBookingsAdmin liệt kê đơn cho quản trị, lọc theo trạng thái và
// khoảng thời gian, có phân trang
func GetBookingsAdmin(c *fiber.Ctx) error {
	var filter model.FilterBooking
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Bộ lọc không hợp lệ", err)
	}

	query := database.DB.Model(&model.Booking{}).
		Preload("Seats").
		Preload("Movie").
		Preload("Room")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SearchKey != "" {
		key := "%" + strings.ToLower(filter.SearchKey) + "%"
		query = query.Where(
			"LOWER(booking_id) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(email) LIKE ?",
			key, key, key,
		)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var bookings []model.Booking
	if err := utils.ApplyPagination(query, filter.Limit, filter.Page).
		Order("created_at desc").
		Find(&bookings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       bookings,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

// GetInvoiceByBooking tra hóa đơn của một đơn đã thanh toán
func GetInvoiceByBooking(c *fiber.Ctx) error {
	bookingId := c.Params("bookingId")

	var invoice model.Invoice
	if err := database.DB.Where("booking_ref = ?", bookingId).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Chưa có hóa đơn cho đơn này", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, invoice)
}

func joinSeats(seats []string) string {
	return strings.Join(seats, ", ")
}

func seatLabelsOf(booking *model.Booking) []string {
	labels := make([]string, 0, len(booking.Seats))
	for _, s := range booking.Seats {
		labels = append(labels, s.SeatLabel)
	}
	return labels
}
