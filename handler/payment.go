package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CreatePayment tạo link thanh toán cho một đơn PENDING_PAYMENT.
// VNPAY: redirect url với TxnRef = BookingID.
// PAYOS: gọi API tạo link, orderCode được lưu lại trên đơn để webhook
// tra theo mã chứ không bao giờ dò theo số tiền.
func CreatePayment(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreatePaymentInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Thiếu dữ liệu thanh toán", nil)
	}

	booking, err := helper.FindBookingByRef(input.BookingId)
	if err != nil {
		if errors.Is(err, helper.ErrBookingNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if booking.Status != model.BookingPending {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_NOT_PENDING, helper.ErrBookingNotPending)
	}
	if time.Now().After(booking.ExpiresAt) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_EXPIRED, nil)
	}

	switch input.Method {
	case constants.PAYMENT_METHOD_VNPAY:
		vnpay := NewVNPay()
		paymentUrl, err := vnpay.BuildPaymentUrl(model.PaymentRequest{
			Amount:    int64(booking.GrandTotal),
			OrderInfo: fmt.Sprintf("Thanh toan dat ve %s", booking.BookingID),
			TxnRef:    booking.BookingID,
			IPAddr:    c.IP(),
		})
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.PAYMENT_CREATE_FAILED, err)
		}
		return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
			"bookingId":  booking.BookingID,
			"paymentUrl": paymentUrl,
			"expiresAt":  booking.ExpiresAt,
		})

	case constants.PAYMENT_METHOD_PAYOS:
		link, err := CreatePayOSLink(booking)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.PAYMENT_CREATE_FAILED, err)
		}
		return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
			"bookingId":   booking.BookingID,
			"checkoutUrl": link.Data.CheckoutUrl,
			"orderCode":   link.Data.OrderCode,
			"expiresAt":   booking.ExpiresAt,
		})
	}

	return utils.ErrorResponse(c, fiber.StatusBadRequest, "Phương thức thanh toán không hỗ trợ", nil)
}

// VNPayCallback xử lý Return URL (trình duyệt khách quay về)
func VNPayCallback(c *fiber.Ctx) error {
	vnpay := NewVNPay()
	query, _ := url.ParseQuery(string(c.Request().URI().QueryString()))

	result := vnpay.VerifyReturnUrl(query)
	if result.TxnRef == "" {
		return c.Redirect(fmt.Sprintf("%s/payment-failed?reason=%s", os.Getenv("FE_URL"), url.QueryEscape(result.Message)))
	}

	booking, err := applyGatewayResult(result)
	if err != nil {
		return c.Redirect(fmt.Sprintf("%s/payment-failed?reason=%s", os.Getenv("FE_URL"), url.QueryEscape(err.Error())))
	}

	if booking.Status == model.BookingPaid {
		return c.Redirect(fmt.Sprintf("%s/don-dat-ve/%s?result=success", os.Getenv("FE_URL"), booking.BookingID))
	}
	return c.Redirect(fmt.Sprintf("%s/don-dat-ve/%s?result=%s", os.Getenv("FE_URL"), booking.BookingID, booking.Status))
}

// VNPayIPN xử lý thông báo server-to-server, trả mã theo format VNPay
func VNPayIPN(c *fiber.Ctx) error {
	vnpay := NewVNPay()
	query, _ := url.ParseQuery(string(c.Body()))

	result := vnpay.VerifyIPN(query)
	if result.TxnRef == "" {
		return c.JSON(fiber.Map{"RspCode": "97", "Message": "Invalid signature"})
	}

	_, err := applyGatewayResult(result)
	switch {
	case errors.Is(err, helper.ErrBookingNotFound):
		return c.JSON(fiber.Map{"RspCode": "01", "Message": "Order not found"})
	case errors.Is(err, helper.ErrAmountMismatch):
		return c.JSON(fiber.Map{"RspCode": "04", "Message": "Invalid amount"})
	case err != nil:
		return c.JSON(fiber.Map{"RspCode": "99", "Message": "Unknown error"})
	}

	return c.JSON(fiber.Map{"RspCode": "00", "Message": "Success"})
}

// applyGatewayResult đưa kết quả VNPay đã verify vào đối soát chung.
// Amount chỉ gửi kèm khi cổng có trả (IPN lỗi có thể thiếu amount).
func applyGatewayResult(result model.PaymentResponse) (*model.Booking, error) {
	conf := helper.PaymentConfirmation{
		BookingRef: result.TxnRef,
		Outcome:    result.Outcome,
		Method:     constants.PAYMENT_METHOD_VNPAY,
		Details:    result.RawDetails,
	}
	if result.Amount > 0 {
		conf.Amount = utils.Ptr(float64(result.Amount))
	}

	booking, err := helper.ConfirmPayment(conf)
	if err != nil {
		return booking, err
	}

	if booking.Status == model.BookingPaid {
		notifyBookingPaid(booking)
	}
	return booking, nil
}

// notifyBookingPaid bắn email + realtime sau khi transition đã commit
func notifyBookingPaid(booking *model.Booking) {
	if booking.Email != "" {
		seats := make([]string, 0, len(booking.Seats))
		for _, s := range booking.Seats {
			seats = append(seats, s.SeatLabel)
		}
		utils.SendBookingConfirmationEmail(booking.Email, utils.BookingEmailData{
			BookingCode:   booking.BookingID,
			MovieName:     booking.Movie.Title,
			RoomName:      booking.Room.Name,
			Showtime:      booking.Showtime.Format("02/01/2006 15:04"),
			Seats:         joinSeats(seats),
			GrandTotal:    booking.GrandTotal,
			PaymentMethod: booking.PaymentMethod,
			DetailLink:    fmt.Sprintf("%s/don-dat-ve/%s", os.Getenv("FE_URL"), booking.BookingID),
		})
	}
	PublishSeatClaim(booking)
}

// GetPaymentStatus cho FE poll trạng thái đơn sau khi quay về từ cổng
func GetPaymentStatus(c *fiber.Ctx) error {
	bookingId := c.Params("bookingId")

	var booking model.Booking
	if err := database.DB.Where("booking_id = ?", bookingId).First(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"bookingId": booking.BookingID,
		"status":    booking.Status,
		"paidAt":    booking.PaidAt,
		"expiresAt": booking.ExpiresAt,
	})
}
