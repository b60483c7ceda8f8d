package handler

import (
	"cinema_booking/constants"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// CashPayment xác nhận thanh toán tiền mặt tại quầy. Quầy thu đúng
// GrandTotal nên amount lấy từ chính đơn, vẫn đi qua đường đối soát
// chung để hưởng mọi kiểm tra idempotency.
func CashPayment(c *fiber.Ctx) error {
	bookingId := c.Params("bookingId")

	booking, err := helper.FindBookingByRef(bookingId)
	if err != nil {
		if errors.Is(err, helper.ErrBookingNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	confirmed, err := helper.ConfirmPayment(helper.PaymentConfirmation{
		BookingRef: booking.BookingID,
		Outcome:    model.BookingPaid,
		Amount:     utils.Ptr(booking.GrandTotal),
		Method:     constants.PAYMENT_METHOD_CASH,
		Details:    `{"source":"counter"}`,
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if confirmed.Status != model.BookingPaid {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_NOT_PENDING, nil)
	}

	notifyBookingPaid(confirmed)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"bookingId": confirmed.BookingID,
		"status":    confirmed.Status,
		"paidAt":    confirmed.PaidAt,
	})
}
