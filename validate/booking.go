package validate

import (
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateBooking parse + validate input đặt vé ở biên, handler phía sau
// nhận input sạch từ Locals
func CreateBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateBookingInput

		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ", err)
		}

		if err := validate.Struct(input); err != nil {
			return utils.ValidationErrorResponse(c, "Dữ liệu đặt vé không hợp lệ", fieldErrors(err))
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func RegisterCustomer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.RegisterCustomerInput

		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ", err)
		}

		if err := validate.Struct(input); err != nil {
			return utils.ValidationErrorResponse(c, "Dữ liệu đăng ký không hợp lệ", fieldErrors(err))
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func CreatePayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreatePaymentInput

		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ", err)
		}

		if err := validate.Struct(input); err != nil {
			return utils.ValidationErrorResponse(c, "Dữ liệu thanh toán không hợp lệ", fieldErrors(err))
		}

		c.Locals("input", input)
		return c.Next()
	}
}
