package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func payOSConfig() model.PayOSConfig {
	base := os.Getenv("PAYOS_URL")
	if base == "" {
		base = "https://api-merchant.payos.vn"
	}
	return model.PayOSConfig{
		ClientID:    os.Getenv("PAYOS_CLIENT_ID"),
		APIKey:      os.Getenv("PAYOS_API_KEY"),
		ChecksumKey: os.Getenv("PAYOS_CHECKSUM_KEY"),
		BaseURL:     base,
		ReturnURL:   os.Getenv("FE_URL") + "/payment-result",
		CancelURL:   os.Getenv("FE_URL") + "/payment-cancel",
	}
}

// CreatePayOSLink tạo link PayOS cho đơn. orderCode numeric lấy từ counter
// và được ghi vào booking trước khi gọi cổng: webhook sau này tra đơn
// bằng chính mã này.
func CreatePayOSLink(booking *model.Booking) (*model.PayOSLinkResponse, error) {
	cfg := payOSConfig()
	db := database.DB

	orderCode := booking.PayOSOrderCode
	if orderCode == nil {
		err := db.Transaction(func(tx *gorm.DB) error {
			seq, err := helper.NextSequence(tx, "payos_order")
			if err != nil {
				return err
			}
			res := tx.Model(&model.Booking{}).
				Where("booking_id = ? AND payos_order_code IS NULL", booking.BookingID).
				Update("payos_order_code", seq)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				orderCode = &seq
				return nil
			}
			// request song song đã gán mã trước, dùng lại mã đó
			var current model.Booking
			if err := tx.Where("booking_id = ?", booking.BookingID).First(&current).Error; err != nil {
				return err
			}
			orderCode = current.PayOSOrderCode
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	amount := int64(booking.GrandTotal)
	description := fmt.Sprintf("Dat ve %s", booking.BookingID[:8])
	signData := fmt.Sprintf("amount=%d&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		amount, cfg.CancelURL, description, *orderCode, cfg.ReturnURL)

	req := model.PayOSLinkRequest{
		OrderCode:   *orderCode,
		Amount:      amount,
		Description: description,
		ReturnUrl:   cfg.ReturnURL,
		CancelUrl:   cfg.CancelURL,
		Signature:   signPayOS(signData, cfg.ChecksumKey),
	}

	agent := fiber.Post(cfg.BaseURL + "/v2/payment-requests")
	agent.Set("x-client-id", cfg.ClientID)
	agent.Set("x-api-key", cfg.APIKey)
	agent.JSON(req)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, errs[0]
	}
	if status != fiber.StatusOK {
		return nil, fmt.Errorf("payos create link: http %d", status)
	}

	var resp model.PayOSLinkResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "00" {
		return nil, fmt.Errorf("payos create link: %s %s", resp.Code, resp.Desc)
	}
	return &resp, nil
}

// PayOSWebhook nhận thông báo thanh toán. Đơn được tra theo orderCode đã
// lưu; số tiền chỉ dùng để đối chiếu chống sửa callback.
func PayOSWebhook(c *fiber.Ctx) error {
	var payload model.PayOSWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Payload không hợp lệ", err)
	}

	if !verifyPayOSSignature(c.Body(), payload.Signature) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Chữ ký không hợp lệ", nil)
	}

	outcome := model.BookingFailed
	if payload.Success && payload.Data.Code == "00" {
		outcome = model.BookingPaid
	}

	details, _ := json.Marshal(payload.Data)
	conf := helper.PaymentConfirmation{
		PayOSOrderCode: &payload.Data.OrderCode,
		Outcome:        outcome,
		Method:         constants.PAYMENT_METHOD_PAYOS,
		Details:        string(details),
	}
	if payload.Data.Amount > 0 {
		conf.Amount = utils.Ptr(float64(payload.Data.Amount))
	}

	booking, err := helper.ConfirmPayment(conf)
	switch {
	case errors.Is(err, helper.ErrBookingNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	case errors.Is(err, helper.ErrAmountMismatch):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.AMOUNT_MISMATCH, err)
	case err != nil:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if booking.Status == model.BookingPaid {
		full, err := helper.FindBookingByRef(booking.BookingID)
		if err == nil {
			notifyBookingPaid(full)
		}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"received": true})
}

func signPayOS(data, key string) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// verifyPayOSSignature ký lại phần data theo thứ tự alphabet của key
func verifyPayOSSignature(body []byte, signature string) bool {
	var raw struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil || raw.Data == nil {
		return false
	}

	keys := make([]string, 0, len(raw.Data))
	for k := range raw.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString("&")
		}
		sb.WriteString(k)
		sb.WriteString("=")
		switch v := raw.Data[k].(type) {
		case float64:
			sb.WriteString(trimFloat(v))
		case nil:
			// giữ value rỗng
		default:
			sb.WriteString(fmt.Sprint(v))
		}
	}

	expected := signPayOS(sb.String(), payOSConfig().ChecksumKey)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	if v != float64(int64(v)) {
		s = fmt.Sprint(v)
	}
	return s
}
