package handler

import (
	"cinema_booking/model"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"os"
	"strconv"
	"time"
)

// VNPay Service
type VNPay struct {
	Config model.VNPayConfig
}

func NewVNPay() *VNPay {
	return &VNPay{
		Config: model.VNPayConfig{
			TmnCode:    os.Getenv("VNP_TMNCODE"),
			HashSecret: os.Getenv("VNP_HASHSECRET"),
			BaseURL:    os.Getenv("VNP_URL"),
			ReturnURL:  os.Getenv("APP_URL") + "/vnpay/return",
			IPNURL:     os.Getenv("APP_URL") + "/vnpay/ipn",
		},
	}
}

// Tạo Payment URL, TxnRef là BookingID nên callback tra thẳng được đơn
func (v *VNPay) BuildPaymentUrl(req model.PaymentRequest) (string, error) {
	params := url.Values{}
	params.Add("vnp_Version", "2.1.0")
	params.Add("vnp_Command", "pay")
	params.Add("vnp_TmnCode", v.Config.TmnCode)
	params.Add("vnp_Amount", strconv.FormatInt(req.Amount*100, 10)) // VND * 100
	params.Add("vnp_CreateDate", time.Now().Format("20060102150405"))
	params.Add("vnp_CurrCode", "VND")
	params.Add("vnp_IpAddr", req.IPAddr)
	params.Add("vnp_Locale", "vn")
	params.Add("vnp_OrderInfo", url.QueryEscape(req.OrderInfo))
	params.Add("vnp_OrderType", "other")
	params.Add("vnp_ReturnUrl", v.Config.ReturnURL)
	params.Add("vnp_TxnRef", req.TxnRef)
	params.Add("vnp_ExpireDate", time.Now().Add(15*time.Minute).Format("20060102150405"))

	// Sort & Hash
	query := params.Encode()
	hash := v.generateHash(query)
	fullQuery := query + "&vnp_SecureHash=" + hash

	return v.Config.BaseURL + "?" + fullQuery, nil
}

// VerifyReturnUrl xác thực callback trình duyệt (Return URL)
func (v *VNPay) VerifyReturnUrl(query url.Values) model.PaymentResponse {
	return v.verify(query)
}

// VerifyIPN xác thực thông báo server-to-server
func (v *VNPay) VerifyIPN(query url.Values) model.PaymentResponse {
	return v.verify(query)
}

func (v *VNPay) verify(query url.Values) model.PaymentResponse {
	secureHash := query.Get("vnp_SecureHash")
	query.Del("vnp_SecureHash")
	query.Del("vnp_SecureHashType")

	expectedHash := v.generateHash(query.Encode())
	if secureHash != expectedHash {
		return model.PaymentResponse{IsSuccess: false, Message: "Invalid hash"}
	}

	txnRef := query.Get("vnp_TxnRef")
	amount, _ := strconv.ParseInt(query.Get("vnp_Amount"), 10, 64)

	resp := model.PaymentResponse{
		TxnRef:     txnRef,
		Amount:     amount / 100, // VNPay gửi VND * 100
		RawDetails: query.Encode(),
	}

	switch query.Get("vnp_ResponseCode") {
	case "00":
		resp.IsSuccess = true
		resp.Outcome = model.BookingPaid
	case "24": // khách bấm hủy trên cổng
		resp.Outcome = model.BookingCancelled
		resp.Message = "Payment cancelled"
	default:
		resp.Outcome = model.BookingFailed
		resp.Message = "Payment failed"
	}
	return resp
}

func (v *VNPay) generateHash(data string) string {
	h := hmac.New(sha512.New, []byte(v.Config.HashSecret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
