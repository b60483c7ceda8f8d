package model

type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	BaseURL    string
	ReturnURL  string
	IPNURL     string
}

type PaymentRequest struct {
	Amount    int64  `json:"amount"`
	OrderInfo string `json:"orderInfo"`
	TxnRef    string `json:"txnRef"`
	IPAddr    string `json:"ipAddr"`
}

type PaymentResponse struct {
	IsSuccess  bool   `json:"isSuccess"`
	TxnRef     string `json:"txnRef"`
	Amount     int64  `json:"amount"`
	Outcome    string `json:"outcome"` // PAID, CANCELLED, FAILED
	Message    string `json:"message"`
	RawDetails string `json:"-"` // query string gốc, lưu làm paymentDetails
}

type CreatePaymentInput struct {
	BookingId string `json:"bookingId" validate:"required,uuid4"`
	Method    string `json:"method" validate:"required,oneof=VNPAY PAYOS"`
}
