package model

type PayOSConfig struct {
	ClientID    string
	APIKey      string
	ChecksumKey string
	BaseURL     string
	ReturnURL   string
	CancelURL   string
}

type PayOSLinkRequest struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ReturnUrl   string `json:"returnUrl"`
	CancelUrl   string `json:"cancelUrl"`
	Signature   string `json:"signature"`
}

type PayOSLinkResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data struct {
		CheckoutUrl   string `json:"checkoutUrl"`
		OrderCode     int64  `json:"orderCode"`
		PaymentLinkId string `json:"paymentLinkId"`
	} `json:"data"`
}

type PayOSWebhookPayload struct {
	Code      string           `json:"code"`
	Desc      string           `json:"desc"`
	Success   bool             `json:"success"`
	Data      PayOSWebhookData `json:"data"`
	Signature string           `json:"signature"`
}

type PayOSWebhookData struct {
	OrderCode int64  `json:"orderCode"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
	Code      string `json:"code"` // 00 = thành công
	Desc      string `json:"desc"`
}
