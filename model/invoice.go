package model

import "time"

// Invoice chỉ ghi thêm, mỗi booking đã thanh toán có đúng một hóa đơn.
// Unique index trên booking_ref đảm bảo webhook bắn lại không tạo bản thứ hai.
type Invoice struct {
	DTO
	InvoiceCode   string    `gorm:"uniqueIndex;size:20" json:"invoiceCode"`
	BookingRef    string    `gorm:"uniqueIndex;size:36" json:"bookingRef"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `gorm:"size:20" json:"paymentMethod"`
	Details       string    `gorm:"type:text" json:"-"`
	IssuedAt      time.Time `json:"issuedAt"`
}
