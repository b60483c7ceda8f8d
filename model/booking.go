package model

import "time"

const (
	BookingPending   = "PENDING_PAYMENT"
	BookingPaid      = "PAID"
	BookingCancelled = "CANCELLED"
	BookingFailed    = "FAILED"
)

// Booking là sổ cái đặt vé. BookingID là mã công khai (UUID),
// tách biệt với khóa chính trong DB. Trạng thái chỉ đi một chiều:
// PENDING_PAYMENT -> PAID | CANCELLED | FAILED.
type Booking struct {
	DTO
	BookingID  string    `gorm:"uniqueIndex;size:36" json:"bookingId"`
	CustomerID *uint     `json:"customerId,omitempty"` // null nếu khách vãng lai
	Customer   *Customer `json:"customer,omitempty"`

	MovieID  uint      `json:"movieId"`
	Movie    Movie     `json:"movie"`
	RoomID   uint      `json:"roomId"`
	Room     Room      `json:"room"`
	Showtime time.Time `json:"showtime"`

	Status    string    `gorm:"size:20;index:idx_booking_sweep,priority:1" json:"status"`
	ExpiresAt time.Time `gorm:"index:idx_booking_sweep,priority:2" json:"expiresAt"`

	TotalSeatPrice  float64 `json:"totalSeatPrice"`
	TotalComboPrice float64 `json:"totalComboPrice"`
	GrandTotal      float64 `json:"grandTotal"`

	PaymentMethod  string     `gorm:"size:20" json:"paymentMethod"`
	PaymentDetails string     `gorm:"type:text" json:"-"` // blob thô từ cổng thanh toán
	PayOSOrderCode *int64     `gorm:"column:payos_order_code;index" json:"-"`
	PaidAt         *time.Time `json:"paidAt,omitempty"`

	// Snapshot người mua tại thời điểm đặt vé
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`

	Seats  []BookingSeat  `gorm:"foreignKey:BookingId" json:"seats"`
	Combos []BookingCombo `gorm:"foreignKey:BookingId" json:"combos"`
}

// BookingSeat lưu giá ghế đã chốt lúc đặt, không đổi theo catalog
type BookingSeat struct {
	DTO
	BookingId uint    `gorm:"not null;index" json:"bookingId"`
	SeatLabel string  `gorm:"size:10" json:"seatLabel"`
	SeatType  string  `gorm:"size:10" json:"seatType"`
	Price     float64 `json:"price"`
}

type BookingCombo struct {
	DTO
	BookingId uint    `gorm:"not null;index" json:"bookingId"`
	ComboID   uint    `json:"comboId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

func (b *Booking) IsTerminal() bool {
	return b.Status != BookingPending
}

type ComboSelection struct {
	ComboId  uint `json:"comboId" validate:"required,gt=0"`
	Quantity int  `json:"quantity" validate:"required,gt=0"`
}

type CreateBookingInput struct {
	MovieID       uint             `json:"movieId" validate:"required,gt=0"`
	RoomID        uint             `json:"roomId" validate:"required,gt=0"`
	Showtime      time.Time        `json:"showtime" validate:"required"`
	SeatLabels    []string         `json:"seatLabels" validate:"required,min=1,dive,required"`
	Combos        []ComboSelection `json:"combos" validate:"omitempty,dive"`
	PaymentMethod string           `json:"paymentMethod" validate:"required,oneof=VNPAY PAYOS CASH"`
	// Khách vãng lai bắt buộc điền, khách đăng nhập có thể bỏ trống
	// và lấy snapshot từ hồ sơ
	CustomerName string `json:"customerName" validate:"omitempty"`
	Phone        string `json:"phone" validate:"omitempty"`
	Email        string `json:"email" validate:"omitempty,email"`
}

type FilterBooking struct {
	Pagination
	Status    string     `json:"status"`
	SearchKey string     `json:"searchKey"`
	From      *time.Time `json:"from"`
	To        *time.Time `json:"to"`
}
