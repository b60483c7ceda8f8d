package helper

import (
	"errors"
	"fmt"
	"log"
	"time"

	"cinema_booking/database"
	"cinema_booking/model"

	"gorm.io/gorm"
)

// PaymentConfirmation là kết quả đã verify từ một cổng thanh toán.
// Đơn luôn được tra theo mã tham chiếu đã lưu (BookingRef hoặc
// PayOSOrderCode), không bao giờ tra theo số tiền.
type PaymentConfirmation struct {
	BookingRef     string
	PayOSOrderCode *int64
	Outcome        string // PAID, FAILED, CANCELLED, EXPIRED
	Amount         *float64
	Method         string
	Details        string
}

// ConfirmPayment đối soát một thông báo thanh toán, an toàn khi gọi lại
// nhiều lần và khi chạy đua với sweeper:
//   - đơn đã ở trạng thái cuối: không làm gì, không lỗi (riêng PAID+PAID
//     thì vá hóa đơn nếu lần trước crash giữa chừng)
//   - PAID: kiểm tra số tiền, đổi trạng thái có điều kiện, tạo đúng một
//     hóa đơn trong cùng transaction
//   - FAILED/CANCELLED (EXPIRED tính là CANCELLED): đổi trạng thái có
//     điều kiện rồi trả ghế theo booking id
func ConfirmPayment(conf PaymentConfirmation) (*model.Booking, error) {
	db := database.DB

	booking, err := resolveBooking(conf)
	if err != nil {
		return nil, err
	}

	outcome := conf.Outcome
	if outcome == "EXPIRED" {
		outcome = model.BookingCancelled
	}

	if booking.IsTerminal() {
		if booking.Status == model.BookingPaid && outcome == model.BookingPaid {
			// vá hóa đơn nếu lần đối soát trước chết giữa flip và tạo hóa đơn
			err := db.Transaction(func(tx *gorm.DB) error {
				return ensureInvoice(tx, booking, conf.Method, conf.Details)
			})
			if err != nil {
				return booking, err
			}
		}
		return booking, nil
	}

	switch outcome {
	case model.BookingPaid:
		return confirmPaid(db, booking, conf)
	case model.BookingFailed, model.BookingCancelled:
		return confirmTerminated(db, booking, outcome, conf.Details)
	default:
		return booking, fmt.Errorf("unknown payment outcome %q", conf.Outcome)
	}
}

func resolveBooking(conf PaymentConfirmation) (*model.Booking, error) {
	if conf.BookingRef != "" {
		return FindBookingByRef(conf.BookingRef)
	}
	if conf.PayOSOrderCode != nil {
		var booking model.Booking
		err := database.DB.Preload("Seats").
			Where("payos_order_code = ?", *conf.PayOSOrderCode).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, err
		}
		return &booking, nil
	}
	return nil, ErrBookingNotFound
}

func confirmPaid(db *gorm.DB, booking *model.Booking, conf PaymentConfirmation) (*model.Booking, error) {
	// Tiền lệch là dấu hiệu callback bị sửa, đơn giữ nguyên PENDING
	// và sẽ hết hạn theo sweeper nếu không có xác nhận hợp lệ nào khác
	if conf.Amount == nil || *conf.Amount != booking.GrandTotal {
		return booking, ErrAmountMismatch
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":          model.BookingPaid,
			"paid_at":         &now,
			"payment_details": conf.Details,
		}
		if conf.Method != "" {
			updates["payment_method"] = conf.Method
		}
		res := tx.Model(&model.Booking{}).
			Where("booking_id = ? AND status = ?", booking.BookingID, model.BookingPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// thua cuộc đua với sweeper hoặc webhook khác
			var current model.Booking
			if err := tx.Where("booking_id = ?", booking.BookingID).First(&current).Error; err != nil {
				return err
			}
			if current.Status == model.BookingPaid {
				return ensureInvoice(tx, &current, conf.Method, conf.Details)
			}
			log.Printf("Booking %s đã %s trước khi xác nhận PAID, bỏ qua", booking.BookingID, current.Status)
			return nil
		}
		return ensureInvoice(tx, booking, conf.Method, conf.Details)
	})
	if err != nil {
		return booking, err
	}
	return FindBookingByRef(booking.BookingID)
}

func confirmTerminated(db *gorm.DB, booking *model.Booking, status, details string) (*model.Booking, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Booking{}).
			Where("booking_id = ? AND status = ?", booking.BookingID, model.BookingPending).
			Updates(map[string]any{"status": status, "payment_details": details})
		if res.Error != nil {
			return res.Error
		}
		var current model.Booking
		if err := tx.Where("booking_id = ?", booking.BookingID).First(&current).Error; err != nil {
			return err
		}
		if current.Status == model.BookingPaid {
			// đơn đã thanh toán xong trước đó, tuyệt đối không trả ghế
			return nil
		}
		_, err := ReleaseSeats(tx, booking.BookingID)
		return err
	})
	if err != nil {
		return booking, err
	}
	return FindBookingByRef(booking.BookingID)
}

// ensureInvoice tạo hóa đơn nếu chưa có. Unique index trên booking_ref
// chặn bản thứ hai khi hai webhook cùng thắng tới đây.
func ensureInvoice(tx *gorm.DB, booking *model.Booking, method, details string) error {
	var existing model.Invoice
	err := tx.Where("booking_ref = ?", booking.BookingID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	seq, err := NextSequence(tx, "invoice")
	if err != nil {
		return err
	}
	if method == "" {
		method = booking.PaymentMethod
	}
	invoice := model.Invoice{
		InvoiceCode:   fmt.Sprintf("INV-%06d", seq),
		BookingRef:    booking.BookingID,
		Amount:        booking.GrandTotal,
		PaymentMethod: method,
		Details:       details,
		IssuedAt:      time.Now(),
	}
	if err := tx.Create(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

// ReleaseSeats trả toàn bộ ghế của một booking, khóa theo booking id chứ
// không theo trạng thái nên gọi lại lần nữa vẫn vô hại
func ReleaseSeats(tx *gorm.DB, bookingRef string) ([]model.OccupiedSeat, error) {
	var rows []model.OccupiedSeat
	if err := tx.Where("booking_ref = ?", bookingRef).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := tx.Where("booking_ref = ?", bookingRef).Delete(&model.OccupiedSeat{}).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
