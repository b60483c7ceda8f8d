package helper

import (
	"errors"
	"testing"
	"time"

	"cinema_booking/model"
	"cinema_booking/utils"
)

func paidConfirmation(booking *model.Booking) PaymentConfirmation {
	return PaymentConfirmation{
		BookingRef: booking.BookingID,
		Outcome:    model.BookingPaid,
		Amount:     utils.Ptr(booking.GrandTotal),
		Method:     "VNPAY",
		Details:    "vnp_ResponseCode=00",
	}
}

func TestConfirmPaymentPaid(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)

	booking := mustCreateBooking(t, fx, "A1", "A2")

	updated, err := ConfirmPayment(paidConfirmation(booking))
	if err != nil {
		t.Fatalf("confirm payment: %v", err)
	}
	if updated.Status != model.BookingPaid {
		t.Errorf("status = %s, want %s", updated.Status, model.BookingPaid)
	}
	if updated.PaidAt == nil {
		t.Error("paid_at is nil")
	}

	// ghế đã bán phải giữ nguyên, không được trả
	if n := countOccupied(t, db, fx); n != 2 {
		t.Errorf("occupied seats = %d, want 2", n)
	}

	var invoice model.Invoice
	if err := db.Where("booking_ref = ?", booking.BookingID).First(&invoice).Error; err != nil {
		t.Fatalf("invoice not created: %v", err)
	}
	if invoice.InvoiceCode != "INV-000001" {
		t.Errorf("invoice code = %s, want INV-000001", invoice.InvoiceCode)
	}
	if invoice.Amount != booking.GrandTotal {
		t.Errorf("invoice amount = %v, want %v", invoice.Amount, booking.GrandTotal)
	}
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)

	booking := mustCreateBooking(t, fx, "A1")
	conf := paidConfirmation(booking)

	if _, err := ConfirmPayment(conf); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	again, err := ConfirmPayment(conf)
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if again.Status != model.BookingPaid {
		t.Errorf("status = %s, want %s", again.Status, model.BookingPaid)
	}
	if n := countInvoices(t, db, booking.BookingID); n != 1 {
		t.Errorf("invoices = %d, want exactly 1", n)
	}
}

func TestConfirmPaymentAmountMismatch(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)

	booking := mustCreateBooking(t, fx, "A1")

	conf := paidConfirmation(booking)
	conf.Amount = utils.Ptr(booking.GrandTotal - 1000)
	if _, err := ConfirmPayment(conf); !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("err = %v, want ErrAmountMismatch", err)
	}

	conf.Amount = nil
	if _, err := ConfirmPayment(conf); !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("nil amount: err = %v, want ErrAmountMismatch", err)
	}

	current, err := FindBookingByRef(booking.BookingID)
	if err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if current.Status != model.BookingPending {
		t.Errorf("status = %s, mismatch must not change state", current.Status)
	}
	if n := countInvoices(t, db, booking.BookingID); n != 0 {
		t.Errorf("invoices = %d, want 0", n)
	}
}

func TestConfirmPaymentUnknownBooking(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	_, err := ConfirmPayment(PaymentConfirmation{
		BookingRef: "khong-ton-tai",
		Outcome:    model.BookingPaid,
		Amount:     utils.Ptr(100000.0),
	})
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("err = %v, want ErrBookingNotFound", err)
	}

	_, err = ConfirmPayment(PaymentConfirmation{Outcome: model.BookingPaid})
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("no reference: err = %v, want ErrBookingNotFound", err)
	}
}

func TestConfirmPaymentFailedReleasesSeats(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)

	booking := mustCreateBooking(t, fx, "A1", "A2")

	updated, err := ConfirmPayment(PaymentConfirmation{
		BookingRef: booking.BookingID,
		Outcome:    model.BookingFailed,
		Details:    "vnp_ResponseCode=51",
	})
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if updated.Status != model.BookingFailed {
		t.Errorf("status = %s, want %s", updated.Status, model.BookingFailed)
	}
	if n := countOccupied(t, db, fx); n != 0 {
		t.Errorf("occupied seats = %d, want 0", n)
	}
	if n := countInvoices(t, db, booking.BookingID); n != 0 {
		t.Errorf("invoices = %d, want 0", n)
	}

	// ghế vừa trả phải đặt lại được ngay
	mustCreateBooking(t, fx, "A1", "A2")
}

func TestConfirmPaymentExpiredOutcomeCancels(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)
	_ = db

	booking := mustCreateBooking(t, fx, "B1")

	updated, err := ConfirmPayment(PaymentConfirmation{
		BookingRef: booking.BookingID,
		Outcome:    "EXPIRED",
	})
	if err != nil {
		t.Fatalf("confirm expired: %v", err)
	}
	if updated.Status != model.BookingCancelled {
		t.Errorf("status = %s, want %s", updated.Status, model.BookingCancelled)
	}
}

func TestConfirmPaymentAfterSweepStaysCancelled(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)

	booking := mustCreateBooking(t, fx, "A1")
	db.Model(&model.Booking{}).
		Where("booking_id = ?", booking.BookingID).
		Update("expires_at", time.Now().Add(-time.Minute))

	if _, err := ExpireBookings(time.Now()); err != nil {
		t.Fatalf("expire: %v", err)
	}

	// webhook đến muộn sau khi đơn đã hủy
	updated, err := ConfirmPayment(paidConfirmation(booking))
	if err != nil {
		t.Fatalf("late confirm: %v", err)
	}
	if updated.Status != model.BookingCancelled {
		t.Errorf("status = %s, want %s", updated.Status, model.BookingCancelled)
	}
	if n := countInvoices(t, db, booking.BookingID); n != 0 {
		t.Errorf("invoices = %d, want 0", n)
	}
}

func TestConfirmPaymentRepairsMissingInvoice(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)

	booking := mustCreateBooking(t, fx, "A1")

	// giả lập crash giữa flip trạng thái và tạo hóa đơn
	db.Model(&model.Booking{}).
		Where("booking_id = ?", booking.BookingID).
		Update("status", model.BookingPaid)

	if _, err := ConfirmPayment(paidConfirmation(booking)); err != nil {
		t.Fatalf("repair confirm: %v", err)
	}
	if n := countInvoices(t, db, booking.BookingID); n != 1 {
		t.Errorf("invoices = %d, want 1", n)
	}
}

func TestConfirmPaymentByPayOSOrderCode(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)

	booking := mustCreateBooking(t, fx, "A1")
	code := int64(42)
	db.Model(&model.Booking{}).
		Where("booking_id = ?", booking.BookingID).
		Update("payos_order_code", code)

	updated, err := ConfirmPayment(PaymentConfirmation{
		PayOSOrderCode: &code,
		Outcome:        model.BookingPaid,
		Amount:         utils.Ptr(booking.GrandTotal),
		Method:         "PAYOS",
	})
	if err != nil {
		t.Fatalf("confirm by order code: %v", err)
	}
	if updated.BookingID != booking.BookingID {
		t.Errorf("resolved booking %s, want %s", updated.BookingID, booking.BookingID)
	}
	if updated.Status != model.BookingPaid {
		t.Errorf("status = %s, want %s", updated.Status, model.BookingPaid)
	}
}

func TestInvoiceCodesAreSequential(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)

	first := mustCreateBooking(t, fx, "A1")
	second := mustCreateBooking(t, fx, "A2")

	if _, err := ConfirmPayment(paidConfirmation(first)); err != nil {
		t.Fatalf("confirm first: %v", err)
	}
	if _, err := ConfirmPayment(paidConfirmation(second)); err != nil {
		t.Fatalf("confirm second: %v", err)
	}

	var codes []string
	if err := db.Model(&model.Invoice{}).Order("id").Pluck("invoice_code", &codes).Error; err != nil {
		t.Fatalf("load invoice codes: %v", err)
	}
	if len(codes) != 2 || codes[0] != "INV-000001" || codes[1] != "INV-000002" {
		t.Errorf("codes = %v, want [INV-000001 INV-000002]", codes)
	}
}
