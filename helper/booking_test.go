package helper

import (
	"errors"
	"sync"
	"testing"
	"time"

	"cinema_booking/model"
)

func TestCreateBookingSnapshotsPricing(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)

	input := bookingInput(fx, "A1", "B1")
	input.Combos = []model.ComboSelection{{ComboId: fx.Combo.ID, Quantity: 2}}

	booking, err := CreateBooking(input, nil)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if booking.Status != model.BookingPending {
		t.Errorf("status = %s, want %s", booking.Status, model.BookingPending)
	}
	if booking.BookingID == "" {
		t.Error("booking id is empty")
	}
	if got, want := booking.TotalSeatPrice, 75000.0+95000.0; got != want {
		t.Errorf("seat total = %v, want %v", got, want)
	}
	if got, want := booking.TotalComboPrice, 2*85000.0; got != want {
		t.Errorf("combo total = %v, want %v", got, want)
	}
	if got, want := booking.GrandTotal, booking.TotalSeatPrice+booking.TotalComboPrice; got != want {
		t.Errorf("grand total = %v, want %v", got, want)
	}

	window := time.Until(booking.ExpiresAt)
	if window < 19*time.Minute || window > 21*time.Minute {
		t.Errorf("expiry window = %v, want ~%v", window, HoldWindow)
	}

	if n := countOccupied(t, db, fx); n != 2 {
		t.Errorf("occupied seats = %d, want 2", n)
	}
}

func TestCreateBookingConflictIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)

	mustCreateBooking(t, fx, "A1", "A2")

	_, err := CreateBooking(bookingInput(fx, "A2", "A3"), nil)
	if err == nil {
		t.Fatal("expected seat conflict")
	}
	if !errors.Is(err, ErrSeatConflict) {
		t.Fatalf("err = %v, want ErrSeatConflict", err)
	}

	var conflict *SeatConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err is not *SeatConflictError: %v", err)
	}
	if len(conflict.Seats) != 1 || conflict.Seats[0] != "A2" {
		t.Errorf("conflict seats = %v, want [A2]", conflict.Seats)
	}

	// đơn thua không được để lại dòng ghế nào, kể cả ghế còn trống
	var leak int64
	db.Model(&model.OccupiedSeat{}).
		Where("room_id = ? AND showtime = ? AND seat_label = ?", fx.Room.ID, fx.Showtime, "A3").
		Count(&leak)
	if leak != 0 {
		t.Errorf("seat A3 was claimed by the losing booking")
	}
}

func TestCreateBookingSameSeatOtherShowtime(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)
	_ = db

	mustCreateBooking(t, fx, "A1")

	other := fx
	other.Showtime = fx.Showtime.Add(3 * time.Hour)
	if _, err := CreateBooking(bookingInput(other, "A1"), nil); err != nil {
		t.Fatalf("same seat in different showtime should be free: %v", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)
	_ = db

	if _, err := CreateBooking(bookingInput(fx, "A1", "a1"), nil); !errors.Is(err, ErrDuplicateSeat) {
		t.Errorf("duplicate label: err = %v, want ErrDuplicateSeat", err)
	}

	if _, err := CreateBooking(bookingInput(fx, "Z9"), nil); !errors.Is(err, ErrSeatUnknown) {
		t.Errorf("unknown seat: err = %v, want ErrSeatUnknown", err)
	}

	badRoom := bookingInput(fx, "A1")
	badRoom.RoomID = 9999
	if _, err := CreateBooking(badRoom, nil); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("bad room: err = %v, want ErrRoomNotFound", err)
	}

	badCombo := bookingInput(fx, "A1")
	badCombo.Combos = []model.ComboSelection{{ComboId: 9999, Quantity: 1}}
	if _, err := CreateBooking(badCombo, nil); err == nil {
		t.Error("unknown combo should be rejected")
	}
}

func TestConcurrentClaimsSingleWinner(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = CreateBooking(bookingInput(fx, "B3", "B4"), nil)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if !errors.Is(err, ErrSeatConflict) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
	if n := countOccupied(t, db, fx); n != 2 {
		t.Errorf("occupied seats = %d, want 2", n)
	}
}

func TestListOccupiedSeats(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)
	_ = db

	mustCreateBooking(t, fx, "A2", "A1")

	labels, err := ListOccupiedSeats(fx.Room.ID, fx.Showtime)
	if err != nil {
		t.Fatalf("list occupied: %v", err)
	}
	if len(labels) != 2 || labels[0] != "A1" || labels[1] != "A2" {
		t.Errorf("labels = %v, want [A1 A2]", labels)
	}
}
