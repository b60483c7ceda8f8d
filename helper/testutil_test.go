package helper

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"cinema_booking/database"
	"cinema_booking/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB mở một SQLite tạm cho mỗi test. TranslateError bật để
// vi phạm unique index trả về gorm.ErrDuplicatedKey giống Postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	database.DB = db
	return db
}

type fixtures struct {
	Movie    model.Movie
	Room     model.Room
	Combo    model.Combo
	Showtime time.Time
}

func seedCatalog(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()

	movie := model.Movie{Title: "Mắt Biếc", Slug: "mat-biec", Duration: 117, Status: "NOW_SHOWING"}
	if err := db.Create(&movie).Error; err != nil {
		t.Fatalf("seed movie: %v", err)
	}

	room := model.Room{Code: "ROOM0001", Name: "Phòng 1", IsActive: true}
	for _, row := range []string{"A", "B"} {
		for col := 1; col <= 5; col++ {
			seatType := model.SeatNormal
			price := 75000.0
			if row == "B" {
				seatType = model.SeatVIP
				price = 95000.0
			}
			room.Seats = append(room.Seats, model.RoomSeat{
				Label: fmt.Sprintf("%s%d", row, col),
				Type:  seatType,
				Price: price,
			})
		}
	}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}

	combo := model.Combo{Name: "Combo bắp nước", Price: 85000, IsActive: true}
	if err := db.Create(&combo).Error; err != nil {
		t.Fatalf("seed combo: %v", err)
	}

	return fixtures{
		Movie:    movie,
		Room:     room,
		Combo:    combo,
		Showtime: time.Date(2026, 9, 1, 19, 30, 0, 0, time.UTC),
	}
}

func bookingInput(fx fixtures, seats ...string) model.CreateBookingInput {
	return model.CreateBookingInput{
		MovieID:       fx.Movie.ID,
		RoomID:        fx.Room.ID,
		Showtime:      fx.Showtime,
		SeatLabels:    seats,
		PaymentMethod: "VNPAY",
		CustomerName:  "Nguyễn Văn A",
		Phone:         "0900000001",
		Email:         "a@example.com",
	}
}

func mustCreateBooking(t *testing.T, fx fixtures, seats ...string) *model.Booking {
	t.Helper()
	booking, err := CreateBooking(bookingInput(fx, seats...), nil)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return booking
}

func countOccupied(t *testing.T, db *gorm.DB, fx fixtures) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.OccupiedSeat{}).
		Where("room_id = ? AND showtime = ?", fx.Room.ID, fx.Showtime).
		Count(&n).Error; err != nil {
		t.Fatalf("count occupied: %v", err)
	}
	return n
}

func countInvoices(t *testing.T, db *gorm.DB, bookingRef string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.Invoice{}).
		Where("booking_ref = ?", bookingRef).
		Count(&n).Error; err != nil {
		t.Fatalf("count invoices: %v", err)
	}
	return n
}
