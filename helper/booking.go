package helper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema_booking/database"
	"cinema_booking/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HoldWindow là thời gian chờ thanh toán trước khi đơn bị sweeper hủy
const HoldWindow = 20 * time.Minute

// CreateBooking là đường ghi duy nhất tạo đơn đặt vé. Giữ ghế theo kiểu
// được-tất-hoặc-không: insert toàn bộ dòng OccupiedSeat trong một
// transaction, unique index (room, showtime, seat) làm trọng tài khi hai
// đơn tranh cùng ghế. Đơn thua nhận SeatConflictError kèm danh sách ghế.
func CreateBooking(input model.CreateBookingInput, customerId *uint) (*model.Booking, error) {
	db := database.DB

	labels, err := normalizeSeatLabels(input.SeatLabels)
	if err != nil {
		return nil, err
	}

	var movie model.Movie
	if err := db.First(&movie, input.MovieID).Error; err != nil {
		return nil, fmt.Errorf("phim không tồn tại: %w", err)
	}

	var room model.Room
	if err := db.Preload("Seats").Where("id = ? AND is_active = ?", input.RoomID, true).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	seats, seatTotal, err := ResolveSeatPrices(&room, labels)
	if err != nil {
		return nil, err
	}
	combos, comboTotal, err := ResolveCombos(input.Combos)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := model.Booking{
		BookingID:       uuid.New().String(),
		CustomerID:      customerId,
		MovieID:         movie.ID,
		RoomID:          room.ID,
		Showtime:        input.Showtime,
		Status:          model.BookingPending,
		ExpiresAt:       now.Add(HoldWindow),
		TotalSeatPrice:  seatTotal,
		TotalComboPrice: comboTotal,
		GrandTotal:      seatTotal + comboTotal,
		PaymentMethod:   input.PaymentMethod,
		CustomerName:    input.CustomerName,
		Phone:           input.Phone,
		Email:           input.Email,
		Seats:           seats,
		Combos:          combos,
	}

	occupied := make([]model.OccupiedSeat, 0, len(labels))
	for _, label := range labels {
		occupied = append(occupied, model.OccupiedSeat{
			RoomID:     room.ID,
			Showtime:   input.Showtime,
			SeatLabel:  label,
			BookingRef: booking.BookingID,
		})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		if err := tx.Create(&occupied).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &SeatConflictError{Seats: occupiedAmong(room.ID, input.Showtime, labels)}
		}
		return nil, err
	}

	return &booking, nil
}

// ListOccupiedSeats trả nhãn ghế đã bị giữ của một suất chiếu, read-only
func ListOccupiedSeats(roomId uint, showtime time.Time) ([]string, error) {
	var rows []model.OccupiedSeat
	if err := database.DB.
		Where("room_id = ? AND showtime = ?", roomId, showtime).
		Order("seat_label").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(rows))
	for _, r := range rows {
		labels = append(labels, r.SeatLabel)
	}
	return labels, nil
}

// FindBookingByRef tra đơn theo mã công khai kèm ghế và combo
func FindBookingByRef(bookingRef string) (*model.Booking, error) {
	var booking model.Booking
	if err := database.DB.
		Preload("Seats").
		Preload("Combos").
		Preload("Movie").
		Preload("Room").
		Where("booking_id = ?", bookingRef).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func normalizeSeatLabels(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	labels := make([]string, 0, len(raw))
	for _, l := range raw {
		label := strings.ToUpper(strings.TrimSpace(l))
		if label == "" {
			return nil, fmt.Errorf("%w: nhãn ghế rỗng", ErrSeatUnknown)
		}
		if seen[label] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeat, label)
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels, nil
}

// occupiedAmong tra lại ghế nào trong yêu cầu đang bị giữ, chỉ để báo lỗi
func occupiedAmong(roomId uint, showtime time.Time, labels []string) []string {
	var rows []model.OccupiedSeat
	database.DB.
		Where("room_id = ? AND showtime = ? AND seat_label IN ?", roomId, showtime, labels).
		Find(&rows)
	taken := make([]string, 0, len(rows))
	for _, r := range rows {
		taken = append(taken, r.SeatLabel)
	}
	return taken
}
