package helper

import (
	"fmt"

	"cinema_booking/database"
	"cinema_booking/model"
)

// ResolveSeatPrices chốt giá từng ghế theo sơ đồ phòng tại thời điểm đặt.
// Ghế không có trong sơ đồ trả về ErrSeatUnknown.
func ResolveSeatPrices(room *model.Room, labels []string) ([]model.BookingSeat, float64, error) {
	byLabel := make(map[string]model.RoomSeat, len(room.Seats))
	for _, s := range room.Seats {
		byLabel[s.Label] = s
	}

	seats := make([]model.BookingSeat, 0, len(labels))
	var total float64
	for _, label := range labels {
		rs, ok := byLabel[label]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrSeatUnknown, label)
		}
		seats = append(seats, model.BookingSeat{
			SeatLabel: rs.Label,
			SeatType:  rs.Type,
			Price:     rs.Price,
		})
		total += rs.Price
	}
	return seats, total, nil
}

// ResolveCombos chốt giá combo theo catalog hiện tại
func ResolveCombos(selections []model.ComboSelection) ([]model.BookingCombo, float64, error) {
	if len(selections) == 0 {
		return nil, 0, nil
	}

	db := database.DB
	combos := make([]model.BookingCombo, 0, len(selections))
	var total float64
	for _, sel := range selections {
		var combo model.Combo
		if err := db.Where("id = ? AND is_active = ?", sel.ComboId, true).First(&combo).Error; err != nil {
			return nil, 0, fmt.Errorf("combo %d không tồn tại hoặc đã ngừng bán", sel.ComboId)
		}
		subtotal := combo.Price * float64(sel.Quantity)
		combos = append(combos, model.BookingCombo{
			ComboID:   combo.ID,
			Name:      combo.Name,
			Quantity:  sel.Quantity,
			UnitPrice: combo.Price,
			Subtotal:  subtotal,
		})
		total += subtotal
	}
	return combos, total, nil
}
