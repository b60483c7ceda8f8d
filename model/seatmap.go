package model

import "time"

// OccupiedSeat: một dòng cho mỗi ghế đã bị giữ trong một suất chiếu.
// Unique index (room_id, showtime, seat_label) là chốt chặn cuối cùng
// chống đặt trùng ghế: hai booking tranh nhau thì chỉ một insert thành công.
type OccupiedSeat struct {
	DTO
	RoomID     uint      `gorm:"uniqueIndex:idx_room_show_seat" json:"roomId"`
	Showtime   time.Time `gorm:"uniqueIndex:idx_room_show_seat" json:"showtime"`
	SeatLabel  string    `gorm:"size:10;uniqueIndex:idx_room_show_seat" json:"seatLabel"`
	BookingRef string    `gorm:"size:36;index" json:"bookingRef"` // BookingID sở hữu ghế
}
