package model

const (
	SeatNormal = "NORMAL"
	SeatVIP    = "VIP"
)

type Room struct {
	DTO
	Code     string     `gorm:"uniqueIndex;size:10" json:"code"` // ROOM0001...
	Name     string     `json:"name"`
	IsActive bool       `gorm:"default:true" json:"isActive"`
	Seats    []RoomSeat `gorm:"foreignKey:RoomID" json:"seats"`
}

// RoomSeat là sơ đồ ghế kèm giá theo loại, nguồn để chốt giá khi đặt
type RoomSeat struct {
	DTO
	RoomID uint    `gorm:"uniqueIndex:idx_room_seat_label" json:"roomId"`
	Label  string  `gorm:"size:10;uniqueIndex:idx_room_seat_label" json:"label"`
	Type   string  `gorm:"size:10;default:NORMAL" json:"type"`
	Price  float64 `json:"price"`
}
