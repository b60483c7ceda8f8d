package helper

import (
	"errors"
	"strings"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingNotPending = errors.New("booking is not pending payment")
	ErrAmountMismatch    = errors.New("payment amount does not match booking total")
	ErrRoomNotFound      = errors.New("room not found")
	ErrSeatUnknown       = errors.New("seat does not exist in room")
	ErrDuplicateSeat     = errors.New("duplicate seat label in request")
	ErrSeatConflict      = errors.New("seat already occupied")
)

// SeatConflictError liệt kê các ghế bị tranh để FE highlight trên sơ đồ
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return "seats already occupied: " + strings.Join(e.Seats, ", ")
}

func (e *SeatConflictError) Unwrap() error {
	return ErrSeatConflict
}
