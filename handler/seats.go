package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

var redisClient = redis.NewClient(&redis.Options{Addr: redisAddr()})

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

const (
	SeatAvailable = "AVAILABLE"
	SeatOccupied  = "OCCUPIED"
)

type SeatUI struct {
	Label  string  `json:"label"`
	Type   string  `json:"type"`
	Price  float64 `json:"price"`
	Status string  `json:"status"`
}

type seatEvent struct {
	Type      string    `json:"type"` // CLAIMED | RELEASED
	RoomID    uint      `json:"roomId"`
	Showtime  time.Time `json:"showtime"`
	SeatLabel []string  `json:"seats"`
}

func seatChannel(roomId uint, showtime time.Time) string {
	return fmt.Sprintf("seatmap:%d:%d", roomId, showtime.Unix())
}

// GetSeatMap trả sơ đồ ghế của một suất chiếu kèm trạng thái, read-only
func GetSeatMap(c *fiber.Ctx) error {
	roomId64, err := strconv.ParseUint(c.Params("roomId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, err)
	}
	showtime, err := time.Parse(time.RFC3339, c.Query("showtime"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Suất chiếu không hợp lệ", err)
	}

	seats, err := FetchSeatMap(uint(roomId64), showtime)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if seats == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ROOM_NOT_FOUND, nil)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, seats)
}

// GetOccupiedSeats chỉ trả nhãn ghế đã giữ, FE sơ đồ nhẹ dùng endpoint này
func GetOccupiedSeats(c *fiber.Ctx) error {
	roomId64, err := strconv.ParseUint(c.Params("roomId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, err)
	}
	showtime, err := time.Parse(time.RFC3339, c.Query("showtime"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Suất chiếu không hợp lệ", err)
	}

	labels, err := helper.ListOccupiedSeats(uint(roomId64), showtime)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"roomId":   roomId64,
		"showtime": showtime,
		"occupied": labels,
	})
}

// FetchSeatMap ghép sơ đồ phòng với các ghế đang bị giữ
func FetchSeatMap(roomId uint, showtime time.Time) ([]SeatUI, error) {
	var room model.Room
	if err := database.DB.Preload("Seats").First(&room, roomId).Error; err != nil {
		return nil, nil
	}

	occupied, err := helper.ListOccupiedSeats(roomId, showtime)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(occupied))
	for _, l := range occupied {
		taken[l] = true
	}

	seats := make([]SeatUI, 0, len(room.Seats))
	for _, s := range room.Seats {
		status := SeatAvailable
		if taken[s.Label] {
			status = SeatOccupied
		}
		seats = append(seats, SeatUI{
			Label:  s.Label,
			Type:   s.Type,
			Price:  s.Price,
			Status: status,
		})
	}
	return seats, nil
}

// PublishSeatClaim bắn delta ghế vừa bị giữ lên Redis, websocket fan-out
// cho client đang mở suất chiếu đó
func PublishSeatClaim(booking *model.Booking) {
	labels := make([]string, 0, len(booking.Seats))
	for _, s := range booking.Seats {
		labels = append(labels, s.SeatLabel)
	}
	publishSeatEvent(seatEvent{
		Type:      "CLAIMED",
		RoomID:    booking.RoomID,
		Showtime:  booking.Showtime,
		SeatLabel: labels,
	})
}

// PublishSeatReleases bắn delta ghế vừa trả, sweeper gọi qua callback
func PublishSeatReleases(releases []helper.SeatRelease) {
	for _, r := range releases {
		publishSeatEvent(seatEvent{
			Type:      "RELEASED",
			RoomID:    r.RoomID,
			Showtime:  r.Showtime,
			SeatLabel: r.SeatLabels,
		})
	}
}

func publishSeatEvent(ev seatEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Publish(ctx, seatChannel(ev.RoomID, ev.Showtime), payload).Err(); err != nil {
		log.Printf("Lỗi publish seat event: %v", err)
	}
}
