package handler

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

var (
	seatClients = make(map[string]map[*websocket.Conn]bool)
	seatMu      sync.Mutex
)

// SeatWebsocket đẩy trạng thái ghế realtime cho một suất chiếu.
// Client mở /ws/ghe/:roomId?showtime=RFC3339, nhận full state lúc connect
// rồi nhận delta CLAIMED/RELEASED qua Redis pub/sub.
func SeatWebsocket(c *websocket.Conn) {
	roomId64, err := strconv.ParseUint(c.Params("roomId"), 10, 64)
	if err != nil {
		c.Close()
		return
	}
	showtime, err := time.Parse(time.RFC3339, c.Query("showtime"))
	if err != nil {
		c.Close()
		return
	}
	roomId := uint(roomId64)
	channel := seatChannel(roomId, showtime)

	seatMu.Lock()
	if seatClients[channel] == nil {
		seatClients[channel] = make(map[*websocket.Conn]bool)
	}
	seatClients[channel][c] = true
	seatMu.Unlock()

	defer func() {
		seatMu.Lock()
		delete(seatClients[channel], c)
		if len(seatClients[channel]) == 0 {
			delete(seatClients, channel)
		}
		seatMu.Unlock()
		c.Close()
	}()

	// full state cho client mới connect
	if seats, err := FetchSeatMap(roomId, showtime); err == nil {
		if err := c.WriteJSON(seats); err != nil {
			return
		}
	}

	pubsub := redisClient.Subscribe(context.Background(), channel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		payload := []byte(msg.Payload)

		seatMu.Lock()
		for conn := range seatClients[channel] {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(seatClients[channel], conn)
			}
		}
		seatMu.Unlock()
	}

	log.Printf("WS closed for %s", channel)
}
