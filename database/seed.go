package database

import (
	"cinema_booking/model"
	"fmt"
	"log"

	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// nextRoomCode cấp mã phòng ROOM0001... từ bảng counter
func nextRoomCode(db *gorm.DB) string {
	var code string
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Counter{}).Where("name = ?", "room").
			Update("seq", gorm.Expr("seq + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&model.Counter{Name: "room", Seq: 1}).Error; err != nil {
				return err
			}
			code = "ROOM0001"
			return nil
		}
		var ctr model.Counter
		if err := tx.Where("name = ?", "room").First(&ctr).Error; err != nil {
			return err
		}
		code = fmt.Sprintf("ROOM%04d", ctr.Seq)
		return nil
	})
	if err != nil {
		log.Println("failed to allocate room code:", err)
	}
	return code
}

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("123456cn"), 10)
	hashPassword := string(bytes)
	if err != nil {
		hashPassword = "123456cn"
	}

	customers := []model.Customer{
		{Email: "demo@cinema.local", Phone: "0900000000", Password: hashPassword, UserName: "demo"},
	}
	for _, customer := range customers {
		if err := db.Where(model.Customer{Email: customer.Email}).FirstOrCreate(&customer).Error; err != nil {
			log.Println("failed to seed customer:", customer.Email, "error:", err)
		}
	}

	movies := []model.Movie{
		{Title: "Mắt Biếc", Duration: 117},
		{Title: "Bố Già", Duration: 128},
		{Title: "Lật Mặt 7", Duration: 132},
	}
	for _, movie := range movies {
		movie.Slug = slug.Make(movie.Title)
		if err := db.Where(model.Movie{Slug: movie.Slug}).FirstOrCreate(&movie).Error; err != nil {
			log.Println("failed to seed movie:", movie.Title, "error:", err)
		}
	}

	combos := []model.Combo{
		{Name: "Combo bắp nước", Price: 85000},
		{Name: "Combo đôi", Price: 150000},
	}
	for _, combo := range combos {
		if err := db.Where(model.Combo{Name: combo.Name}).FirstOrCreate(&combo).Error; err != nil {
			log.Println("failed to seed combo:", combo.Name, "error:", err)
		}
	}

	var roomCount int64
	db.Model(&model.Room{}).Count(&roomCount)
	if roomCount > 0 {
		return
	}

	// 2 phòng mẫu: hàng A-E, mỗi hàng 8 ghế, hàng D-E là VIP
	for _, name := range []string{"Phòng 1", "Phòng 2"} {
		room := model.Room{Code: nextRoomCode(db), Name: name}
		for _, row := range []string{"A", "B", "C", "D", "E"} {
			seatType := model.SeatNormal
			price := 75000.0
			if row == "D" || row == "E" {
				seatType = model.SeatVIP
				price = 95000.0
			}
			for col := 1; col <= 8; col++ {
				room.Seats = append(room.Seats, model.RoomSeat{
					Label: fmt.Sprintf("%s%d", row, col),
					Type:  seatType,
					Price: price,
				})
			}
		}
		if err := db.Create(&room).Error; err != nil {
			log.Println("failed to seed room:", name, "error:", err)
		}
	}
}
