package helper

import (
	"log"
	"time"

	"cinema_booking/database"
	"cinema_booking/model"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// SeatRelease mô tả các ghế vừa được trả của một suất chiếu,
// dùng để bắn realtime cho client đang mở sơ đồ ghế
type SeatRelease struct {
	RoomID     uint
	Showtime   time.Time
	SeatLabels []string
}

// ExpireBookings hủy các đơn PENDING_PAYMENT quá hạn. Đổi trạng thái có
// điều kiện nên chạy đua với webhook thanh toán thì chỉ một bên thắng;
// trả ghế theo booking id nên crash giữa flip và release sẽ tự lành ở
// lượt quét sau.
func ExpireBookings(now time.Time) ([]SeatRelease, error) {
	db := database.DB

	var expired []model.Booking
	if err := db.
		Where("status = ? AND expires_at < ?", model.BookingPending, now).
		Find(&expired).Error; err != nil {
		return nil, err
	}

	var releases []SeatRelease
	for _, b := range expired {
		booking := b
		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&model.Booking{}).
				Where("booking_id = ? AND status = ?", booking.BookingID, model.BookingPending).
				Update("status", model.BookingCancelled)
			if res.Error != nil {
				return res.Error
			}

			var current model.Booking
			if err := tx.Where("booking_id = ?", booking.BookingID).First(&current).Error; err != nil {
				return err
			}
			if current.Status == model.BookingPaid {
				// webhook thắng trước, ghế đã bán
				return nil
			}

			seats, err := ReleaseSeats(tx, booking.BookingID)
			if err != nil {
				return err
			}
			if len(seats) > 0 {
				labels := make([]string, 0, len(seats))
				for _, s := range seats {
					labels = append(labels, s.SeatLabel)
				}
				releases = append(releases, SeatRelease{
					RoomID:     booking.RoomID,
					Showtime:   booking.Showtime,
					SeatLabels: labels,
				})
			}
			return nil
		})
		if err != nil {
			log.Printf("Lỗi hủy đơn hết hạn %s: %v", booking.BookingID, err)
		}
	}

	return releases, nil
}

// ReleaseOrphanSeats dọn các dòng ghế mà đơn sở hữu đã hủy/thất bại,
// sót lại do crash giữa chừng
func ReleaseOrphanSeats() (int64, error) {
	db := database.DB
	sub := db.Model(&model.Booking{}).Select("booking_id").
		Where("status IN ?", []string{model.BookingCancelled, model.BookingFailed})
	res := db.Where("booking_ref IN (?)", sub).Delete(&model.OccupiedSeat{})
	return res.RowsAffected, res.Error
}

var expiryScheduler gocron.Scheduler

// StartBookingExpiryScheduler quét đơn quá hạn mỗi phút. onRelease (có thể
// nil) nhận các ghế vừa trả để tầng HTTP bắn realtime, sweeper không tự
// đụng vào transport.
func StartBookingExpiryScheduler(onRelease func([]SeatRelease)) {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}
	expiryScheduler = s

	_, err = s.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			releases, err := ExpireBookings(time.Now())
			if err != nil {
				log.Printf("Lỗi quét đơn hết hạn: %v", err)
				return
			}
			if len(releases) > 0 {
				log.Printf("Đã hủy và trả ghế cho %d suất chiếu", len(releases))
				if onRelease != nil {
					onRelease(releases)
				}
			}
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("Booking expiry scheduler started (every 1m)")
}

func StopBookingExpiryScheduler() {
	if expiryScheduler != nil {
		_ = expiryScheduler.Shutdown()
	}
}

var orphanCron *cron.Cron

// StartOrphanSeatSweeper dọn ghế mồ côi định kỳ 10 phút
func StartOrphanSeatSweeper() {
	orphanCron = cron.New()
	_, err := orphanCron.AddFunc("@every 10m", func() {
		n, err := ReleaseOrphanSeats()
		if err != nil {
			log.Printf("Lỗi dọn ghế mồ côi: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Đã dọn %d ghế mồ côi", n)
		}
	})
	if err != nil {
		log.Fatal(err)
	}
	orphanCron.Start()
}

func StopOrphanSeatSweeper() {
	if orphanCron != nil {
		orphanCron.Stop()
	}
}
