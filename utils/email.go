package utils

import (
	"bytes"
	"html/template"
	"io"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// BookingEmailData dữ liệu cho template email đặt vé / hủy vé
type BookingEmailData struct {
	BookingCode   string
	MovieName     string
	RoomName      string
	Showtime      string
	Seats         string
	GrandTotal    float64
	PaymentMethod string
	DetailLink    string
	CancelledAt   string
}

func smtpDialer() *gomail.Dialer {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return gomail.NewDialer(os.Getenv("SMTP_HOST"), port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
}

// SendBookingConfirmationEmail gửi email xác nhận kèm QR check-in (async).
// Chỉ gọi sau khi booking đã chuyển PAID và commit xong.
func SendBookingConfirmationEmail(to string, data BookingEmailData) {
	go func() {
		tmpl, err := template.ParseFiles("templates/booking_confirmation.html")
		if err != nil {
			log.Printf("Lỗi load template email: %v", err)
			return
		}

		var body bytes.Buffer
		if err := tmpl.Execute(&body, data); err != nil {
			log.Printf("Lỗi render template email: %v", err)
			return
		}

		m := gomail.NewMessage()
		m.SetHeader("From", os.Getenv("SMTP_FROM"))
		m.SetHeader("To", to)
		m.SetHeader("Subject", "Vé xem phim - Mã đặt vé: "+data.BookingCode)
		m.SetBody("text/html", body.String())

		// QR nhúng inline qua cid, FE scan mã này khi check-in
		qrBytes, err := GenerateQRCode(data.BookingCode, 400)
		if err != nil {
			log.Printf("Lỗi tạo QR: %v", err)
		} else {
			m.Embed("qr_checkin.png",
				gomail.SetCopyFunc(func(w io.Writer) error {
					_, err := w.Write(qrBytes)
					return err
				}),
				gomail.SetHeader(map[string][]string{
					"Content-Type":        {"image/png"},
					"Content-ID":          {"<qr_checkin_code>"},
					"Content-Disposition": {"inline"},
				}),
			)
		}

		if err := smtpDialer().DialAndSend(m); err != nil {
			log.Printf("Lỗi gửi email: %v", err)
		} else {
			log.Printf("Email vé + QR đã gửi đến %s", to)
		}
	}()
}

// SendBookingCancelledEmail gửi email xác nhận hủy (async)
func SendBookingCancelledEmail(to string, data BookingEmailData) {
	go func() {
		tmpl, err := template.ParseFiles("templates/booking_cancelled.html")
		if err != nil {
			log.Printf("Lỗi load template hủy vé: %v", err)
			return
		}

		var body bytes.Buffer
		if err := tmpl.Execute(&body, data); err != nil {
			log.Printf("Lỗi render template hủy vé: %v", err)
			return
		}

		m := gomail.NewMessage()
		m.SetHeader("From", os.Getenv("SMTP_FROM"))
		m.SetHeader("To", to)
		m.SetHeader("Subject", "Hủy vé thành công - Mã đặt vé: "+data.BookingCode)
		m.SetBody("text/html", body.String())

		if err := smtpDialer().DialAndSend(m); err != nil {
			log.Printf("Lỗi gửi email hủy vé: %v", err)
		}
	}()
}
