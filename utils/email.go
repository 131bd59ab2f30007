package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log"
	"os"
	"strconv"

	"tour_booking/model"

	"gopkg.in/gomail.v2"
)

// VoucherEmailData feeds templates/voucher_issued.html.
type VoucherEmailData struct {
	BookingCode  string
	VoucherCode  string
	PackageName  string
	Schedule     string
	Participants int
	TotalAmount  float64
	CustomerName string
}

// VoucherNotifier delivers vouchers by email. Implements the booking
// service's Notifier; delivery runs in a goroutine so the webhook response
// never waits on SMTP.
type VoucherNotifier struct{}

func (VoucherNotifier) DeliverVoucher(b model.Booking) {
	go func() {
		data := VoucherEmailData{
			BookingCode:  b.BookingCode,
			VoucherCode:  b.VoucherCode,
			PackageName:  b.PackageName,
			Schedule:     fmt.Sprintf("%s - %s", b.ScheduleStart.Format("02/01/2006"), b.ScheduleEnd.Format("02/01/2006")),
			Participants: b.ParticipantCount,
			TotalAmount:  b.TotalAmount,
			CustomerName: b.CustomerName,
		}

		tmpl, err := template.ParseFiles("templates/voucher_issued.html")
		if err != nil {
			log.Printf("failed to load voucher template: %v", err)
			return
		}
		var body bytes.Buffer
		if err := tmpl.Execute(&body, data); err != nil {
			log.Printf("failed to render voucher template: %v", err)
			return
		}

		m := gomail.NewMessage()
		m.SetHeader("From", os.Getenv("SMTP_FROM"))
		m.SetHeader("To", b.Email)
		m.SetHeader("Subject", fmt.Sprintf("Your tour voucher %s - booking %s", b.VoucherCode, b.BookingCode))
		m.SetBody("text/html", body.String())

		// Embed the voucher QR like the detail page renders it.
		qrBytes, err := GenerateQRCode(b.VoucherCode, 400)
		if err == nil {
			m.Embed("voucher_qr.png", gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(qrBytes)
				return err
			}), gomail.SetHeader(map[string][]string{
				"Content-Type":        {"image/png"},
				"Content-ID":          {"<voucher_qr>"},
				"Content-Disposition": {"inline"},
			}))
		} else {
			log.Printf("failed to generate voucher QR for %s: %v", b.BookingCode, err)
		}

		port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
		if port == 0 {
			port = 587
		}
		d := gomail.NewDialer(os.Getenv("SMTP_HOST"), port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
		if err := d.DialAndSend(m); err != nil {
			log.Printf("failed to send voucher email for %s to %s: %v", b.BookingCode, b.Email, err)
		} else {
			log.Printf("voucher email for %s sent to %s", b.BookingCode, b.Email)
		}
	}()
}
