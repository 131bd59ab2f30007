package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"

	"github.com/jordan-wright/email"
)

// SendOpsAlert mails the ops address a plain-text alert, used for security
// events like webhook signature failures. Fire and forget.
func SendOpsAlert(subject, body string) {
	to := os.Getenv("OPS_ALERT_EMAIL")
	if to == "" {
		log.Printf("[alert] %s: %s", subject, body)
		return
	}

	go func() {
		host := os.Getenv("SMTP_HOST")
		port := os.Getenv("SMTP_PORT")
		if port == "" {
			port = "587"
		}

		e := email.NewEmail()
		e.From = os.Getenv("SMTP_FROM")
		e.To = []string{to}
		e.Subject = "[tour-booking] " + subject
		e.Text = []byte(body)

		auth := smtp.PlainAuth("", os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"), host)
		if err := e.Send(fmt.Sprintf("%s:%s", host, port), auth); err != nil {
			log.Printf("failed to send ops alert: %v", err)
		}
	}()
}
