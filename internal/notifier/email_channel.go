package notifier

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"os"
)

type noopEmailChannel struct{}

// NewEmailChannel returns an email channel backed by SMTP, or a noop channel
// when SMTP_HOST is not configured.
func NewEmailChannel() EmailChannel {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("Warning: SMTP_HOST is not set, using noop email channel")
		return &noopEmailChannel{}
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	return &SMTPEmailChannel{
		addr:     host + ":" + port,
		host:     host,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
	}
}

func (c *noopEmailChannel) SendOTP(ctx context.Context, payload OTPPayload) error {
	log.Printf("noop email channel: otp for %s is %s", payload.Destination, payload.Code)
	return nil
}

// SMTPEmailChannel delivers OTP emails through a plain SMTP relay.
type SMTPEmailChannel struct {
	addr     string
	host     string
	username string
	password string
	from     string
}

func (c *SMTPEmailChannel) SendOTP(ctx context.Context, payload OTPPayload) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your Workezy verification code\r\n\r\nYour verification code is %s. It expires in 5 minutes.\r\n",
		c.from, payload.Destination, payload.Code)

	var auth smtp.Auth
	if c.username != "" {
		auth = smtp.PlainAuth("", c.username, c.password, c.host)
	}

	if err := smtp.SendMail(c.addr, auth, c.from, []string{payload.Destination}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	return nil
}
