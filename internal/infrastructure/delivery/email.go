package delivery

import (
	"context"
	"fmt"

	"github.com/go-otp-api/internal/infrastructure/smtp"
)

const emailSubject = "Your verification code"

// EmailSender delivers codes over SMTP.
type EmailSender struct {
	mailer smtp.Mailer
}

func NewEmailSender(mailer smtp.Mailer) *EmailSender {
	return &EmailSender{mailer: mailer}
}

func (s *EmailSender) Send(_ context.Context, destination, code string) error {
	body := fmt.Sprintf("Your verification code is %s. It expires shortly; do not share it.", code)
	return s.mailer.SendEmail(destination, emailSubject, body)
}
