package delivery

import (
	"context"
	"fmt"

	"github.com/go-otp-api/internal/infrastructure/sns"
)

// SMSSender delivers codes over AWS SNS.
type SMSSender struct {
	sender sns.SMSSender
}

func NewSMSSender(sender sns.SMSSender) *SMSSender {
	return &SMSSender{sender: sender}
}

func (s *SMSSender) Send(ctx context.Context, destination, code string) error {
	return s.sender.SendSMS(ctx, destination, fmt.Sprintf("Your verification code: %s", code))
}
