package delivery

import (
	"context"
	"log/slog"
)

// ConsoleSender logs the code instead of sending it. Development backing for
// either channel.
type ConsoleSender struct {
	channel string
}

func NewConsoleSender(channel string) *ConsoleSender {
	return &ConsoleSender{channel: channel}
}

func (s *ConsoleSender) Send(_ context.Context, destination, code string) error {
	slog.Info("passcode issued (console delivery)",
		"channel", s.channel, "destination", destination, "code", code)
	return nil
}
