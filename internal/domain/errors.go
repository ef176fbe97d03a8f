package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrExpired         = errors.New("expired")
	ErrTooManyAttempts = errors.New("maximum attempts exceeded")
	ErrMismatch        = errors.New("invalid code")
	ErrCooldown        = errors.New("resend cooldown active")
	ErrDelivery        = errors.New("delivery failed")
)

// MismatchError reports a wrong code together with the attempt budget left.
// It unwraps to ErrMismatch so callers can still discriminate with errors.Is.
type MismatchError struct {
	Remaining int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("invalid code, %d attempts remaining", e.Remaining)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }
