package handler

import (
	"errors"
	"net/http"

	"github.com/go-otp-api/internal/domain"
)

// httpError converts a service error into the matching HTTP status with a
// structured envelope. Unrecognized errors become an opaque 500.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrExpired),
		errors.Is(err, domain.ErrTooManyAttempts),
		errors.Is(err, domain.ErrMismatch):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCooldown):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrDelivery):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
