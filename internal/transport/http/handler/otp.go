package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-otp-api/internal/application/otp"
)

// OTPHandler exposes passcode issuance (POST) and verification (PUT).
type OTPHandler struct {
	svc otp.Service
}

func NewOTPHandler(svc otp.Service) *OTPHandler {
	return &OTPHandler{svc: svc}
}

func (h *OTPHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req otp.IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.Issue(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusEnvelope{Success: true, Message: "code sent"})
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req otp.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.Verify(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusEnvelope{
		Success:           true,
		Message:           "verified",
		VerificationToken: result.VerificationToken,
	})
}
