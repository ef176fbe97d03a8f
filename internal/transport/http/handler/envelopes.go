package handler

import (
	"encoding/json"
	"net/http"
)

// StatusEnvelope is the response wrapper for every OTP endpoint: a success
// flag plus a human-readable message naming the outcome. The issued code
// itself never appears in a response.
type StatusEnvelope struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	VerificationToken string `json:"verification_token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, StatusEnvelope{Success: false, Message: msg})
}
