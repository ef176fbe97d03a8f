package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-otp-api/internal/application/otp"
	"github.com/go-otp-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockOTPSvc struct{ mock.Mock }

func (m *mockOTPSvc) Issue(ctx context.Context, req otp.IssueRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockOTPSvc) Verify(ctx context.Context, req otp.VerifyRequest) (*otp.VerifyResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*otp.VerifyResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func doJSON(h http.HandlerFunc, method string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, "/otp", &buf)
	rr := httptest.NewRecorder()
	h(rr, r)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) StatusEnvelope {
	t.Helper()
	var env StatusEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

// --- Issue ---

func TestIssue_InvalidBody(t *testing.T) {
	h := NewOTPHandler(&mockOTPSvc{})
	rr := doJSON(h.Issue, http.MethodPost, "not-json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, decodeEnvelope(t, rr).Success)
}

func TestIssue_ValidationFailure_400(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Issue", mock.Anything, mock.Anything).
		Return(fmt.Errorf("invalid email address: %w", domain.ErrValidation))
	h := NewOTPHandler(svc)

	rr := doJSON(h.Issue, http.MethodPost, otp.IssueRequest{Identifier: "nope", Channel: domain.ChannelEmail})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "invalid email")
	svc.AssertExpectations(t)
}

func TestIssue_Cooldown_429(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Issue", mock.Anything, mock.Anything).
		Return(fmt.Errorf("code recently sent: %w", domain.ErrCooldown))
	h := NewOTPHandler(svc)

	rr := doJSON(h.Issue, http.MethodPost, otp.IssueRequest{Identifier: "a@b.com", Channel: domain.ChannelEmail})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestIssue_DeliveryFault_502(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Issue", mock.Anything, mock.Anything).
		Return(fmt.Errorf("send code via email: %w", domain.ErrDelivery))
	h := NewOTPHandler(svc)

	rr := doJSON(h.Issue, http.MethodPost, otp.IssueRequest{Identifier: "a@b.com", Channel: domain.ChannelEmail})
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.False(t, decodeEnvelope(t, rr).Success)
}

func TestIssue_UnexpectedError_Opaque500(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Issue", mock.Anything, mock.Anything).Return(fmt.Errorf("dynamo: connection reset"))
	h := NewOTPHandler(svc)

	rr := doJSON(h.Issue, http.MethodPost, otp.IssueRequest{Identifier: "a@b.com", Channel: domain.ChannelEmail})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, decodeEnvelope(t, rr).Message, "dynamo", "infrastructure detail must not leak")
}

func TestIssue_HappyPath(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Issue", mock.Anything, otp.IssueRequest{Identifier: "a@b.com", Channel: domain.ChannelEmail}).Return(nil)
	h := NewOTPHandler(svc)

	rr := doJSON(h.Issue, http.MethodPost, otp.IssueRequest{Identifier: "a@b.com", Channel: domain.ChannelEmail})
	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, "code sent", env.Message)
	svc.AssertExpectations(t)
}

// --- Verify ---

func TestVerify_InvalidBody(t *testing.T) {
	h := NewOTPHandler(&mockOTPSvc{})
	rr := doJSON(h.Verify, http.MethodPut, "{")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerify_NotFound_400WithReason(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Verify", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("code not found or expired: %w", domain.ErrNotFound))
	h := NewOTPHandler(svc)

	rr := doJSON(h.Verify, http.MethodPut, otp.VerifyRequest{Identifier: "a@b.com", Code: "123456"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeEnvelope(t, rr).Message, "not found or expired")
}

func TestVerify_Mismatch_400WithRemainingCount(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Verify", mock.Anything, mock.Anything).Return(nil, &domain.MismatchError{Remaining: 2})
	h := NewOTPHandler(svc)

	rr := doJSON(h.Verify, http.MethodPut, otp.VerifyRequest{Identifier: "a@b.com", Code: "000000"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeEnvelope(t, rr).Message, "2 attempts remaining")
}

func TestVerify_Exhausted_400(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Verify", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("code invalidated: %w", domain.ErrTooManyAttempts))
	h := NewOTPHandler(svc)

	rr := doJSON(h.Verify, http.MethodPut, otp.VerifyRequest{Identifier: "a@b.com", Code: "000000"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeEnvelope(t, rr).Message, "maximum attempts exceeded")
}

func TestVerify_HappyPath_WithToken(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Verify", mock.Anything, otp.VerifyRequest{Identifier: "a@b.com", Code: "123456"}).
		Return(&otp.VerifyResult{Identifier: "a@b.com", Channel: domain.ChannelEmail, VerificationToken: "proof"}, nil)
	h := NewOTPHandler(svc)

	rr := doJSON(h.Verify, http.MethodPut, otp.VerifyRequest{Identifier: "a@b.com", Code: "123456"})
	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, "verified", env.Message)
	assert.Equal(t, "proof", env.VerificationToken)
	svc.AssertExpectations(t)
}
