package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-otp-api/internal/domain"
	"github.com/go-otp-api/internal/infrastructure/delivery"
	"github.com/go-otp-api/internal/pkg/clock"
	"github.com/go-otp-api/internal/pkg/codegen"
	"github.com/go-otp-api/internal/pkg/id"
	"github.com/go-otp-api/internal/pkg/keylock"
	"github.com/go-otp-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type IssueRequest struct {
	Identifier string         `json:"identifier"`
	Channel    domain.Channel `json:"channel"`
}

type VerifyRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}

// VerifyResult carries the optional proof-of-verification token issued on a
// successful check.
type VerifyResult struct {
	Identifier        string
	Channel           domain.Channel
	VerificationToken string
}

// PasscodeStore is the record table the service mutates. Get reports
// domain.ErrNotFound for absent records; backends with read-time expiry also
// report it for aged-out ones.
type PasscodeStore interface {
	Put(ctx context.Context, p *domain.Passcode) error
	Get(ctx context.Context, identifier string) (*domain.Passcode, error)
	Delete(ctx context.Context, identifier string) error
}

// TokenSigner mints proof-of-verification tokens. Optional.
type TokenSigner interface {
	Sign(identifier, channel string) (string, error)
}

type Service interface {
	Issue(ctx context.Context, req IssueRequest) error
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)
}

// ServiceDeps bundles everything the OTP service needs. Senders must cover
// both channels; Signer may be nil.
type ServiceDeps struct {
	Store           PasscodeStore
	Senders         map[domain.Channel]delivery.Sender
	Generator       *codegen.Generator
	Clock           clock.Clocker
	Signer          TokenSigner
	TTL             time.Duration
	MaxAttempts     int
	ResendCooldown  time.Duration // 0 disables
	DeliveryTimeout time.Duration
	BcryptCost      int
}

type service struct {
	ServiceDeps
	locks *keylock.KeyLock
}

func NewService(deps ServiceDeps) Service {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.TTL <= 0 {
		deps.TTL = 5 * time.Minute
	}
	if deps.MaxAttempts <= 0 {
		deps.MaxAttempts = 3
	}
	if deps.DeliveryTimeout <= 0 {
		deps.DeliveryTimeout = 5 * time.Second
	}
	if deps.BcryptCost == 0 {
		deps.BcryptCost = bcrypt.DefaultCost
	}
	return &service{ServiceDeps: deps, locks: keylock.New()}
}

// Issue validates the identifier for its channel, writes a fresh record
// (overwriting any prior one) and attempts exactly one delivery. The store write precedes delivery on purpose: a
// delivery fault leaves a valid, verifiable code behind.
func (s *service) Issue(ctx context.Context, req IssueRequest) error {
	if !req.Channel.Valid() {
		return fmt.Errorf("unknown channel %q: %w", req.Channel, domain.ErrValidation)
	}
	ident, err := normalize(req.Identifier)
	if err != nil {
		return err
	}
	if err := validateForChannel(ident, req.Channel); err != nil {
		return err
	}

	s.locks.Lock(ident)
	defer s.locks.Unlock(ident)

	if s.ResendCooldown > 0 {
		if prev, err := s.Store.Get(ctx, ident); err == nil {
			if s.Clock.Now().Before(prev.IssuedAt.Add(s.ResendCooldown)) {
				return fmt.Errorf("code recently sent, retry later: %w", domain.ErrCooldown)
			}
		}
	}

	code, err := s.Generator.Generate()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	now := s.Clock.Now().UTC()
	p := &domain.Passcode{
		PasscodeID: id.New(),
		Identifier: ident,
		CodeHash:   hash,
		Channel:    req.Channel,
		Attempts:   0,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.TTL),
	}
	if err := s.Store.Put(ctx, p); err != nil {
		return fmt.Errorf("store passcode: %w", err)
	}

	sender, ok := s.Senders[req.Channel]
	if !ok {
		return fmt.Errorf("no sender configured for channel %q: %w", req.Channel, domain.ErrDelivery)
	}
	sendCtx, cancel := context.WithTimeout(ctx, s.DeliveryTimeout)
	defer cancel()
	if err := sender.Send(sendCtx, ident, code); err != nil {
		// The record stays: the code was generated and remains verifiable
		// even though it could not be sent.
		slog.Warn("passcode delivery failed", "passcode_id", p.PasscodeID, "channel", req.Channel, "err", err)
		return fmt.Errorf("send code via %s: %w", req.Channel, domain.ErrDelivery)
	}

	slog.Info("passcode issued", "passcode_id", p.PasscodeID, "channel", req.Channel)
	return nil
}

// Verify runs the record's state machine. Expiry and attempt-budget checks
// run before the equality check so probing an expired or exhausted record
// cannot extend the budget.
func (s *service) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	if req.Code == "" || strings.TrimSpace(req.Identifier) == "" {
		return nil, fmt.Errorf("identifier and code required: %w", domain.ErrValidation)
	}
	ident, err := normalize(req.Identifier)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(ident)
	defer s.locks.Unlock(ident)

	p, err := s.Store.Get(ctx, ident)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("code not found or expired: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	if p.Expired(now) {
		s.deleteRecord(ctx, p)
		return nil, fmt.Errorf("code expired: %w", domain.ErrExpired)
	}
	if p.Attempts >= s.MaxAttempts {
		s.deleteRecord(ctx, p)
		return nil, fmt.Errorf("code invalidated: %w", domain.ErrTooManyAttempts)
	}

	if bcrypt.CompareHashAndPassword(p.CodeHash, []byte(req.Code)) != nil {
		p.Attempts++
		if p.Attempts >= s.MaxAttempts {
			s.deleteRecord(ctx, p)
			return nil, fmt.Errorf("code invalidated: %w", domain.ErrTooManyAttempts)
		}
		if err := s.Store.Put(ctx, p); err != nil {
			return nil, fmt.Errorf("record attempt: %w", err)
		}
		return nil, &domain.MismatchError{Remaining: s.MaxAttempts - p.Attempts}
	}

	s.deleteRecord(ctx, p)

	res := &VerifyResult{Identifier: ident, Channel: p.Channel}
	if s.Signer != nil {
		token, err := s.Signer.Sign(ident, string(p.Channel))
		if err != nil {
			slog.Warn("could not sign verification token", "passcode_id", p.PasscodeID, "err", err)
		} else {
			res.VerificationToken = token
		}
	}
	slog.Info("passcode verified", "passcode_id", p.PasscodeID, "channel", p.Channel)
	return res, nil
}

func (s *service) deleteRecord(ctx context.Context, p *domain.Passcode) {
	if err := s.Store.Delete(ctx, p.Identifier); err != nil {
		slog.Warn("failed to delete passcode record", "passcode_id", p.PasscodeID, "err", err)
	}
}

// normalize canonicalizes an identifier before it is used as a store key.
// Emails are lower-cased; phone numbers lose spaces, dashes and parentheses.
func normalize(identifier string) (string, error) {
	ident := strings.TrimSpace(identifier)
	if ident == "" {
		return "", fmt.Errorf("identifier required: %w", domain.ErrValidation)
	}
	if strings.Contains(ident, "@") {
		return strings.ToLower(ident), nil
	}
	ident = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, ident)
	return ident, nil
}

func validateForChannel(identifier string, ch domain.Channel) error {
	switch ch {
	case domain.ChannelEmail:
		if err := validate.Var(identifier, "required,email"); err != nil {
			return fmt.Errorf("invalid email address: %w", domain.ErrValidation)
		}
	case domain.ChannelPhone:
		if err := validate.Var(identifier, "required,phone10"); err != nil {
			return fmt.Errorf("invalid phone number, expected 10 digits: %w", domain.ErrValidation)
		}
	}
	return nil
}
