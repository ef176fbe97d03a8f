package domain

import "time"

// Channel is the outbound delivery channel a passcode is bound to.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelPhone
}

// Passcode is the single active OTP record for an identifier.
// PK: identifier (normalized email or phone). ExpiresAt doubles as the
// DynamoDB TTL attribute when that backend is used.
// The code itself is stored only as a bcrypt hash.
type Passcode struct {
	PasscodeID string    `json:"passcode_id" dynamodbav:"passcode_id"`
	Identifier string    `json:"identifier" dynamodbav:"identifier"`
	CodeHash   []byte    `json:"code_hash" dynamodbav:"code_hash"`
	Channel    Channel   `json:"channel" dynamodbav:"channel"`
	Attempts   int       `json:"attempts" dynamodbav:"attempts"`
	IssuedAt   time.Time `json:"issued_at" dynamodbav:"issued_at,unixtime"`
	ExpiresAt  time.Time `json:"expires_at" dynamodbav:"expires_at,unixtime"`
}

// Expired reports whether the record has aged out at the given instant.
func (p *Passcode) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
