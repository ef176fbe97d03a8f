// Package delivery adapts transport implementations (SMTP, SNS, console) to
// the uniform per-channel Sender contract the OTP service consumes. Adapters
// report provider faults as plain errors; they never panic, and the console
// variant is a first-class channel backing for development.
package delivery

import "context"

// Sender delivers a passcode to a destination over one concrete transport.
type Sender interface {
	Send(ctx context.Context, destination, code string) error
}
