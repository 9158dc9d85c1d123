package flow

import (
	"context"
	"errors"

	"github.com/arogyalabs/arogya/pkg/client"
	"github.com/arogyalabs/arogya/pkg/domain"
)

// GateState is the lifecycle of the verification gate.
type GateState int

const (
	GateIdle GateState = iota
	GateSent
	GateVerifying
	GateVerified
)

func (s GateState) String() string {
	switch s {
	case GateIdle:
		return "idle"
	case GateSent:
		return "sent"
	case GateVerifying:
		return "verifying"
	case GateVerified:
		return "verified"
	}
	return "unknown"
}

// Gate is the OTP verification state machine:
//
//	Idle -> Sent -> Verifying -> Verified (terminal)
//	                    \-> Sent (failure, retry allowed)
//
// Only one channel needs to reach Verified for the flow to complete. There
// is no client-side attempt limit or backoff; rate limiting and code expiry
// belong to the OTP provider.
type Gate struct {
	state   GateState
	channel domain.Channel
}

// NewGate returns a gate in the Idle state.
func NewGate() *Gate {
	return &Gate{}
}

// State returns the current gate state.
func (g *Gate) State() GateState { return g.state }

// Channel returns the channel being verified. Meaningful from Sent onward.
func (g *Gate) Channel() domain.Channel { return g.channel }

// MarkSent records that an OTP was dispatched for ch and arms the gate.
// Re-marking after a resend or a channel switch is allowed until Verified.
func (g *Gate) MarkSent(ch domain.Channel) error {
	if g.state == GateVerified {
		return errors.New("already verified")
	}
	g.state = GateSent
	g.channel = ch
	return nil
}

// Begin transitions Sent -> Verifying after fast-failing malformed codes.
// A code that is not exactly six digits returns *ValidationError and the
// gate stays in Sent; no network call may be made.
func (g *Gate) Begin(code string) error {
	switch g.state {
	case GateVerified:
		return errors.New("already verified")
	case GateIdle:
		return errors.New("no OTP has been sent")
	case GateVerifying:
		return errors.New("verification already in progress")
	}
	if !domain.ValidOTPCode(code) {
		return &ValidationError{Field: "code", Reason: "enter the 6-digit code"}
	}
	g.state = GateVerifying
	return nil
}

// Finish folds the provider response into the gate. Success requires the
// generic success flag AND the explicit verified flag; anything less is a
// failure and the gate returns to Sent for another attempt. The provider
// message is surfaced verbatim when present.
func (g *Gate) Finish(resp *client.VerifyOTPResponse, err error) error {
	if g.state != GateVerifying {
		return errors.New("no verification in progress")
	}
	if err != nil {
		g.state = GateSent
		return &VerificationError{Message: err.Error()}
	}
	if resp.Success && resp.Verified {
		g.state = GateVerified
		return nil
	}
	g.state = GateSent
	return &VerificationError{Message: resp.Message}
}

// Verify runs Begin, the channel-specific OTP check, and Finish in one call.
// The TUI splits the steps across its event loop; synchronous callers and
// tests use this.
func (g *Gate) Verify(ctx context.Context, api API, email, phone, code string) error {
	if err := g.Begin(code); err != nil {
		return err
	}

	var resp *client.VerifyOTPResponse
	var err error
	switch g.channel {
	case domain.ChannelPhone:
		resp, err = api.VerifyPhoneOTP(ctx, phone, code)
	default:
		resp, err = api.VerifyEmailOTP(ctx, email, code)
	}
	return g.Finish(resp, err)
}
