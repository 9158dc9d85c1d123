package flow

import (
	"context"
	"errors"

	"github.com/arogyalabs/arogya/pkg/domain"
)

// ChannelResult is the independent outcome of one OTP send.
type ChannelResult struct {
	Channel domain.Channel
	Sent    bool
	Message string
	DevOTP  string
	Sid     string
	Err     error
}

// DispatchResult combines the two per-channel send outcomes. Failure of one
// channel never cancels or invalidates the other.
type DispatchResult struct {
	Email ChannelResult
	Phone ChannelResult
}

// AllSent reports whether both channels accepted the send.
func (r DispatchResult) AllSent() bool {
	return r.Email.Sent && r.Phone.Sent
}

// AnySent reports whether at least one channel is usable for verification.
func (r DispatchResult) AnySent() bool {
	return r.Email.Sent || r.Phone.Sent
}

// Failed lists the channels whose send did not succeed.
func (r DispatchResult) Failed() []domain.Channel {
	var failed []domain.Channel
	if !r.Email.Sent {
		failed = append(failed, domain.ChannelEmail)
	}
	if !r.Phone.Sent {
		failed = append(failed, domain.ChannelPhone)
	}
	return failed
}

// Err returns nil when both sends succeeded, otherwise a *DispatchError
// naming the failed channel(s).
func (r DispatchResult) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	return &DispatchError{Channels: failed}
}

// Dispatch fires the OTP send for both channels. The sends are independent:
// both are always attempted, and each failure is reported on its own
// channel. Awaited sequentially; ordering between the two is not relied on.
func Dispatch(ctx context.Context, api API, email, phone string) DispatchResult {
	return DispatchResult{
		Email: Resend(ctx, api, domain.ChannelEmail, email, phone),
		Phone: Resend(ctx, api, domain.ChannelPhone, email, phone),
	}
}

// Resend requests a fresh OTP for a single channel. Safe to call repeatedly;
// each call is an independent dispatch and code generation/expiry is owned
// by the provider.
func Resend(ctx context.Context, api API, ch domain.Channel, email, phone string) ChannelResult {
	res := ChannelResult{Channel: ch}

	switch ch {
	case domain.ChannelEmail:
		resp, err := api.SendEmailOTP(ctx, email)
		if err != nil {
			res.Err = err
			return res
		}
		res.Sent = resp.Success
		res.Message = resp.Message
		res.DevOTP = resp.DevOTP
		if !resp.Success {
			res.Err = sendErr(resp.Message)
		}
	case domain.ChannelPhone:
		resp, err := api.SendPhoneOTP(ctx, phone)
		if err != nil {
			res.Err = err
			return res
		}
		res.Sent = resp.Success
		res.Message = resp.Message
		res.DevOTP = resp.DevOTP
		res.Sid = resp.Sid
		if !resp.Success {
			res.Err = sendErr(resp.Message)
		}
	}
	return res
}

func sendErr(message string) error {
	if message == "" {
		message = "OTP send failed"
	}
	return errors.New(message)
}
