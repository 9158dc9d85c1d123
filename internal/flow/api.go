package flow

import (
	"context"

	"github.com/arogyalabs/arogya/pkg/client"
)

// API is the slice of the marketplace client the registration flow consumes.
// *client.Client satisfies it; tests substitute fakes.
type API interface {
	CheckUsername(ctx context.Context, username string) (*client.CheckUsernameResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.RegisterResponse, error)
	SendEmailOTP(ctx context.Context, email string) (*client.SendOTPResponse, error)
	SendPhoneOTP(ctx context.Context, phone string) (*client.SendOTPResponse, error)
	VerifyEmailOTP(ctx context.Context, email, code string) (*client.VerifyOTPResponse, error)
	VerifyPhoneOTP(ctx context.Context, phone, code string) (*client.VerifyOTPResponse, error)
}
