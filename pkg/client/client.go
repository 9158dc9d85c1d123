package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/arogyalabs/arogya/pkg/domain"
)

// registrationContext tags OTP sends so the backend picks the signup
// template rather than the login one.
const registrationContext = "registration"

// Client is the Arogya marketplace API client for the registration flow.
type Client struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
}

// New creates a new API client. Every request carries a per-process
// X-Client-ID so the backend can correlate the steps of one signup attempt.
func New(baseURL string) *Client {
	return &Client{
		baseURL:  baseURL,
		clientID: uuid.NewString(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CheckUsernameResponse is the availability lookup result.
type CheckUsernameResponse struct {
	Success     bool     `json:"success"`
	Available   bool     `json:"available"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// CheckUsername asks whether username is free. Suggestions, when present,
// are capped at domain.MaxSuggestions.
func (c *Client) CheckUsername(ctx context.Context, username string) (*CheckUsernameResponse, error) {
	var resp CheckUsernameResponse
	if err := c.post(ctx, "/api/check-username", map[string]string{"username": username}, &resp); err != nil {
		return nil, fmt.Errorf("client.CheckUsername: %w", err)
	}
	if len(resp.Suggestions) > domain.MaxSuggestions {
		resp.Suggestions = resp.Suggestions[:domain.MaxSuggestions]
	}
	return &resp, nil
}

// RegisterRequest is the account-creation payload. Phone must already be
// canonical (country prefix + 10 local digits).
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// RegisterResponse is the account-creation result. On conflict, ErrorCode
// is one of the Code* constants in errors.go.
type RegisterResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// Register creates the account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.post(ctx, "/api/register", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// SendOTPResponse is the result of an OTP dispatch for either channel.
// Sid and Status are echoed by the phone provider only. DevOTP is filled
// by development-mode backends so local flows can complete without real
// delivery.
type SendOTPResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	IsDevelopmentMode bool   `json:"isDevelopmentMode,omitempty"`
	DevOTP            string `json:"devOtp,omitempty"`
	Sid               string `json:"sid,omitempty"`
	Status            string `json:"status,omitempty"`
}

// SendEmailOTP requests an OTP be emailed to the given address.
func (c *Client) SendEmailOTP(ctx context.Context, email string) (*SendOTPResponse, error) {
	body := map[string]string{"email": email, "context": registrationContext}
	var resp SendOTPResponse
	if err := c.post(ctx, "/api/verify-email/send-otp", body, &resp); err != nil {
		return nil, fmt.Errorf("client.SendEmailOTP: %w", err)
	}
	return &resp, nil
}

// SendPhoneOTP requests an OTP be texted to the given number.
func (c *Client) SendPhoneOTP(ctx context.Context, phone string) (*SendOTPResponse, error) {
	body := map[string]string{"phone": phone, "context": registrationContext}
	var resp SendOTPResponse
	if err := c.post(ctx, "/api/verify-phone/send-otp", body, &resp); err != nil {
		return nil, fmt.Errorf("client.SendPhoneOTP: %w", err)
	}
	return &resp, nil
}

// VerifyOTPResponse is the result of an OTP check. A channel counts as
// verified only when Success AND Verified are both true; an ambiguous
// response is a failure.
type VerifyOTPResponse struct {
	Success  bool   `json:"success"`
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

// VerifyEmailOTP checks an emailed code.
func (c *Client) VerifyEmailOTP(ctx context.Context, email, code string) (*VerifyOTPResponse, error) {
	body := map[string]string{"email": email, "code": code}
	var resp VerifyOTPResponse
	if err := c.post(ctx, "/api/verify-email/verify-otp", body, &resp); err != nil {
		return nil, fmt.Errorf("client.VerifyEmailOTP: %w", err)
	}
	return &resp, nil
}

// VerifyPhoneOTP checks a texted code.
func (c *Client) VerifyPhoneOTP(ctx context.Context, phone, code string) (*VerifyOTPResponse, error) {
	body := map[string]string{"phone": phone, "code": code}
	var resp VerifyOTPResponse
	if err := c.post(ctx, "/api/verify-phone/verify-otp", body, &resp); err != nil {
		return nil, fmt.Errorf("client.VerifyPhoneOTP: %w", err)
	}
	return &resp, nil
}

// post sends a JSON request and decodes the JSON body into out regardless of
// HTTP status: the backend reports domain failures inside the envelope
// (success:false), and callers branch on that. Transport failures and
// non-JSON bodies are normalized into *APIError so every call site sees one
// error shape.
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", c.clientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max body
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
	}

	if json.Unmarshal(respBody, out) == nil {
		return nil
	}

	// Non-JSON body (proxy error page, empty 502, ...): surface status + text.
	msg := string(bytes.TrimSpace(respBody))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
