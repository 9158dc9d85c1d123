package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arogyalabs/arogya/pkg/client"
	"github.com/arogyalabs/arogya/pkg/domain"
)

// LoginRedirectDelay is how long the duplicate-account notice stays on
// screen before the flow hands off to login.
const LoginRedirectDelay = 3 * time.Second

// ValidateDraft runs the submit gate: every field non-empty, password equal
// to its confirmation, a valid 10-digit phone, and username availability
// resolved to available. A violation returns *ValidationError and the
// caller must not issue the account-creation request.
func ValidateDraft(d domain.RegistrationDraft, avail domain.Availability) error {
	required := []struct {
		field, value string
	}{
		{"firstName", d.FirstName},
		{"lastName", d.LastName},
		{"username", d.Username},
		{"password", d.Password},
		{"confirmPassword", d.ConfirmPassword},
		{"phone", d.Phone},
		{"email", d.Email},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Reason: "required"}
		}
	}
	if d.Password != d.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Reason: "passwords do not match"}
	}
	if len(domain.NormalizePhone(d.Phone)) != domain.LocalPhoneDigits {
		return &ValidationError{Field: "phone", Reason: fmt.Sprintf("must be %d digits", domain.LocalPhoneDigits)}
	}
	if !strings.Contains(d.Email, "@") {
		return &ValidationError{Field: "email", Reason: "invalid email address"}
	}
	if avail.Value != d.Username || avail.Status != domain.AvailabilityAvailable {
		return &ValidationError{Field: "username", Reason: "availability not confirmed"}
	}
	return nil
}

// SubmitDraft validates the draft and creates the account. Conflicts come
// back as *DuplicateAccountError; validation failures as *ValidationError
// without any network call.
func SubmitDraft(ctx context.Context, api API, d domain.RegistrationDraft, avail domain.Availability) (*client.RegisterResponse, error) {
	if err := ValidateDraft(d, avail); err != nil {
		return nil, err
	}

	resp, err := api.Register(ctx, client.RegisterRequest{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Username:  d.Username,
		Password:  d.Password,
		Phone:     d.CanonicalPhone(),
		Email:     d.Email,
	})
	if err != nil {
		return nil, err
	}
	if resp.Success {
		return resp, nil
	}

	switch resp.ErrorCode {
	case client.CodePhoneExists:
		return nil, &DuplicateAccountError{Field: "phone", Message: resp.Message}
	case client.CodeEmailExists:
		return nil, &DuplicateAccountError{Field: "email", Message: resp.Message}
	case client.CodeDuplicateKey:
		return nil, &DuplicateAccountError{Field: "account", Message: resp.Message}
	}
	if resp.Message != "" {
		return nil, errors.New(resp.Message)
	}
	return nil, errors.New("registration failed")
}
