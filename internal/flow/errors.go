package flow

import (
	"fmt"
	"strings"

	"github.com/arogyalabs/arogya/pkg/domain"
)

// ValidationError is a local gate failure: it never reaches the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// DuplicateAccountError is surfaced by account creation when the phone or
// email is already registered. Policy is hand-off to the login flow after
// LoginRedirectDelay, never retry.
type DuplicateAccountError struct {
	Field   string
	Message string
}

func (e *DuplicateAccountError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("an account with this %s already exists", e.Field)
}

// DispatchError reports which OTP channels failed to send. A partial
// failure still leaves the surviving channel usable for verification.
type DispatchError struct {
	Channels []domain.Channel
}

func (e *DispatchError) Error() string {
	names := make([]string, len(e.Channels))
	for i, ch := range e.Channels {
		names[i] = string(ch)
	}
	return fmt.Sprintf("OTP send failed for %s", strings.Join(names, " and "))
}

// VerificationError is a rejected or ambiguous OTP check. The provider
// message is carried verbatim when present.
type VerificationError struct {
	Message string
}

func (e *VerificationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid OTP"
}
