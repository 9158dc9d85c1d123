package client

import (
	"errors"
	"fmt"
)

// Conflict codes the register endpoint returns when the new account
// duplicates an existing one.
const (
	CodePhoneExists  = "PHONE_EXISTS"
	CodeEmailExists  = "EMAIL_EXISTS"
	CodeDuplicateKey = "DUPLICATE_KEY"
)

// APIError is any failure to obtain a JSON envelope from the API: transport
// errors (StatusCode 0) and non-JSON responses. Domain failures arrive
// inside the decoded envelope instead.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an APIError with
// the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}
