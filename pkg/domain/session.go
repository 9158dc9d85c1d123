package domain

import "time"

// Session store keys written by the materializer. The individual keys mirror
// the aggregate record so independently-initialized readers can pick either.
const (
	KeyIsLoggedIn    = "isLoggedIn"
	KeyUserName      = "userName"
	KeyUserEmail     = "userEmail"
	KeyUserPhone     = "userPhone"
	KeyUser          = "user"
	KeyEmailVerified = "emailVerified"
	KeyPhoneVerified = "phoneVerified"

	// Transient markers for the channel whose verification was deferred.
	KeyPendingVerificationMethod = "pendingVerificationMethod"
	KeyPendingVerificationPhone  = "pendingVerificationPhone"
	KeyPendingVerificationEmail  = "pendingVerificationEmail"
)

// SessionRecord is the aggregate logged-in state persisted after the first
// successful channel verification. Exactly one of EmailVerified and
// PhoneVerified is true: verification state is never inferred from dispatch
// state.
type SessionRecord struct {
	IsLoggedIn      bool      `json:"is_logged_in"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	DisplayName     string    `json:"display_name"`
	VerifiedChannel Channel   `json:"verified_channel"`
	EmailVerified   bool      `json:"email_verified"`
	PhoneVerified   bool      `json:"phone_verified"`
	CreatedAt       time.Time `json:"created_at"`
}
