package domain

import "strings"

// CountryPrefix is the fixed dialing prefix prepended to every phone number.
// It is not user-editable; the form collects the 10-digit local number only.
const CountryPrefix = "+91"

// LocalPhoneDigits is the exact number of local digits a phone number carries.
const LocalPhoneDigits = 10

// MinUsernameLen is the shortest username the availability lookup will query.
const MinUsernameLen = 3

// MaxSuggestions caps how many username alternates are kept from a lookup.
const MaxSuggestions = 4

// Channel is one of the two identity-verification methods.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

// Other returns the opposite channel.
func (c Channel) Other() Channel {
	if c == ChannelEmail {
		return ChannelPhone
	}
	return ChannelEmail
}

// AvailabilityStatus is the lifecycle of a username-availability lookup.
type AvailabilityStatus int

const (
	AvailabilityUnknown AvailabilityStatus = iota
	AvailabilityChecking
	AvailabilityAvailable
	AvailabilityTaken
)

// Availability is the resolved state of the most recent username lookup.
// Suggestions are server-provided alternates, capped at MaxSuggestions.
type Availability struct {
	Value       string
	Status      AvailabilityStatus
	Message     string
	Suggestions []string
}

// RegistrationDraft is the in-progress, unsubmitted signup form state.
// Phone holds the raw user input; the canonical value is derived on submit.
type RegistrationDraft struct {
	FirstName       string
	LastName        string
	Username        string
	Password        string
	ConfirmPassword string
	Phone           string
	Email           string
}

// DisplayName joins first and last name for presentation and session storage.
func (d RegistrationDraft) DisplayName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// CanonicalPhone returns the E.164 value submitted to the API:
// the fixed country prefix plus the normalized 10-digit local number.
func (d RegistrationDraft) CanonicalPhone() string {
	return CountryPrefix + NormalizePhone(d.Phone)
}

// NormalizePhone strips every non-digit rune and truncates to the local
// digit count. "98765 43210!!" becomes "9876543210".
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == LocalPhoneDigits {
			break
		}
	}
	return b.String()
}

// ValidOTPCode reports whether code is exactly six ASCII digits.
func ValidOTPCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
