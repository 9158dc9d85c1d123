package flow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/arogyalabs/arogya/internal/bus"
	"github.com/arogyalabs/arogya/internal/session"
	"github.com/arogyalabs/arogya/pkg/domain"
)

// DashboardRedirectDelay is the fixed pause between materializing the
// session and navigating to the dashboard.
const DashboardRedirectDelay = 1500 * time.Millisecond

// DashboardPath is the web route opened after the delay.
const DashboardPath = "/dashboard"

// Account is the registered identity handed to the materializer.
type Account struct {
	Username    string
	Email       string
	Phone       string
	DisplayName string
}

// Materializer commits verified-login state to the session store and
// announces it on the bus. It is the only writer of the store.
type Materializer struct {
	store session.Store
	bus   *bus.Bus
	now   func() time.Time
}

// NewMaterializer wires the store and event bus.
func NewMaterializer(store session.Store, b *bus.Bus) *Materializer {
	return &Materializer{store: store, bus: b, now: time.Now}
}

// Materialize persists the session for the channel that was actually
// verified in this flow. The other channel's verified flag is explicitly
// "false" even if its OTP was sent: verification state is never inferred
// from dispatch state. The deferred channel keeps pending-verification
// markers so it can be completed later.
func (m *Materializer) Materialize(verified domain.Channel, acct Account) (domain.SessionRecord, error) {
	rec := domain.SessionRecord{
		IsLoggedIn:      true,
		Username:        acct.Username,
		Email:           acct.Email,
		Phone:           acct.Phone,
		DisplayName:     acct.DisplayName,
		VerifiedChannel: verified,
		EmailVerified:   verified == domain.ChannelEmail,
		PhoneVerified:   verified == domain.ChannelPhone,
		CreatedAt:       m.now(),
	}

	blob, err := json.Marshal(rec)
	if err != nil {
		return domain.SessionRecord{}, fmt.Errorf("encode session record: %w", err)
	}

	values := map[string]string{
		domain.KeyIsLoggedIn:    "true",
		domain.KeyUserName:      rec.Username,
		domain.KeyUserEmail:     rec.Email,
		domain.KeyUserPhone:     rec.Phone,
		domain.KeyUser:          string(blob),
		domain.KeyEmailVerified: boolKey(rec.EmailVerified),
		domain.KeyPhoneVerified: boolKey(rec.PhoneVerified),
	}

	switch verified.Other() {
	case domain.ChannelEmail:
		values[domain.KeyPendingVerificationMethod] = string(domain.ChannelEmail)
		values[domain.KeyPendingVerificationEmail] = rec.Email
	case domain.ChannelPhone:
		values[domain.KeyPendingVerificationMethod] = string(domain.ChannelPhone)
		values[domain.KeyPendingVerificationPhone] = rec.Phone
	}

	if err := m.store.SetAll(values); err != nil {
		return domain.SessionRecord{}, fmt.Errorf("persist session: %w", err)
	}

	m.bus.Publish(bus.EventUserLoggedIn, nil)
	m.bus.Publish(bus.EventUsernameUpdated, bus.UsernamePayload{UserName: rec.Username})

	return rec, nil
}

func boolKey(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
