package flow

import (
	"path/filepath"
	"testing"

	"github.com/arogyalabs/arogya/internal/bus"
	"github.com/arogyalabs/arogya/internal/session"
	"github.com/arogyalabs/arogya/pkg/domain"
)

func testStore(t *testing.T) *session.FileStore {
	t.Helper()
	s, err := session.Open(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func testAccount() Account {
	return Account{
		Username:    "asha_n",
		Email:       "asha@example.in",
		Phone:       "+919876543210",
		DisplayName: "Asha Nair",
	}
}

func TestMaterializeEmailVerified(t *testing.T) {
	store := testStore(t)
	m := NewMaterializer(store, bus.New())

	rec, err := m.Materialize(domain.ChannelEmail, testAccount())
	if err != nil {
		t.Fatalf("Materialize() error: %v", err)
	}
	if !rec.IsLoggedIn || !rec.EmailVerified || rec.PhoneVerified {
		t.Errorf("record = %+v, want logged in with only email verified", rec)
	}

	want := map[string]string{
		domain.KeyIsLoggedIn:                "true",
		domain.KeyUserName:                  "asha_n",
		domain.KeyUserEmail:                 "asha@example.in",
		domain.KeyUserPhone:                 "+919876543210",
		domain.KeyEmailVerified:             "true",
		domain.KeyPhoneVerified:             "false",
		domain.KeyPendingVerificationMethod: string(domain.ChannelPhone),
		domain.KeyPendingVerificationPhone:  "+919876543210",
	}
	for k, v := range want {
		if got, _ := store.Get(k); got != v {
			t.Errorf("store[%q] = %q, want %q", k, got, v)
		}
	}
	if _, ok := store.Get(domain.KeyPendingVerificationEmail); ok {
		t.Error("pending email marker set for an email-verified session")
	}
	if _, ok := store.Get(domain.KeyUser); !ok {
		t.Error("full user record missing from the store")
	}
}

func TestMaterializePhoneVerified(t *testing.T) {
	store := testStore(t)
	m := NewMaterializer(store, bus.New())

	rec, err := m.Materialize(domain.ChannelPhone, testAccount())
	if err != nil {
		t.Fatalf("Materialize() error: %v", err)
	}
	if rec.EmailVerified || !rec.PhoneVerified {
		t.Errorf("record = %+v, want only phone verified", rec)
	}

	// Dispatch to both channels never implies verification of both: exactly
	// one verified flag may be "true".
	ev, _ := store.Get(domain.KeyEmailVerified)
	pv, _ := store.Get(domain.KeyPhoneVerified)
	if ev != "false" || pv != "true" {
		t.Errorf("verified flags = email:%q phone:%q, want false/true", ev, pv)
	}

	method, _ := store.Get(domain.KeyPendingVerificationMethod)
	if method != string(domain.ChannelEmail) {
		t.Errorf("pending method = %q, want email", method)
	}
	if email, ok := store.Get(domain.KeyPendingVerificationEmail); !ok || email != "asha@example.in" {
		t.Errorf("pending email = %q (%v), want the deferred address", email, ok)
	}
}

func TestMaterializePublishesEvents(t *testing.T) {
	store := testStore(t)
	b := bus.New()

	var loggedIn bool
	var gotName string
	b.Subscribe(bus.EventUserLoggedIn, func(payload any) {
		loggedIn = true
		if payload != nil {
			t.Errorf("userLoggedIn payload = %v, want nil", payload)
		}
	})
	b.Subscribe(bus.EventUsernameUpdated, func(payload any) {
		p, ok := payload.(bus.UsernamePayload)
		if !ok {
			t.Fatalf("usernameUpdated payload = %T, want UsernamePayload", payload)
		}
		gotName = p.UserName
	})

	m := NewMaterializer(store, b)
	if _, err := m.Materialize(domain.ChannelEmail, testAccount()); err != nil {
		t.Fatalf("Materialize() error: %v", err)
	}

	if !loggedIn {
		t.Error("userLoggedIn not published")
	}
	if gotName != "asha_n" {
		t.Errorf("usernameUpdated payload = %q, want asha_n", gotName)
	}
}
