package bus

import "testing"

func TestPublishReachesSubscribers(t *testing.T) {
	b := New()

	var got []string
	b.Subscribe(EventUsernameUpdated, func(payload any) {
		p := payload.(UsernamePayload)
		got = append(got, p.UserName)
	})
	b.Subscribe(EventUsernameUpdated, func(payload any) {
		got = append(got, "second:"+payload.(UsernamePayload).UserName)
	})

	b.Publish(EventUsernameUpdated, UsernamePayload{UserName: "asha_n"})

	if len(got) != 2 {
		t.Fatalf("got %d deliveries, want 2: %v", len(got), got)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	b := New()
	// Must not panic.
	b.Publish(EventUserLoggedIn, nil)
}

func TestUnsubscribe(t *testing.T) {
	b := New()

	calls := 0
	unsub := b.Subscribe(EventUserLoggedIn, func(any) { calls++ })

	b.Publish(EventUserLoggedIn, nil)
	unsub()
	b.Publish(EventUserLoggedIn, nil)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestEventsAreIndependent(t *testing.T) {
	b := New()

	var loggedIn, renamed int
	b.Subscribe(EventUserLoggedIn, func(any) { loggedIn++ })
	b.Subscribe(EventUsernameUpdated, func(any) { renamed++ })

	b.Publish(EventUserLoggedIn, nil)

	if loggedIn != 1 || renamed != 0 {
		t.Errorf("deliveries = %d/%d, want 1/0", loggedIn, renamed)
	}
}
