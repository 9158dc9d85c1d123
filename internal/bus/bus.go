// Package bus is the in-process publish/subscribe channel between the
// registration flow and independently-rendered UI (status bars, prompts)
// that needs to observe login state without sharing a store.
package bus

import "sync"

// Events published by the session materializer.
const (
	// EventUserLoggedIn signals a completed verification. No payload.
	EventUserLoggedIn = "userLoggedIn"
	// EventUsernameUpdated carries a UsernamePayload.
	EventUsernameUpdated = "usernameUpdated"
)

// UsernamePayload is the payload of EventUsernameUpdated.
type UsernamePayload struct {
	UserName string `json:"userName"`
}

// Handler receives an event payload; nil for payload-less events.
type Handler func(payload any)

// Bus is a minimal synchronous fan-out. Handlers run on the publisher's
// goroutine in subscription order.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]Handler
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: map[string]map[int]Handler{}}
}

// Subscribe registers h for event and returns an unsubscribe func.
func (b *Bus) Subscribe(event string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[event] == nil {
		b.subs[event] = map[int]Handler{}
	}
	id := b.next
	b.next++
	b.subs[event][id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[event], id)
	}
}

// Publish delivers payload to every subscriber of event.
func (b *Bus) Publish(event string, payload any) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[event]))
	for _, h := range b.subs[event] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}
