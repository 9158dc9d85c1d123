package flow

import (
	"time"

	"github.com/arogyalabs/arogya/pkg/client"
	"github.com/arogyalabs/arogya/pkg/domain"
)

// DebounceInterval is the quiet period after the last keystroke before an
// availability lookup fires. The timer itself belongs to the UI layer; the
// checker only decides which timers and responses are still current.
const DebounceInterval = 500 * time.Millisecond

// UsernameChecker tracks availability lookups for the username field.
//
// Every edit issues a new generation, superseding anything in flight:
// a debounce timer or a lookup response is honored only if its generation
// is still the latest. Stale responses can therefore never overwrite the
// state of newer input, no matter how responses reorder on the wire.
type UsernameChecker struct {
	gen   uint64
	avail domain.Availability
}

// NewUsernameChecker returns a checker in the unknown state.
func NewUsernameChecker() *UsernameChecker {
	return &UsernameChecker{}
}

// Note records an edit to the username field. It returns the generation for
// this input and whether a lookup should be scheduled at all: inputs shorter
// than domain.MinUsernameLen never issue a request.
func (c *UsernameChecker) Note(value string) (gen uint64, eligible bool) {
	c.gen++
	if len(value) < domain.MinUsernameLen {
		c.avail = domain.Availability{Value: value}
		return c.gen, false
	}
	c.avail = domain.Availability{Value: value, Status: domain.AvailabilityChecking}
	return c.gen, true
}

// ShouldFire reports whether a debounce timer tagged with gen is still
// current. A newer keystroke cancels every older timer.
func (c *UsernameChecker) ShouldFire(gen uint64) bool {
	return gen == c.gen
}

// Apply folds a lookup result into state. It returns false, leaving state
// untouched, when the result belongs to a superseded generation.
func (c *UsernameChecker) Apply(gen uint64, resp *client.CheckUsernameResponse, err error) bool {
	if gen != c.gen {
		return false
	}
	switch {
	case err != nil:
		// Lookup failed: availability stays unresolved, which keeps the
		// submit gate closed.
		c.avail.Status = domain.AvailabilityUnknown
		c.avail.Message = err.Error()
	case resp.Success && resp.Available:
		c.avail.Status = domain.AvailabilityAvailable
		c.avail.Message = resp.Message
		c.avail.Suggestions = nil
	default:
		c.avail.Status = domain.AvailabilityTaken
		c.avail.Message = resp.Message
		c.avail.Suggestions = resp.Suggestions
	}
	return true
}

// Availability returns the state of the most recent lookup.
func (c *UsernameChecker) Availability() domain.Availability {
	return c.avail
}
