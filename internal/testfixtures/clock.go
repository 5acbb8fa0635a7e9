package testfixtures

import (
	"sync"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/clock"
)

// Clock provides a controllable time source for tests. It satisfies
// clock.Clock so services can be wired against it directly.
type Clock struct {
	mu      sync.Mutex
	current time.Time
	loc     *time.Location
}

// NewClock returns a clock initialised to the supplied time in the canonical
// zone. When start is the zero value, the shared ReferenceTime is used. If the
// tz database cannot supply the canonical zone, UTC is used instead.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	loc, err := time.LoadLocation(clock.ZoneName)
	if err != nil {
		loc = time.UTC
	}
	return &Clock{current: start.In(loc), loc: loc}
}

// Now returns the current instant tracked by the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Zone returns the location the clock reports instants in.
func (c *Clock) Zone() *time.Location {
	return c.loc
}

// Set updates the clock to the provided time.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t.In(c.loc)
	c.mu.Unlock()
}

// Advance moves the clock forward by the provided duration and returns the
// updated time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}
