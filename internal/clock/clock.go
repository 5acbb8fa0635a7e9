package clock

import "time"

// ZoneName is the canonical IANA time zone for all booking decisions.
// Opening hours, grid days, and quota cutoffs are evaluated in this zone.
const ZoneName = "America/Santiago"

// Clock supplies the current instant and the canonical zone.
type Clock interface {
	Now() time.Time
	Zone() *time.Location
}

// SystemClock reads the wall clock and pins results to the canonical zone.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock loads the canonical zone from the tz database.
func NewSystemClock() (*SystemClock, error) {
	loc, err := time.LoadLocation(ZoneName)
	if err != nil {
		return nil, err
	}
	return &SystemClock{loc: loc}, nil
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *SystemClock) Zone() *time.Location {
	return c.loc
}

// Fixed returns a clock frozen at the given instant, for tests.
func Fixed(t time.Time, loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return fixedClock{t: t.In(loc), loc: loc}
}

type fixedClock struct {
	t   time.Time
	loc *time.Location
}

func (c fixedClock) Now() time.Time       { return c.t }
func (c fixedClock) Zone() *time.Location { return c.loc }
