// Package clock normalizes time handling for the scheduling engine. All
// instants are stored in UTC; the practice itself operates in a single
// fixed civil timezone, and business rules that reason about "today" or
// "past vs future" use the local calendar date in that zone rather than
// raw UTC instants.
package clock

import "time"

// Clock converts between UTC storage time and the practice's civil
// timezone. The zero value is not usable; construct with New.
//
// nowFn is an injection seam for tests.
type Clock struct {
	loc   *time.Location
	nowFn func() time.Time
}

// New returns a Clock for the named IANA timezone ("America/New_York").
// It returns an error when the zone cannot be loaded.
func New(tz string) (*Clock, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	return &Clock{loc: loc, nowFn: time.Now}, nil
}

// NewFixed returns a Clock pinned to a constant instant, for tests.
func NewFixed(tz string, at time.Time) (*Clock, error) {
	c, err := New(tz)
	if err != nil {
		return nil, err
	}
	c.nowFn = func() time.Time { return at }
	return c, nil
}

// Location returns the practice's civil timezone.
func (c *Clock) Location() *time.Location { return c.loc }

// Now returns the current instant in UTC.
func (c *Clock) Now() time.Time { return c.nowFn().UTC() }

// ToUTC normalizes t to UTC for storage.
func (c *Clock) ToUTC(t time.Time) time.Time { return t.UTC() }

// LocalDate returns the practice-local calendar date of t.
func (c *Clock) LocalDate(t time.Time) (year int, month time.Month, day int) {
	return t.In(c.loc).Date()
}

// StartOfLocalDay returns the UTC instant at which t's practice-local
// calendar day begins.
func (c *Clock) StartOfLocalDay(t time.Time) time.Time {
	y, m, d := c.LocalDate(t)
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc).UTC()
}

// IsPast reports whether t falls on a practice-local calendar date before
// today's. An appointment later today is not "past" even if its instant has
// already elapsed; cutoffs in this practice are whole local days.
func (c *Clock) IsPast(t time.Time) bool {
	return c.StartOfLocalDay(t).Before(c.StartOfLocalDay(c.Now()))
}
