// Package schedule implements the recurrence planner: pure, side-effect-free
// expansion of a recurrence definition into concrete (start, end) time-slot
// pairs. It owns no storage and performs no I/O, which keeps it trivially
// testable and reusable by the lifecycle service.
package schedule

import (
	"errors"
	"strings"
	"time"
)

// Pattern identifies the fixed stride between successive occurrences of a
// recurring appointment.
type Pattern string

// Recognized recurrence patterns.
const (
	Daily    Pattern = "daily"
	Weekly   Pattern = "weekly"
	Biweekly Pattern = "biweekly"
	Monthly  Pattern = "monthly"
)

// Planner errors.
var (
	// ErrInvalidPattern is returned when a pattern string is not one of
	// daily, weekly, biweekly, monthly.
	ErrInvalidPattern = errors.New("invalid recurrence pattern")

	// ErrInvalidRange is returned when an end time precedes its start time.
	ErrInvalidRange = errors.New("end time before start time")
)

// ParsePattern returns the Pattern for s (case-insensitive) or
// ErrInvalidPattern when s is not recognized.
func ParsePattern(s string) (Pattern, error) {
	switch Pattern(strings.ToLower(strings.TrimSpace(s))) {
	case Daily:
		return Daily, nil
	case Weekly:
		return Weekly, nil
	case Biweekly:
		return Biweekly, nil
	case Monthly:
		return Monthly, nil
	}
	return "", ErrInvalidPattern
}

// Valid reports whether p is one of the recognized patterns.
func (p Pattern) Valid() bool {
	switch p {
	case Daily, Weekly, Biweekly, Monthly:
		return true
	}
	return false
}

// Stride returns the fixed offset between successive occurrences.
//
// Monthly is a fixed 30-day stride, not calendar-month arithmetic. This is
// a known simplification preserved on purpose: it is observable behavior
// baked into existing appointment data, and "fixing" it to calendar months
// would shift every occurrence after the first in stored series.
func (p Pattern) Stride() time.Duration {
	switch p {
	case Daily:
		return 24 * time.Hour
	case Weekly:
		return 7 * 24 * time.Hour
	case Biweekly:
		return 14 * 24 * time.Hour
	case Monthly:
		return 30 * 24 * time.Hour
	}
	return 0
}
