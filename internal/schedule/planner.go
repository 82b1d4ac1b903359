package schedule

import "time"

// MaxOccurrences is the hard safety ceiling on the number of occurrences
// generated for a date-bounded series, regardless of how far away the end
// date is. Count-bounded generation is limited by the requested count only.
const MaxOccurrences = 365

// Slot is one concrete occurrence emitted by the planner. End is nil when
// the series template has no end time.
type Slot struct {
	Start time.Time
	End   *time.Time
}

// Stop is the planner stop condition. Exactly one bound governs generation:
// when EndDate is set it takes precedence (capped by MaxOccurrences);
// otherwise Count occurrences are emitted.
type Stop struct {
	EndDate *time.Time
	Count   int
}

// Plan expands a recurrence definition into concrete slots.
//
// The duration of every slot equals end−start of the template (no end when
// end is nil). Slots are emitted in strictly increasing start-time order,
// starting at start and advancing by the pattern's fixed stride.
//
// It returns ErrInvalidPattern for an unrecognized pattern and
// ErrInvalidRange when end precedes start. A Stop with neither bound set
// yields an empty plan.
func Plan(start time.Time, end *time.Time, pattern Pattern, stop Stop) ([]Slot, error) {
	if !pattern.Valid() {
		return nil, ErrInvalidPattern
	}

	var duration time.Duration
	if end != nil {
		duration = end.Sub(start)
		if duration < 0 {
			return nil, ErrInvalidRange
		}
	}

	stride := pattern.Stride()

	emit := func(current time.Time) Slot {
		s := Slot{Start: current}
		if end != nil {
			e := current.Add(duration)
			s.End = &e
		}
		return s
	}

	if stop.EndDate != nil {
		var slots []Slot
		for current := start; !current.After(*stop.EndDate) && len(slots) < MaxOccurrences; current = current.Add(stride) {
			slots = append(slots, emit(current))
		}
		return slots, nil
	}

	slots := make([]Slot, 0, stop.Count)
	current := start
	for i := 0; i < stop.Count; i++ {
		slots = append(slots, emit(current))
		current = current.Add(stride)
	}
	return slots, nil
}
