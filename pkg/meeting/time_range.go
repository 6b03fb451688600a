package meeting

import (
	"cmp"
	"fmt"
)

const (
	// StartOfDay is the first minute of a day.
	StartOfDay = 0
	// EndOfDay is the boundary minute closing a day.
	EndOfDay = 24 * 60
)

// WholeDay covers every minute of the day, [0, 1440).
var WholeDay = FromStartEnd(StartOfDay, EndOfDay, false)

// TimeRange is an interval of minutes within a single day. The end is always the
// boundary minute; inclusive tells whether the boundary itself belongs to the range.
type TimeRange struct {
	start     int
	end       int
	inclusive bool
}

// FromStartEnd builds a range from its boundaries. Callers guarantee 0 <= start <= end <= EndOfDay.
func FromStartEnd(start, end int, inclusive bool) TimeRange {
	return TimeRange{start: start, end: end, inclusive: inclusive}
}

// FromStartDuration builds a half-open range of the given length.
func FromStartDuration(start, duration int) TimeRange {
	return TimeRange{start: start, end: start + duration}
}

func (r TimeRange) Start() int {
	return r.start
}

func (r TimeRange) End() int {
	return r.end
}

func (r TimeRange) Inclusive() bool {
	return r.inclusive
}

// Duration returns the length of the range in minutes.
func (r TimeRange) Duration() int {
	return r.end - r.start
}

// ContainsPoint reports whether the minute lies inside the range.
func (r TimeRange) ContainsPoint(minute int) bool {
	if minute < r.start {
		return false
	}
	return minute < r.end || (r.inclusive && minute == r.end)
}

// Contains reports whether other lies fully inside r. Shared boundaries count as
// inside unless other keeps a closed end that r leaves open.
func (r TimeRange) Contains(other TimeRange) bool {
	if other.Duration() <= 0 {
		return r.ContainsPoint(other.start)
	}
	if other.start < r.start {
		return false
	}
	if other.end < r.end {
		return true
	}
	return other.end == r.end && (r.inclusive || !other.inclusive)
}

// Overlaps reports whether both ranges share at least one point. Half-open
// ranges that only touch at a boundary do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.ContainsPoint(other.start) || other.ContainsPoint(r.start)
}

// Equal reports whether both ranges have the same boundaries and inclusivity.
func (r TimeRange) Equal(other TimeRange) bool {
	return r == other
}

// Compare orders ranges by start, then end, then open before closed.
func (r TimeRange) Compare(other TimeRange) int {
	if c := cmp.Compare(r.start, other.start); c != 0 {
		return c
	}
	if c := cmp.Compare(r.end, other.end); c != 0 {
		return c
	}
	switch {
	case r.inclusive == other.inclusive:
		return 0
	case r.inclusive:
		return 1
	default:
		return -1
	}
}

// String renders the range as e.g. "[600, 660)".
func (r TimeRange) String() string {
	closing := ")"
	if r.inclusive {
		closing = "]"
	}
	return fmt.Sprintf("[%d, %d%s", r.start, r.end, closing)
}

// merge returns the hull of both ranges, open at the end.
func merge(a, b TimeRange) TimeRange {
	return FromStartEnd(min(a.start, b.start), max(a.end, b.end), false)
}
