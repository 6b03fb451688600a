package calendar

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound = errors.New("calendar event not found")
	ErrInvalidEvent  = errors.New("invalid calendar event")
)

type Event struct {
	UID       uuid.UUID
	Summary   string
	StartTime time.Time
	EndTime   time.Time
	// Attendees holds normalized identifiers, see NormalizeAttendees.
	Attendees []string
}

// Overlaps reports whether the event shares any instant with [from, to).
func (e Event) Overlaps(from, to time.Time) bool {
	return e.StartTime.Before(to) && e.EndTime.After(from)
}

// NormalizeAttendees trims and lowercases identifiers, drops empty ones and
// returns them sorted without duplicates.
func NormalizeAttendees(attendees []string) []string {
	normalized := make([]string, 0, len(attendees))
	for _, attendee := range attendees {
		attendee = strings.ToLower(strings.TrimSpace(attendee))
		if attendee != "" {
			normalized = append(normalized, attendee)
		}
	}
	slices.Sort(normalized)
	return slices.Compact(normalized)
}
