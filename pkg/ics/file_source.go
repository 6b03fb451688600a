package ics

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/klokku/meetingfinder/pkg/calendar"
)

// FileSource reads busy events straight from iCalendar files, without a store.
// Floating and all-day times are resolved in the location of the queried day.
type FileSource struct {
	Paths []string
}

func (s FileSource) BusyEvents(_ context.Context, attendees []string, from, to time.Time) ([]calendar.Event, error) {
	attendees = calendar.NormalizeAttendees(attendees)
	busy := make([]calendar.Event, 0)
	for _, path := range s.Paths {
		events, err := parseFile(path, from, to)
		if err != nil {
			return nil, err
		}
		for _, event := range events {
			if slices.ContainsFunc(event.Attendees, func(a string) bool { return slices.Contains(attendees, a) }) {
				busy = append(busy, event)
			}
		}
	}
	return busy, nil
}

func parseFile(path string, from, to time.Time) ([]calendar.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer f.Close()

	events, err := Parse(f, from, to, from.Location())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}
