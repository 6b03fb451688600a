// Package availability answers "when can these people meet" for a calendar
// day by feeding busy events from the configured sources to the meeting engine.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klokku/meetingfinder/internal/utils"
	"github.com/klokku/meetingfinder/pkg/calendar"
	"github.com/klokku/meetingfinder/pkg/meeting"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidQuery = errors.New("invalid availability query")

type Query struct {
	// Date picks the calendar day; its clock and location are ignored.
	// Zero means today in Location.
	Date time.Time
	// Location defaults to the service location when nil.
	Location  *time.Location
	Attendees []string
	// Duration of the meeting in minutes.
	Duration int
}

type Slot struct {
	Range meeting.TimeRange
	Start time.Time
	End   time.Time
}

type Service struct {
	source          Source
	clock           utils.Clock
	defaultLocation *time.Location
}

func NewService(source Source, clock utils.Clock, defaultLocation *time.Location) *Service {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}
	return &Service{
		source:          source,
		clock:           clock,
		defaultLocation: defaultLocation,
	}
}

// FindSlots returns the free slots of the query's day, in ascending order.
func (s *Service) FindSlots(ctx context.Context, query Query) ([]Slot, error) {
	if query.Duration < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative, got %d", ErrInvalidQuery, query.Duration)
	}

	loc := query.Location
	if loc == nil {
		loc = s.defaultLocation
	}
	date := query.Date
	if date.IsZero() {
		date = utils.Today(s.clock, loc)
	}
	d := newDay(date, loc)
	attendees := calendar.NormalizeAttendees(query.Attendees)

	var events []meeting.Event
	if len(attendees) > 0 {
		busy, err := s.source.BusyEvents(ctx, attendees, d.start, d.end)
		if err != nil {
			return nil, fmt.Errorf("failed to load busy events: %w", err)
		}
		events = d.project(busy)
		if tail, ok := d.missingMinutes(attendees); ok {
			events = append(events, tail)
		}
	}

	ranges := meeting.Query(events, meeting.Request{Attendees: attendees, Duration: query.Duration})
	slots := make([]Slot, 0, len(ranges))
	for _, r := range ranges {
		slots = append(slots, Slot{
			Range: r,
			Start: d.timeOf(r.Start()),
			End:   d.timeOf(r.End()),
		})
	}

	log.Debugf("Found %d slots of %d minutes on %s for %v", len(slots), query.Duration, d.start.Format(time.DateOnly), attendees)
	return slots, nil
}
