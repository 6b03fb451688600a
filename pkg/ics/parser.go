// Package ics imports iCalendar feeds into the calendar store.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/klokku/meetingfinder/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidCalendar = errors.New("invalid iCalendar data")

const (
	propTransparency  = "TRANSP"
	paramPartStat     = "PARTSTAT"
	statusCancelled   = "CANCELLED"
	transpTransparent = "TRANSPARENT"
	partStatDeclined  = "DECLINED"
)

// Parse decodes the VEVENTs of r that overlap [from, to). Recurring events
// yield one event per occurrence. Cancelled and transparent events are
// skipped since they never make anyone busy.
//
// Floating and all-day (VALUE=DATE) times are resolved in loc, or in the
// location of from when loc is nil.
func Parse(r io.Reader, from, to time.Time, loc *time.Location) ([]calendar.Event, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: window ends before it starts", ErrInvalidCalendar)
	}
	if loc == nil {
		loc = from.Location()
	}

	decoder := ical.NewDecoder(r)
	events := make([]calendar.Event, 0)
	for {
		cal, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCalendar, err)
		}

		for _, ev := range cal.Events() {
			if !blocksTime(ev) {
				log.Tracef("Skipping free or cancelled event %q", propValue(ev, ical.PropUID))
				continue
			}
			normalizeTimezones(ev.Component)

			occurrences, err := expand(ev, from, to, loc)
			if err != nil {
				log.Warnf("Skipping event %q: %v", propValue(ev, ical.PropUID), err)
				continue
			}
			events = append(events, occurrences...)
		}
	}

	log.Debugf("Decoded %d events between %s and %s", len(events), from.Format(time.RFC3339), to.Format(time.RFC3339))
	return events, nil
}

func expand(ev ical.Event, from, to time.Time, loc *time.Location) ([]calendar.Event, error) {
	start, err := ev.DateTimeStart(loc)
	if err != nil {
		return nil, fmt.Errorf("invalid DTSTART: %w", err)
	}
	if start.IsZero() {
		return nil, errors.New("missing DTSTART")
	}
	end, err := ev.DateTimeEnd(loc)
	if err != nil {
		return nil, fmt.Errorf("invalid DTEND: %w", err)
	}
	if end.Before(start) {
		end = start
	}

	base := calendar.Event{
		Summary:   propValue(ev, ical.PropSummary),
		Attendees: attendees(ev),
	}
	icsUID := propValue(ev, ical.PropUID)
	if icsUID == "" {
		icsUID = base.Summary
	}

	set, err := ev.RecurrenceSet(loc)
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence: %w", err)
	}
	if set == nil {
		occurrence := newOccurrence(base, icsUID, start, end)
		if !occurrence.Overlaps(from, to) {
			return nil, nil
		}
		return []calendar.Event{occurrence}, nil
	}

	duration := end.Sub(start)
	result := make([]calendar.Event, 0)
	// an occurrence starting up to one duration before the window still overlaps it
	for _, occurrenceStart := range set.Between(from.Add(-duration), to, true) {
		occurrence := newOccurrence(base, icsUID, occurrenceStart, occurrenceStart.Add(duration))
		if occurrence.Overlaps(from, to) {
			result = append(result, occurrence)
		}
	}
	return result, nil
}

// newOccurrence derives a stable uid so importing the same feed twice updates
// the stored events instead of duplicating them.
func newOccurrence(base calendar.Event, icsUID string, start, end time.Time) calendar.Event {
	name := icsUID + "/" + start.UTC().Format(time.RFC3339)
	base.UID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(name))
	base.StartTime = start
	base.EndTime = end
	return base
}

func blocksTime(ev ical.Event) bool {
	if strings.EqualFold(propValue(ev, ical.PropStatus), statusCancelled) {
		return false
	}
	return !strings.EqualFold(propValue(ev, propTransparency), transpTransparent)
}

// attendees collects the organizer and every attendee that has not declined.
func attendees(ev ical.Event) []string {
	props := ev.Props.Values(ical.PropOrganizer)
	props = append(props, ev.Props.Values(ical.PropAttendee)...)

	result := make([]string, 0, len(props))
	for _, prop := range props {
		if strings.EqualFold(prop.Params.Get(paramPartStat), partStatDeclined) {
			continue
		}
		result = append(result, address(prop.Value))
	}
	return calendar.NormalizeAttendees(result)
}

func address(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= len("mailto:") && strings.EqualFold(value[:len("mailto:")], "mailto:") {
		return value[len("mailto:"):]
	}
	return value
}

func propValue(ev ical.Event, name string) string {
	if prop := ev.Props.Get(name); prop != nil {
		return prop.Value
	}
	return ""
}
