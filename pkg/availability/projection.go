package availability

import (
	"math"
	"time"

	"github.com/klokku/meetingfinder/pkg/calendar"
	"github.com/klokku/meetingfinder/pkg/meeting"
)

// day is the local calendar day a query is answered for.
type day struct {
	start time.Time
	end   time.Time
}

func newDay(date time.Time, loc *time.Location) day {
	y, m, d := date.Date()
	return day{
		start: time.Date(y, m, d, 0, 0, 0, 0, loc),
		end:   time.Date(y, m, d+1, 0, 0, 0, 0, loc),
	}
}

// minutes is the length of the day, 1380 or 1500 on DST transitions.
func (d day) minutes() int {
	return int(d.end.Sub(d.start) / time.Minute)
}

// minuteOf maps t onto the minutes elapsed since midnight clamped to the day.
// Starts round down and ends round up so partial minutes stay busy.
func (d day) minuteOf(t time.Time, roundUp bool) int {
	elapsed := t.Sub(d.start).Minutes()
	if roundUp {
		elapsed = math.Ceil(elapsed)
	} else {
		elapsed = math.Floor(elapsed)
	}
	return int(max(0, min(elapsed, float64(meeting.EndOfDay))))
}

func (d day) timeOf(minute int) time.Time {
	return d.start.Add(time.Duration(minute) * time.Minute)
}

// project converts the events to minute ranges of the day. Events outside the
// day or empty once clipped are dropped.
func (d day) project(events []calendar.Event) []meeting.Event {
	projected := make([]meeting.Event, 0, len(events))
	for _, event := range events {
		if !event.Overlaps(d.start, d.end) {
			continue
		}
		start := d.minuteOf(event.StartTime, false)
		end := d.minuteOf(event.EndTime, true)
		if end <= start {
			continue
		}
		projected = append(projected, meeting.Event{
			Title:     event.Summary,
			When:      meeting.FromStartEnd(start, end, false),
			Attendees: event.Attendees,
		})
	}
	return projected
}

// missingMinutes blocks the tail of a day shortened by a DST transition for
// all attendees, since those minutes belong to the next day.
func (d day) missingMinutes(attendees []string) (meeting.Event, bool) {
	length := d.minutes()
	if length >= meeting.EndOfDay {
		return meeting.Event{}, false
	}
	return meeting.Event{
		Title:     "Outside the day",
		When:      meeting.FromStartEnd(length, meeting.EndOfDay, false),
		Attendees: attendees,
	}, true
}
