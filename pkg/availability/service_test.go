package availability

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/klokku/meetingfinder/internal/utils"
	"github.com/klokku/meetingfinder/pkg/calendar"
	"github.com/klokku/meetingfinder/pkg/meeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceFunc func(ctx context.Context, attendees []string, from, to time.Time) ([]calendar.Event, error)

func (f sourceFunc) BusyEvents(ctx context.Context, attendees []string, from, to time.Time) ([]calendar.Event, error) {
	return f(ctx, attendees, from, to)
}

func failingSource(t *testing.T) Source {
	return sourceFunc(func(context.Context, []string, time.Time, time.Time) ([]calendar.Event, error) {
		t.Fatal("source must not be called")
		return nil, nil
	})
}

func berlin(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return loc
}

func setupServiceTest(t *testing.T) (*Service, *calendar.Service, *utils.MockClock, context.Context) {
	calendarService := calendar.NewService(calendar.NewRepositoryStub())
	clock := &utils.MockClock{FixedNow: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	return NewService(calendarService, clock, berlin(t)), calendarService, clock, context.Background()
}

func addEvent(t *testing.T, ctx context.Context, service *calendar.Service, start, end time.Time, attendees ...string) {
	_, err := service.AddEvent(ctx, calendar.Event{Summary: "busy", StartTime: start, EndTime: end, Attendees: attendees})
	require.NoError(t, err)
}

func ranges(slots []Slot) []meeting.TimeRange {
	result := make([]meeting.TimeRange, 0, len(slots))
	for _, slot := range slots {
		result = append(result, slot.Range)
	}
	return result
}

func TestService_FindSlots(t *testing.T) {
	service, calendarService, _, ctx := setupServiceTest(t)
	loc := berlin(t)
	addEvent(t, ctx, calendarService, time.Date(2026, 3, 10, 9, 0, 0, 0, loc), time.Date(2026, 3, 10, 10, 0, 0, 0, loc), "alice")
	addEvent(t, ctx, calendarService, time.Date(2026, 3, 10, 9, 30, 0, 0, loc), time.Date(2026, 3, 10, 11, 0, 0, 0, loc), "bob")
	addEvent(t, ctx, calendarService, time.Date(2026, 3, 10, 14, 0, 0, 0, loc), time.Date(2026, 3, 10, 15, 0, 0, 0, loc), "carol")

	slots, err := service.FindSlots(ctx, Query{
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Attendees: []string{"Alice", "bob"},
		Duration:  30,
	})

	require.NoError(t, err)
	assert.Equal(t, []meeting.TimeRange{
		meeting.FromStartEnd(0, 540, false),
		meeting.FromStartEnd(660, 1440, true),
	}, ranges(slots))
	assert.True(t, slots[0].Start.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, loc)))
	assert.True(t, slots[0].End.Equal(time.Date(2026, 3, 10, 9, 0, 0, 0, loc)))
	assert.True(t, slots[1].Start.Equal(time.Date(2026, 3, 10, 11, 0, 0, 0, loc)))
	assert.True(t, slots[1].End.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, loc)))
}

func TestService_FindSlots_ClipsToTheDay(t *testing.T) {
	service, calendarService, _, ctx := setupServiceTest(t)
	loc := berlin(t)
	addEvent(t, ctx, calendarService, time.Date(2026, 3, 9, 23, 0, 0, 0, loc), time.Date(2026, 3, 10, 1, 0, 0, 0, loc), "alice")
	addEvent(t, ctx, calendarService, time.Date(2026, 3, 10, 23, 0, 0, 0, loc), time.Date(2026, 3, 11, 0, 0, 0, 0, loc), "alice")
	addEvent(t, ctx, calendarService, time.Date(2026, 3, 11, 8, 0, 0, 0, loc), time.Date(2026, 3, 11, 9, 0, 0, 0, loc), "alice")

	slots, err := service.FindSlots(ctx, Query{
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Attendees: []string{"alice"},
		Duration:  60,
	})

	require.NoError(t, err)
	assert.Equal(t, []meeting.TimeRange{meeting.FromStartEnd(60, 1380, false)}, ranges(slots))
}

func TestService_FindSlots_PartialMinutesStayBusy(t *testing.T) {
	service, calendarService, _, ctx := setupServiceTest(t)
	loc := berlin(t)
	addEvent(t, ctx, calendarService, time.Date(2026, 3, 10, 9, 0, 30, 0, loc), time.Date(2026, 3, 10, 9, 10, 10, 0, loc), "alice")

	slots, err := service.FindSlots(ctx, Query{
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Attendees: []string{"alice"},
	})

	require.NoError(t, err)
	assert.Equal(t, []meeting.TimeRange{
		meeting.FromStartEnd(0, 540, false),
		meeting.FromStartEnd(551, 1440, true),
	}, ranges(slots))
}

func TestService_FindSlots_DefaultsToTodayInLocation(t *testing.T) {
	service, calendarService, clock, ctx := setupServiceTest(t)
	loc := berlin(t)
	// 00:30 on March 11th in Berlin
	clock.SetNow(time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC))
	addEvent(t, ctx, calendarService, time.Date(2026, 3, 11, 10, 0, 0, 0, loc), time.Date(2026, 3, 11, 11, 0, 0, 0, loc), "alice")

	slots, err := service.FindSlots(ctx, Query{Attendees: []string{"alice"}, Duration: 30})

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Start.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, loc)))
	assert.Equal(t, 600, slots[0].Range.End())
}

func TestService_FindSlots_UsesQueryLocation(t *testing.T) {
	service, calendarService, _, ctx := setupServiceTest(t)
	addEvent(t, ctx, calendarService, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), "alice")

	slots, err := service.FindSlots(ctx, Query{
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Location:  time.UTC,
		Attendees: []string{"alice"},
		Duration:  30,
	})

	require.NoError(t, err)
	assert.Equal(t, []meeting.TimeRange{
		meeting.FromStartEnd(0, 540, false),
		meeting.FromStartEnd(600, 1440, true),
	}, ranges(slots))
}

func TestService_FindSlots_NoAttendees(t *testing.T) {
	service := NewService(failingSource(t), &utils.MockClock{}, time.UTC)

	slots, err := service.FindSlots(context.Background(), Query{Duration: 5000})

	require.NoError(t, err)
	assert.Equal(t, []meeting.TimeRange{meeting.WholeDay}, ranges(slots))
}

func TestService_FindSlots_NegativeDuration(t *testing.T) {
	service := NewService(failingSource(t), &utils.MockClock{}, time.UTC)

	_, err := service.FindSlots(context.Background(), Query{Attendees: []string{"alice"}, Duration: -1})

	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestService_FindSlots_SourceError(t *testing.T) {
	source := sourceFunc(func(context.Context, []string, time.Time, time.Time) ([]calendar.Event, error) {
		return nil, errors.New("calendar down")
	})
	service := NewService(source, &utils.MockClock{}, time.UTC)

	_, err := service.FindSlots(context.Background(), Query{Attendees: []string{"alice"}, Duration: 30})

	assert.ErrorContains(t, err, "calendar down")
}

func TestService_FindSlots_DaylightSavingTransitions(t *testing.T) {
	loc := berlin(t)
	source := sourceFunc(func(_ context.Context, _ []string, from, _ time.Time) ([]calendar.Event, error) {
		// 23:30 local time on the day of the query
		start := time.Date(from.Year(), from.Month(), from.Day(), 23, 30, 0, 0, loc)
		return []calendar.Event{{StartTime: start, EndTime: start.Add(15 * time.Minute), Attendees: []string{"alice"}}}, nil
	})
	service := NewService(source, &utils.MockClock{}, loc)

	t.Run("short day blocks the missing hour", func(t *testing.T) {
		slots, err := service.FindSlots(context.Background(), Query{
			Date:      time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC),
			Attendees: []string{"alice"},
			Duration:  30,
		})

		require.NoError(t, err)
		// 23:30 is 1350 minutes after midnight on a 23 hour day
		assert.Equal(t, []meeting.TimeRange{meeting.FromStartEnd(0, 1350, false)}, ranges(slots))
		assert.True(t, slots[0].End.Equal(time.Date(2026, 3, 29, 23, 30, 0, 0, loc)))
	})

	t.Run("long day is clipped", func(t *testing.T) {
		slots, err := service.FindSlots(context.Background(), Query{
			Date:      time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC),
			Attendees: []string{"alice"},
			Duration:  30,
		})

		require.NoError(t, err)
		assert.Equal(t, []meeting.TimeRange{meeting.WholeDay}, ranges(slots))
	})
}
