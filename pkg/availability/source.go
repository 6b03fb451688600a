package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/klokku/meetingfinder/pkg/calendar"
	"golang.org/x/sync/errgroup"
)

// Source reports the events that make any of the attendees busy in [from, to).
type Source interface {
	BusyEvents(ctx context.Context, attendees []string, from, to time.Time) ([]calendar.Event, error)
}

// MultiSource queries every source concurrently and concatenates their events.
// It fails when any source fails, since a partial answer would offer slots
// that are actually taken.
type MultiSource []Source

func (m MultiSource) BusyEvents(ctx context.Context, attendees []string, from, to time.Time) ([]calendar.Event, error) {
	results := make([][]calendar.Event, len(m))
	g, ctx := errgroup.WithContext(ctx)
	for i, source := range m {
		g.Go(func() error {
			events, err := source.BusyEvents(ctx, attendees, from, to)
			if err != nil {
				return fmt.Errorf("busy source %d: %w", i, err)
			}
			results[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, events := range results {
		total += len(events)
	}
	all := make([]calendar.Event, 0, total)
	for _, events := range results {
		all = append(all, events...)
	}
	return all, nil
}
