package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) AddEvent(ctx context.Context, event Event) (Event, error) {
	event, err := prepareEvent(event)
	if err != nil {
		return Event{}, err
	}

	uid, err := s.repo.StoreEvent(ctx, event)
	if err != nil {
		return Event{}, fmt.Errorf("failed to store event: %w", err)
	}
	event.UID = uid

	log.Debugf("Stored calendar event %s (%s - %s)", uid, event.StartTime, event.EndTime)
	return event, nil
}

// AddEvents stores all events or none of them.
func (s *Service) AddEvents(ctx context.Context, events []Event) ([]Event, error) {
	prepared := make([]Event, 0, len(events))
	for _, event := range events {
		event, err := prepareEvent(event)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, event)
	}

	stored := make([]Event, 0, len(prepared))
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		for _, event := range prepared {
			uid, err := repo.StoreEvent(ctx, event)
			if err != nil {
				return fmt.Errorf("failed to store event: %w", err)
			}
			event.UID = uid
			stored = append(stored, event)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to perform transaction: %w", err)
	}

	log.Debugf("Stored %d calendar events", len(stored))
	return stored, nil
}

func (s *Service) GetEvents(ctx context.Context, from, to time.Time, attendees []string) ([]Event, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidEvent)
	}
	return s.repo.GetEvents(ctx, from, to, NormalizeAttendees(attendees))
}

func (s *Service) DeleteEvent(ctx context.Context, eventUid uuid.UUID) error {
	return s.repo.DeleteEvent(ctx, eventUid)
}

// BusyEvents returns the stored events in [from, to) shared with any of the attendees.
func (s *Service) BusyEvents(ctx context.Context, attendees []string, from, to time.Time) ([]Event, error) {
	attendees = NormalizeAttendees(attendees)
	if len(attendees) == 0 {
		return []Event{}, nil
	}
	events, err := s.repo.GetEvents(ctx, from, to, attendees)
	if err != nil {
		return nil, fmt.Errorf("failed to get busy events: %w", err)
	}
	log.Tracef("Found %d stored busy events for %v", len(events), attendees)
	return events, nil
}

func prepareEvent(event Event) (Event, error) {
	if event.StartTime.IsZero() || event.EndTime.IsZero() {
		return Event{}, fmt.Errorf("%w: start and end are required", ErrInvalidEvent)
	}
	if event.EndTime.Before(event.StartTime) {
		return Event{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidEvent,
			event.EndTime.Format(time.RFC3339), event.StartTime.Format(time.RFC3339))
	}
	event.Attendees = NormalizeAttendees(event.Attendees)
	return event, nil
}
