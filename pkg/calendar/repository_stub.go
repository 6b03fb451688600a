package calendar

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type RepositoryStub struct {
	mu             sync.RWMutex
	items          map[uuid.UUID]Event
	transactionErr error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		items: make(map[uuid.UUID]Event),
	}
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	originalItems := maps.Clone(r.items)
	injected := r.transactionErr
	r.transactionErr = nil
	r.mu.Unlock()

	err := fn(r)
	if err == nil {
		err = injected
	}

	if err != nil {
		r.mu.Lock()
		r.items = originalItems
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *RepositoryStub) StoreEvent(ctx context.Context, event Event) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.UID == uuid.Nil {
		event.UID = uuid.New()
	}
	r.items[event.UID] = event
	return event.UID, nil
}

func (r *RepositoryStub) GetEvents(ctx context.Context, from, to time.Time, attendees []string) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Event, 0, len(r.items))
	for _, event := range r.items {
		if !event.Overlaps(from, to) {
			continue
		}
		if len(attendees) > 0 && !slices.ContainsFunc(event.Attendees, func(a string) bool {
			return slices.Contains(attendees, a)
		}) {
			continue
		}
		result = append(result, event)
	}

	slices.SortFunc(result, func(a, b Event) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return a.EndTime.Compare(b.EndTime)
	})
	return result, nil
}

func (r *RepositoryStub) DeleteEvent(ctx context.Context, eventUid uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[eventUid]; !exists {
		return ErrEventNotFound
	}
	delete(r.items, eventUid)
	return nil
}

// SetTransactionError makes the next transaction roll back with err
func (r *RepositoryStub) SetTransactionError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactionErr = err
}

// GetAllEvents returns every stored event, useful for test assertions
func (r *RepositoryStub) GetAllEvents() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Collect(maps.Values(r.items))
}
