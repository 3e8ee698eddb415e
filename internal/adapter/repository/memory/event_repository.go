package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

type EventRepository struct {
	mu     sync.RWMutex
	events map[domain.EventID]domain.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{events: make(map[domain.EventID]domain.Event)}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.events[event.ID]; exists {
		return fmt.Errorf("%w: event %s already exists", domain.ErrInvalidArgument, event.ID)
	}

	r.events[event.ID] = *event
	return nil
}

func (r *EventRepository) Get(ctx context.Context, eventID domain.EventID) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}

	return &event, nil
}

// List returns all events when status is empty.
func (r *EventRepository) List(ctx context.Context, status domain.EventStatus) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Event
	for _, event := range r.events {
		if status == "" || event.Status == status {
			out = append(out, event)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	return out, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.events[event.ID]
	if !ok {
		return fmt.Errorf("event %s: %w", event.ID, domain.ErrNotFound)
	}

	if current.Version != expectedVersion {
		return domain.NewConcurrentModificationError("event", string(event.ID), expectedVersion)
	}

	r.events[event.ID] = *event
	return nil
}
