package domain

import (
	"fmt"
	"strings"
	"time"
)

type EventStatus string

const (
	EventDraft     EventStatus = "DRAFT"
	EventActive    EventStatus = "ACTIVE"
	EventSoldOut   EventStatus = "SOLD_OUT"
	EventCancelled EventStatus = "CANCELLED"
	EventCompleted EventStatus = "COMPLETED"
)

type Event struct {
	ID               EventID
	Name             string
	Description      string
	Venue            string
	EventDate        time.Time
	TotalCapacity    int
	AvailableTickets int
	ReservedTickets  int
	SoldTickets      int
	Status           EventStatus
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewEvent(name, description, venue string, date time.Time, capacity int, now time.Time) (Event, error) {
	if strings.TrimSpace(name) == "" {
		return Event{}, invalidArgument("event name must not be blank")
	}

	if strings.TrimSpace(venue) == "" {
		return Event{}, invalidArgument("venue must not be blank")
	}

	if capacity <= 0 {
		return Event{}, invalidArgument("capacity must be positive, got %d", capacity)
	}

	return Event{
		ID:               NewEventID(),
		Name:             name,
		Description:      description,
		Venue:            venue,
		EventDate:        date,
		TotalCapacity:    capacity,
		AvailableTickets: capacity,
		Status:           EventActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (e Event) IsOnSale() bool {
	return e.Status == EventActive
}

func (e Event) Reserve(qty int, now time.Time) (Event, error) {
	if qty <= 0 {
		return Event{}, invalidArgument("quantity must be positive, got %d", qty)
	}

	if !e.IsOnSale() {
		return Event{}, fmt.Errorf("%w: event %s is %s", ErrInvalidState, e.ID, e.Status)
	}

	if e.AvailableTickets < qty {
		return Event{}, &InsufficientInventoryError{EventID: e.ID, Requested: qty, Available: e.AvailableTickets}
	}

	e.AvailableTickets -= qty
	e.ReservedTickets += qty
	if e.AvailableTickets == 0 {
		e.Status = EventSoldOut
	}

	return e.bump(now), nil
}

func (e Event) ConfirmReservation(qty int, now time.Time) (Event, error) {
	if qty <= 0 {
		return Event{}, invalidArgument("quantity must be positive, got %d", qty)
	}

	if e.ReservedTickets < qty {
		return Event{}, fmt.Errorf("%w: event %s has %d reserved, cannot confirm %d", ErrInvalidState, e.ID, e.ReservedTickets, qty)
	}

	e.ReservedTickets -= qty
	e.SoldTickets += qty
	return e.bump(now), nil
}

func (e Event) ReleaseReservation(qty int, now time.Time) (Event, error) {
	if qty <= 0 {
		return Event{}, invalidArgument("quantity must be positive, got %d", qty)
	}

	if e.ReservedTickets < qty {
		return Event{}, fmt.Errorf("%w: event %s has %d reserved, cannot release %d", ErrInvalidState, e.ID, e.ReservedTickets, qty)
	}

	e.ReservedTickets -= qty
	e.AvailableTickets += qty
	if e.Status == EventSoldOut {
		e.Status = EventActive
	}

	return e.bump(now), nil
}

// Cancel is one-way: a cancelled event never returns to sale.
func (e Event) Cancel(now time.Time) (Event, error) {
	if e.Status == EventCancelled || e.Status == EventCompleted {
		return Event{}, newTransitionError("event", string(e.ID), string(e.Status), string(EventCancelled))
	}

	e.Status = EventCancelled
	return e.bump(now), nil
}

func (e Event) Complete(now time.Time) (Event, error) {
	if e.Status == EventCancelled || e.Status == EventCompleted {
		return Event{}, newTransitionError("event", string(e.ID), string(e.Status), string(EventCompleted))
	}

	e.Status = EventCompleted
	return e.bump(now), nil
}

func (e Event) Conserved() bool {
	return e.AvailableTickets+e.ReservedTickets+e.SoldTickets == e.TotalCapacity
}

func (e Event) bump(now time.Time) Event {
	e.Version++
	e.UpdatedAt = now
	return e
}
