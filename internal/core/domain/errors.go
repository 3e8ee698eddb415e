package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrInsufficientInventory  = errors.New("insufficient inventory")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrNotFound               = errors.New("not found")
	ErrReservationExpired     = errors.New("reservation expired")
	ErrSeatTaken              = errors.New("seat already taken")

	// ErrInvalidState is raised by ledger operations whose counters do not allow
	// the request. It is a state-transition failure for error classification.
	ErrInvalidState = fmt.Errorf("%w: invalid state", ErrInvalidStateTransition)
)

type StateTransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot transition from %s to %s", e.Entity, e.ID, e.From, e.To)
}

func (e *StateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

func newTransitionError(entity, id, from, to string) error {
	return &StateTransitionError{Entity: entity, ID: id, From: from, To: to}
}

type ConcurrentModificationError struct {
	Entity          string
	ID              string
	ExpectedVersion int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s %s: version %d is stale, reload and retry", e.Entity, e.ID, e.ExpectedVersion)
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}

func NewConcurrentModificationError(entity, id string, expected int64) error {
	return &ConcurrentModificationError{Entity: entity, ID: id, ExpectedVersion: expected}
}

type InsufficientInventoryError struct {
	EventID    EventID
	TicketType string
	Requested  int
	Available  int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for %s/%s: requested %d, available %d",
		e.EventID, e.TicketType, e.Requested, e.Available)
}

func (e *InsufficientInventoryError) Unwrap() error {
	return ErrInsufficientInventory
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
