package domain

import (
	"strings"
	"time"
)

type TicketStatus string

const (
	TicketAvailable           TicketStatus = "AVAILABLE"
	TicketReserved            TicketStatus = "RESERVED"
	TicketPendingConfirmation TicketStatus = "PENDING_CONFIRMATION"
	TicketSold                TicketStatus = "SOLD"
	TicketComplimentary       TicketStatus = "COMPLIMENTARY"
)

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketAvailable:           {TicketReserved, TicketComplimentary},
	TicketReserved:            {TicketPendingConfirmation, TicketAvailable, TicketComplimentary},
	TicketPendingConfirmation: {TicketSold, TicketAvailable, TicketComplimentary},
	TicketSold:                nil,
	TicketComplimentary:       nil,
}

func (s TicketStatus) Valid() bool {
	_, ok := ticketTransitions[s]
	return ok
}

// IsFinal reports whether the status admits no outbound transitions.
func (s TicketStatus) IsFinal() bool {
	return s == TicketSold || s == TicketComplimentary
}

func (s TicketStatus) CanTransitionTo(to TicketStatus) bool {
	for _, next := range ticketTransitions[s] {
		if next == to {
			return true
		}
	}

	return false
}

func (s TicketStatus) requiresSeat() bool {
	return s.IsFinal()
}

// TicketItem is the atomic unit of sale. Values are never mutated in place;
// every transition returns a new TicketItem.
type TicketItem struct {
	ID              TicketID
	EventID         EventID
	OrderID         *OrderID
	ReservationID   *ReservationID
	TicketType      string
	SeatNumber      *string
	Price           Money
	Status          TicketStatus
	StatusChangedAt time.Time
	StatusChangedBy string
}

func NewTicketItem(eventID EventID, ticketType string, price Money, now time.Time) (TicketItem, error) {
	if eventID == "" {
		return TicketItem{}, invalidArgument("event id must not be blank")
	}

	if strings.TrimSpace(ticketType) == "" {
		return TicketItem{}, invalidArgument("ticket type must not be blank")
	}

	return TicketItem{
		ID:              NewTicketID(),
		EventID:         eventID,
		TicketType:      ticketType,
		Price:           price,
		Status:          TicketAvailable,
		StatusChangedAt: now,
		StatusChangedBy: "system",
	}, nil
}

func (t TicketItem) AssignTo(orderID OrderID, reservationID ReservationID) TicketItem {
	t.OrderID = &orderID
	t.ReservationID = &reservationID
	return t
}

func (t TicketItem) Reserve(by string, now time.Time) (TicketItem, error) {
	return t.transition(TicketReserved, nil, by, now)
}

func (t TicketItem) MarkPendingConfirmation(by string, now time.Time) (TicketItem, error) {
	return t.transition(TicketPendingConfirmation, nil, by, now)
}

// Release returns the ticket to AVAILABLE after an expired, cancelled or failed
// purchase. The order and reservation association is dropped.
func (t TicketItem) Release(by string, now time.Time) (TicketItem, error) {
	released, err := t.transition(TicketAvailable, nil, by, now)
	if err != nil {
		return TicketItem{}, err
	}

	released.OrderID = nil
	released.ReservationID = nil
	return released, nil
}

func (t TicketItem) MarkSold(seat, by string, now time.Time) (TicketItem, error) {
	return t.transition(TicketSold, &seat, by, now)
}

func (t TicketItem) MarkComplimentary(seat, by string, now time.Time) (TicketItem, error) {
	return t.transition(TicketComplimentary, &seat, by, now)
}

// TransitionTo dispatches to the typed transition for the target status.
func (t TicketItem) TransitionTo(to TicketStatus, seat, by string, now time.Time) (TicketItem, error) {
	switch to {
	case TicketReserved:
		return t.Reserve(by, now)
	case TicketPendingConfirmation:
		return t.MarkPendingConfirmation(by, now)
	case TicketAvailable:
		return t.Release(by, now)
	case TicketSold:
		return t.MarkSold(seat, by, now)
	case TicketComplimentary:
		return t.MarkComplimentary(seat, by, now)
	default:
		return TicketItem{}, invalidArgument("unknown ticket status %q", to)
	}
}

func (t TicketItem) transition(to TicketStatus, seat *string, by string, now time.Time) (TicketItem, error) {
	if !t.Status.CanTransitionTo(to) {
		return TicketItem{}, newTransitionError("ticket", string(t.ID), string(t.Status), string(to))
	}

	if to.requiresSeat() {
		if seat == nil || strings.TrimSpace(*seat) == "" {
			return TicketItem{}, invalidArgument("ticket %s: seat number is required for %s", t.ID, to)
		}

		label := strings.TrimSpace(*seat)
		t.SeatNumber = &label
	}

	t.Status = to
	t.StatusChangedAt = now
	t.StatusChangedBy = by
	return t, nil
}

func (t TicketItem) CountsAsRevenue() bool {
	return t.Status == TicketSold
}

// RevenueValue is the ticket's accounting value: its price when sold, zero
// otherwise.
func (t TicketItem) RevenueValue() Money {
	if !t.CountsAsRevenue() {
		return t.Price.zeroed()
	}

	return t.Price
}

func (t TicketItem) Seat() string {
	if t.SeatNumber == nil {
		return ""
	}

	return *t.SeatNumber
}

// TicketChange is a conditional ticket write: Next is stored only while the
// stored ticket is still in From.
type TicketChange struct {
	Next TicketItem
	From TicketStatus
}
