package domain

import (
	"fmt"
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationReleased  ReservationStatus = "RELEASED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)

// TicketReservation is a time-boxed hold of inventory quantity for one order.
// Whether it is still usable is computed from ExpiresAt at the time of use,
// independently of the stored status.
type TicketReservation struct {
	ID         ReservationID
	OrderID    OrderID
	EventID    EventID
	TicketType string
	Quantity   int
	Status     ReservationStatus
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

func NewReservation(orderID OrderID, eventID EventID, ticketType string, qty int, timeout time.Duration, now time.Time) (TicketReservation, error) {
	if orderID == "" || eventID == "" {
		return TicketReservation{}, invalidArgument("order id and event id are required")
	}

	if strings.TrimSpace(ticketType) == "" {
		return TicketReservation{}, invalidArgument("ticket type must not be blank")
	}

	if qty <= 0 {
		return TicketReservation{}, invalidArgument("quantity must be positive, got %d", qty)
	}

	if timeout <= 0 {
		return TicketReservation{}, invalidArgument("reservation timeout must be positive, got %s", timeout)
	}

	return TicketReservation{
		ID:         NewReservationID(),
		OrderID:    orderID,
		EventID:    eventID,
		TicketType: ticketType,
		Quantity:   qty,
		Status:     ReservationActive,
		ExpiresAt:  now.Add(timeout),
		CreatedAt:  now,
	}, nil
}

func (r TicketReservation) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// IsUsable is true while the reservation is ACTIVE and its deadline has not
// passed, even if the sweep has not flipped the stored status yet.
func (r TicketReservation) IsUsable(now time.Time) bool {
	return r.Status == ReservationActive && !r.IsExpired(now)
}

func (r TicketReservation) Confirm(now time.Time) (TicketReservation, error) {
	if r.Status != ReservationActive {
		return TicketReservation{}, r.transitionError(ReservationConfirmed)
	}

	if r.IsExpired(now) {
		return TicketReservation{}, fmt.Errorf("%w: reservation %s expired at %s", ErrReservationExpired, r.ID, r.ExpiresAt.Format(time.RFC3339))
	}

	r.Status = ReservationConfirmed
	return r, nil
}

func (r TicketReservation) Release() (TicketReservation, error) {
	if r.Status == ReservationConfirmed {
		return TicketReservation{}, r.transitionError(ReservationReleased)
	}

	r.Status = ReservationReleased
	return r, nil
}

func (r TicketReservation) Expire() (TicketReservation, error) {
	if r.Status != ReservationActive {
		return TicketReservation{}, r.transitionError(ReservationExpired)
	}

	r.Status = ReservationExpired
	return r, nil
}

func (r TicketReservation) transitionError(to ReservationStatus) error {
	return newTransitionError("reservation", string(r.ID), string(r.Status), string(to))
}
