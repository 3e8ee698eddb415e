package domain

import (
	"fmt"
	"strings"
	"time"
)

// TicketInventory holds the counters for one (event, ticket type) pair.
// Version is the optimistic-concurrency token: a writer must persist a new
// snapshot conditioned on the version it loaded.
type TicketInventory struct {
	EventID    EventID
	TicketType string
	Total      int
	Available  int
	Reserved   int
	Sold       int
	Price      Money
	Version    int64
	UpdatedAt  time.Time
}

func NewTicketInventory(eventID EventID, ticketType string, total int, price Money, now time.Time) (TicketInventory, error) {
	if eventID == "" {
		return TicketInventory{}, invalidArgument("event id must not be blank")
	}

	if strings.TrimSpace(ticketType) == "" {
		return TicketInventory{}, invalidArgument("ticket type must not be blank")
	}

	if total <= 0 {
		return TicketInventory{}, invalidArgument("total quantity must be positive, got %d", total)
	}

	return TicketInventory{
		EventID:    eventID,
		TicketType: ticketType,
		Total:      total,
		Available:  total,
		Price:      price,
		UpdatedAt:  now,
	}, nil
}

func (inv TicketInventory) Key() string {
	return fmt.Sprintf("%s/%s", inv.EventID, inv.TicketType)
}

func (inv TicketInventory) IsAvailable(qty int) bool {
	return qty > 0 && inv.Available >= qty
}

func (inv TicketInventory) Reserve(qty int, now time.Time) (TicketInventory, error) {
	if qty <= 0 {
		return TicketInventory{}, invalidArgument("quantity must be positive, got %d", qty)
	}

	if inv.Available < qty {
		return TicketInventory{}, &InsufficientInventoryError{
			EventID:    inv.EventID,
			TicketType: inv.TicketType,
			Requested:  qty,
			Available:  inv.Available,
		}
	}

	inv.Available -= qty
	inv.Reserved += qty
	return inv.bump(now), nil
}

func (inv TicketInventory) ConfirmReservation(qty int, now time.Time) (TicketInventory, error) {
	if qty <= 0 {
		return TicketInventory{}, invalidArgument("quantity must be positive, got %d", qty)
	}

	if inv.Reserved < qty {
		return TicketInventory{}, fmt.Errorf("%w: inventory %s has %d reserved, cannot confirm %d",
			ErrInvalidState, inv.Key(), inv.Reserved, qty)
	}

	inv.Reserved -= qty
	inv.Sold += qty
	return inv.bump(now), nil
}

func (inv TicketInventory) ReleaseReservation(qty int, now time.Time) (TicketInventory, error) {
	if qty <= 0 {
		return TicketInventory{}, invalidArgument("quantity must be positive, got %d", qty)
	}

	if inv.Reserved < qty {
		return TicketInventory{}, fmt.Errorf("%w: inventory %s has %d reserved, cannot release %d",
			ErrInvalidState, inv.Key(), inv.Reserved, qty)
	}

	inv.Reserved -= qty
	inv.Available += qty
	return inv.bump(now), nil
}

// Conserved reports whether available + reserved + sold == total.
func (inv TicketInventory) Conserved() bool {
	return inv.Available+inv.Reserved+inv.Sold == inv.Total &&
		inv.Available >= 0 && inv.Reserved >= 0 && inv.Sold >= 0
}

func (inv TicketInventory) bump(now time.Time) TicketInventory {
	inv.Version++
	inv.UpdatedAt = now
	return inv
}
