package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

// TicketRepository serializes seat assignment behind its write lock, which
// makes AssignSeats atomic with respect to every other writer.
type TicketRepository struct {
	mu      sync.RWMutex
	tickets map[domain.TicketID]domain.TicketItem
}

func NewTicketRepository() *TicketRepository {
	return &TicketRepository{tickets: make(map[domain.TicketID]domain.TicketItem)}
}

func (r *TicketRepository) Save(ctx context.Context, ticket *domain.TicketItem) error {
	return r.SaveBatch(ctx, []domain.TicketItem{*ticket})
}

func (r *TicketRepository) SaveBatch(ctx context.Context, tickets []domain.TicketItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range tickets {
		if t.Seat() == "" {
			continue
		}

		if owner, taken := r.seatOwner(t.EventID, t.TicketType, t.Seat()); taken && owner != t.ID {
			return fmt.Errorf("%w: %s/%s seat %s", domain.ErrSeatTaken, t.EventID, t.TicketType, t.Seat())
		}
	}

	for _, t := range tickets {
		r.tickets[t.ID] = t
	}

	return nil
}

func (r *TicketRepository) TransitionBatch(ctx context.Context, changes []domain.TicketChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range changes {
		stored, ok := r.tickets[c.Next.ID]
		if !ok {
			return fmt.Errorf("ticket %s: %w", c.Next.ID, domain.ErrNotFound)
		}

		if stored.Status != c.From {
			return fmt.Errorf("%w: ticket %s is %s, expected %s", domain.ErrConcurrentModification, c.Next.ID, stored.Status, c.From)
		}

		if seat := c.Next.Seat(); seat != "" {
			if owner, taken := r.seatOwner(c.Next.EventID, c.Next.TicketType, seat); taken && owner != c.Next.ID {
				return fmt.Errorf("%w: %s/%s seat %s", domain.ErrSeatTaken, c.Next.EventID, c.Next.TicketType, seat)
			}
		}
	}

	for _, c := range changes {
		r.tickets[c.Next.ID] = c.Next
	}

	return nil
}

func (r *TicketRepository) Get(ctx context.Context, ticketID domain.TicketID) (*domain.TicketItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", ticketID, domain.ErrNotFound)
	}

	return &t, nil
}

func (r *TicketRepository) ListByOrder(ctx context.Context, orderID domain.OrderID) ([]domain.TicketItem, error) {
	return r.filter(func(t domain.TicketItem) bool { return t.OrderID != nil && *t.OrderID == orderID }), nil
}

func (r *TicketRepository) ListByReservation(ctx context.Context, reservationID domain.ReservationID) ([]domain.TicketItem, error) {
	return r.filter(func(t domain.TicketItem) bool {
		return t.ReservationID != nil && *t.ReservationID == reservationID
	}), nil
}

func (r *TicketRepository) OccupiedSeats(ctx context.Context, eventID domain.EventID, ticketType string) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	occupied := make(map[string]struct{})
	for _, t := range r.tickets {
		if t.EventID == eventID && t.TicketType == ticketType && t.Seat() != "" {
			occupied[t.Seat()] = struct{}{}
		}
	}

	return occupied, nil
}

func (r *TicketRepository) AssignSeats(ctx context.Context, assignment domain.SeatAssignment) ([]domain.TicketItem, error) {
	if err := assignment.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := make([]domain.TicketItem, len(assignment.Tickets))
	for i, t := range assignment.Tickets {
		stored, ok := r.tickets[t.ID]
		if !ok {
			return nil, fmt.Errorf("ticket %s: %w", t.ID, domain.ErrNotFound)
		}

		current[i] = stored
	}

	for _, label := range assignment.Labels {
		if _, taken := r.seatOwner(assignment.EventID, assignment.TicketType, label); taken {
			return nil, fmt.Errorf("%w: %s/%s seat %s", domain.ErrSeatTaken, assignment.EventID, assignment.TicketType, label)
		}
	}

	updated, err := assignment.Apply(current)
	if err != nil {
		return nil, err
	}

	for _, t := range updated {
		r.tickets[t.ID] = t
	}

	return updated, nil
}

func (r *TicketRepository) Delete(ctx context.Context, ticketID domain.TicketID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tickets[ticketID]; !ok {
		return fmt.Errorf("ticket %s: %w", ticketID, domain.ErrNotFound)
	}

	delete(r.tickets, ticketID)
	return nil
}

// seatOwner must be called with mu held.
func (r *TicketRepository) seatOwner(eventID domain.EventID, ticketType, label string) (domain.TicketID, bool) {
	for id, t := range r.tickets {
		if t.EventID == eventID && t.TicketType == ticketType && t.Seat() == label {
			return id, true
		}
	}

	return "", false
}

func (r *TicketRepository) filter(keep func(domain.TicketItem) bool) []domain.TicketItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.TicketItem
	for _, t := range r.tickets {
		if keep(t) {
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
