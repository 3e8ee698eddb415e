package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

type ReservationRepository struct {
	mu           sync.RWMutex
	reservations map[domain.ReservationID]domain.TicketReservation
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{reservations: make(map[domain.ReservationID]domain.TicketReservation)}
}

func (r *ReservationRepository) Save(ctx context.Context, res *domain.TicketReservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.reservations {
		if existing.OrderID == res.OrderID && id != res.ID {
			return fmt.Errorf("%w: order %s already has reservation %s", domain.ErrInvalidArgument, res.OrderID, id)
		}
	}

	r.reservations[res.ID] = *res
	return nil
}

func (r *ReservationRepository) Get(ctx context.Context, id domain.ReservationID) (*domain.TicketReservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", id, domain.ErrNotFound)
	}

	return &res, nil
}

func (r *ReservationRepository) GetByOrder(ctx context.Context, orderID domain.OrderID) (*domain.TicketReservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, res := range r.reservations {
		if res.OrderID == orderID {
			return &res, nil
		}
	}

	return nil, fmt.Errorf("reservation for order %s: %w", orderID, domain.ErrNotFound)
}

func (r *ReservationRepository) ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.TicketReservation, error) {
	return r.filter(func(res domain.TicketReservation) bool { return res.Status == status }, 0), nil
}

func (r *ReservationRepository) ListExpired(ctx context.Context, asOf time.Time, limit int) ([]domain.TicketReservation, error) {
	return r.filter(func(res domain.TicketReservation) bool {
		return res.Status == domain.ReservationActive && res.IsExpired(asOf)
	}, limit), nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id domain.ReservationID, from, to domain.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[id]
	if !ok {
		return fmt.Errorf("reservation %s: %w", id, domain.ErrNotFound)
	}

	if res.Status != from {
		return fmt.Errorf("%w: reservation %s is %s, expected %s", domain.ErrConcurrentModification, id, res.Status, from)
	}

	res.Status = to
	r.reservations[id] = res
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id domain.ReservationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reservations[id]; !ok {
		return fmt.Errorf("reservation %s: %w", id, domain.ErrNotFound)
	}

	delete(r.reservations, id)
	return nil
}

func (r *ReservationRepository) filter(keep func(domain.TicketReservation) bool, limit int) []domain.TicketReservation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.TicketReservation
	for _, res := range r.reservations {
		if keep(res) {
			out = append(out, res)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}
