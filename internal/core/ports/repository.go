package ports

import (
	"context"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

// InventoryRepository persists ledger snapshots. Update must be a
// compare-and-swap on expectedVersion and report a stale version as
// domain.ErrConcurrentModification.
type InventoryRepository interface {
	Create(ctx context.Context, inv *domain.TicketInventory) error
	Get(ctx context.Context, eventID domain.EventID, ticketType string) (*domain.TicketInventory, error)
	ListByEvent(ctx context.Context, eventID domain.EventID) ([]domain.TicketInventory, error)
	Update(ctx context.Context, inv *domain.TicketInventory, expectedVersion int64) error
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Get(ctx context.Context, eventID domain.EventID) (*domain.Event, error)
	List(ctx context.Context, status domain.EventStatus) ([]domain.Event, error)
	Update(ctx context.Context, event *domain.Event, expectedVersion int64) error
}

type ReservationRepository interface {
	Save(ctx context.Context, r *domain.TicketReservation) error
	Get(ctx context.Context, id domain.ReservationID) (*domain.TicketReservation, error)
	GetByOrder(ctx context.Context, orderID domain.OrderID) (*domain.TicketReservation, error)
	ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.TicketReservation, error)
	// ListExpired returns ACTIVE reservations whose deadline is at or before asOf.
	ListExpired(ctx context.Context, asOf time.Time, limit int) ([]domain.TicketReservation, error)
	// UpdateStatus moves a reservation from one status to another only if it is
	// still in from; otherwise it returns domain.ErrConcurrentModification.
	UpdateStatus(ctx context.Context, id domain.ReservationID, from, to domain.ReservationStatus) error
	Delete(ctx context.Context, id domain.ReservationID) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, orderID domain.OrderID) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID domain.CustomerID) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	Update(ctx context.Context, order *domain.Order, expectedVersion int64) error
	Delete(ctx context.Context, orderID domain.OrderID) error
}

type TicketRepository interface {
	Save(ctx context.Context, ticket *domain.TicketItem) error
	SaveBatch(ctx context.Context, tickets []domain.TicketItem) error
	// TransitionBatch writes every change or none. A ticket that has left its
	// From status yields domain.ErrConcurrentModification.
	TransitionBatch(ctx context.Context, changes []domain.TicketChange) error
	Get(ctx context.Context, ticketID domain.TicketID) (*domain.TicketItem, error)
	ListByOrder(ctx context.Context, orderID domain.OrderID) ([]domain.TicketItem, error)
	ListByReservation(ctx context.Context, reservationID domain.ReservationID) ([]domain.TicketItem, error)
	OccupiedSeats(ctx context.Context, eventID domain.EventID, ticketType string) (map[string]struct{}, error)
	// AssignSeats applies the whole assignment atomically or not at all. A
	// ticket outside AllowedFrom yields domain.ErrInvalidStateTransition, a
	// label already used in scope yields domain.ErrSeatTaken.
	AssignSeats(ctx context.Context, assignment domain.SeatAssignment) ([]domain.TicketItem, error)
	Delete(ctx context.Context, ticketID domain.TicketID) error
}

type AuditRepository interface {
	Append(ctx context.Context, audit *domain.TicketStateTransitionAudit) error
	ListByTicket(ctx context.Context, ticketID domain.TicketID) ([]domain.TicketStateTransitionAudit, error)
	ListByTimeRange(ctx context.Context, from, to time.Time) ([]domain.TicketStateTransitionAudit, error)
	ListFailed(ctx context.Context) ([]domain.TicketStateTransitionAudit, error)
}

type CustomerInfoRepository interface {
	Save(ctx context.Context, info *domain.CustomerInfo) error
	GetByOrder(ctx context.Context, orderID domain.OrderID) (*domain.CustomerInfo, error)
}
