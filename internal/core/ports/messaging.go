package ports

import (
	"context"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

// OrderEvent is the minimum field set a transport must carry for the
// asynchronous order processing step. Delivery is at-least-once.
type OrderEvent struct {
	OrderID    domain.OrderID    `json:"order_id"`
	EventID    domain.EventID    `json:"event_id"`
	CustomerID domain.CustomerID `json:"customer_id"`
	TicketType string            `json:"ticket_type"`
	Quantity   int               `json:"quantity"`
	Timestamp  time.Time         `json:"timestamp"`
}

type OrderEventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// ProcessedEventStore deduplicates redelivered order events. MarkProcessed
// returns true only the first time it sees orderID.
type ProcessedEventStore interface {
	MarkProcessed(ctx context.Context, orderID domain.OrderID) (bool, error)
	Forget(ctx context.Context, orderID domain.OrderID) error
}

type AvailabilityCache interface {
	Get(ctx context.Context, eventID domain.EventID, ticketType string) (*domain.TicketInventory, bool, error)
	Set(ctx context.Context, inv *domain.TicketInventory) error
	Invalidate(ctx context.Context, eventID domain.EventID, ticketType string) error
}

type Clock interface {
	Now() time.Time
}
