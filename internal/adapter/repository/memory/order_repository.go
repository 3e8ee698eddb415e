package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

// OrderRepository stores the order header only; tickets live in
// TicketRepository, as they do in the SQL schema.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[domain.OrderID]domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[domain.OrderID]domain.Order)}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("%w: order %s already exists", domain.ErrInvalidArgument, order.ID)
	}

	r.orders[order.ID] = order.WithTickets(nil)
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, orderID domain.OrderID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}

	return &order, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID domain.CustomerID) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.CustomerID == customerID }), nil
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.Status == status }), nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[order.ID]
	if !ok {
		return fmt.Errorf("order %s: %w", order.ID, domain.ErrNotFound)
	}

	if current.Version != expectedVersion {
		return domain.NewConcurrentModificationError("order", string(order.ID), expectedVersion)
	}

	r.orders[order.ID] = order.WithTickets(nil)
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, orderID domain.OrderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[orderID]; !ok {
		return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}

	delete(r.orders, orderID)
	return nil
}

func (r *OrderRepository) filter(keep func(domain.Order) bool) []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Order
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, o)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
