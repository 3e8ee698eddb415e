package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

type inventoryKey struct {
	eventID    domain.EventID
	ticketType string
}

type InventoryRepository struct {
	mu    sync.RWMutex
	items map[inventoryKey]domain.TicketInventory
}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{items: make(map[inventoryKey]domain.TicketInventory)}
}

func (r *InventoryRepository) Create(ctx context.Context, inv *domain.TicketInventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := inventoryKey{inv.EventID, inv.TicketType}
	if _, exists := r.items[key]; exists {
		return fmt.Errorf("%w: inventory %s already exists", domain.ErrInvalidArgument, inv.Key())
	}

	r.items[key] = *inv
	return nil
}

func (r *InventoryRepository) Get(ctx context.Context, eventID domain.EventID, ticketType string) (*domain.TicketInventory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.items[inventoryKey{eventID, ticketType}]
	if !ok {
		return nil, fmt.Errorf("inventory %s/%s: %w", eventID, ticketType, domain.ErrNotFound)
	}

	return &inv, nil
}

func (r *InventoryRepository) ListByEvent(ctx context.Context, eventID domain.EventID) ([]domain.TicketInventory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.TicketInventory
	for key, inv := range r.items {
		if key.eventID == eventID {
			out = append(out, inv)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TicketType < out[j].TicketType })
	return out, nil
}

func (r *InventoryRepository) Update(ctx context.Context, inv *domain.TicketInventory, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := inventoryKey{inv.EventID, inv.TicketType}
	current, ok := r.items[key]
	if !ok {
		return fmt.Errorf("inventory %s: %w", inv.Key(), domain.ErrNotFound)
	}

	if current.Version != expectedVersion {
		return domain.NewConcurrentModificationError("inventory", inv.Key(), expectedVersion)
	}

	r.items[key] = *inv
	return nil
}
