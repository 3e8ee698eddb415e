package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

type CustomerInfoRepository struct {
	mu    sync.RWMutex
	infos map[domain.OrderID]domain.CustomerInfo
}

func NewCustomerInfoRepository() *CustomerInfoRepository {
	return &CustomerInfoRepository{infos: make(map[domain.OrderID]domain.CustomerInfo)}
}

// Save upserts by order id, keeping the original CreatedAt.
func (r *CustomerInfoRepository) Save(ctx context.Context, info *domain.CustomerInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *info
	if existing, ok := r.infos[info.OrderID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}

	r.infos[info.OrderID] = stored
	return nil
}

func (r *CustomerInfoRepository) GetByOrder(ctx context.Context, orderID domain.OrderID) (*domain.CustomerInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.infos[orderID]
	if !ok {
		return nil, fmt.Errorf("customer info for order %s: %w", orderID, domain.ErrNotFound)
	}

	return &info, nil
}
