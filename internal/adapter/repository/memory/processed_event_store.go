package memory

import (
	"context"
	"sync"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

type ProcessedEventStore struct {
	mu   sync.Mutex
	seen map[domain.OrderID]struct{}
}

func NewProcessedEventStore() *ProcessedEventStore {
	return &ProcessedEventStore{seen: make(map[domain.OrderID]struct{})}
}

func (s *ProcessedEventStore) MarkProcessed(ctx context.Context, orderID domain.OrderID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[orderID]; ok {
		return false, nil
	}

	s.seen[orderID] = struct{}{}
	return true, nil
}

func (s *ProcessedEventStore) Forget(ctx context.Context, orderID domain.OrderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.seen, orderID)
	return nil
}
