package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

// ProcessedEventStore records handled order events with SET NX so that a
// redelivered message is recognised across consumer restarts.
type ProcessedEventStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewProcessedEventStore(client redis.Cmdable, ttl time.Duration) *ProcessedEventStore {
	return &ProcessedEventStore{client: client, ttl: ttl}
}

func processedKey(orderID domain.OrderID) string {
	return fmt.Sprintf("order-event:processed:%s", orderID)
}

func (s *ProcessedEventStore) MarkProcessed(ctx context.Context, orderID domain.OrderID) (bool, error) {
	first, err := s.client.SetNX(ctx, processedKey(orderID), "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark order event %s: %w", orderID, err)
	}

	return first, nil
}

func (s *ProcessedEventStore) Forget(ctx context.Context, orderID domain.OrderID) error {
	if err := s.client.Del(ctx, processedKey(orderID)).Err(); err != nil {
		return fmt.Errorf("failed to forget order event %s: %w", orderID, err)
	}

	return nil
}
