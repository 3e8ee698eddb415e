package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

// inventorySnapshot is the cached wire form of a ledger row.
type inventorySnapshot struct {
	EventID    string    `json:"event_id"`
	TicketType string    `json:"ticket_type"`
	Total      int       `json:"total"`
	Available  int       `json:"available"`
	Reserved   int       `json:"reserved"`
	Sold       int       `json:"sold"`
	Price      string    `json:"price"`
	Currency   string    `json:"currency"`
	Version    int64     `json:"version"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AvailabilityCache is a read-through cache in front of the inventory
// ledger. Entries are invalidated on every ledger write and expire after ttl
// in any case, so a stale read is bounded.
type AvailabilityCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewAvailabilityCache(client redis.Cmdable, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func inventoryKey(eventID domain.EventID, ticketType string) string {
	return fmt.Sprintf("inventory:%s:%s", eventID, ticketType)
}

func (c *AvailabilityCache) Get(ctx context.Context, eventID domain.EventID, ticketType string) (*domain.TicketInventory, bool, error) {
	raw, err := c.client.Get(ctx, inventoryKey(eventID, ticketType)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to read availability cache: %w", err)
	}

	var snap inventorySnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, false, fmt.Errorf("corrupt availability cache entry: %w", err)
	}

	amount, err := decimal.NewFromString(snap.Price)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt availability cache price: %w", err)
	}

	price, err := domain.NewMoney(amount, snap.Currency)
	if err != nil {
		return nil, false, err
	}

	return &domain.TicketInventory{
		EventID:    domain.EventID(snap.EventID),
		TicketType: snap.TicketType,
		Total:      snap.Total,
		Available:  snap.Available,
		Reserved:   snap.Reserved,
		Sold:       snap.Sold,
		Price:      price,
		Version:    snap.Version,
		UpdatedAt:  snap.UpdatedAt,
	}, true, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, inv *domain.TicketInventory) error {
	data, err := json.Marshal(inventorySnapshot{
		EventID:    string(inv.EventID),
		TicketType: inv.TicketType,
		Total:      inv.Total,
		Available:  inv.Available,
		Reserved:   inv.Reserved,
		Sold:       inv.Sold,
		Price:      inv.Price.Amount().StringFixed(2),
		Currency:   inv.Price.Currency(),
		Version:    inv.Version,
		UpdatedAt:  inv.UpdatedAt,
	})
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, inventoryKey(inv.EventID, inv.TicketType), string(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write availability cache: %w", err)
	}

	return nil
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, eventID domain.EventID, ticketType string) error {
	if err := c.client.Del(ctx, inventoryKey(eventID, ticketType)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate availability cache: %w", err)
	}

	return nil
}
