package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/ports"
	"github.com/srgjo27/ticket_inventory/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ledgerOp func(inv domain.TicketInventory, now time.Time) (domain.TicketInventory, error)

type eventOp func(ev domain.Event, now time.Time) (domain.Event, error)

// InventoryService owns every write to the per-type ledgers. Event-level
// counters are a projection of the ledgers and are kept in step on a best
// effort basis after each committed ledger write.
type InventoryService struct {
	inventoryRepo ports.InventoryRepository
	eventRepo     ports.EventRepository
	cache         ports.AvailabilityCache
	clock         ports.Clock
	retry         RetryPolicy
	logger        *zap.Logger
	tracer        trace.Tracer
}

// NewInventoryService accepts a nil cache, in which case reads go straight to
// the repository.
func NewInventoryService(
	inventoryRepo ports.InventoryRepository,
	eventRepo ports.EventRepository,
	cache ports.AvailabilityCache,
	clock ports.Clock,
	retry RetryPolicy,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		eventRepo:     eventRepo,
		cache:         cache,
		clock:         clock,
		retry:         retry,
		logger:        logger,
		tracer:        otel.Tracer("services/inventory"),
	}
}

func (s *InventoryService) Provision(ctx context.Context, eventID domain.EventID, ticketType string, total int, price domain.Money) (*domain.TicketInventory, error) {
	inv, err := domain.NewTicketInventory(eventID, ticketType, total, price, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.Create(ctx, &inv); err != nil {
		return nil, fmt.Errorf("create inventory %s: %w", inv.Key(), err)
	}

	return &inv, nil
}

// Availability serves from the cache when possible. Cache errors degrade to a
// repository read.
func (s *InventoryService) Availability(ctx context.Context, eventID domain.EventID, ticketType string) (*domain.TicketInventory, error) {
	if s.cache != nil {
		inv, ok, err := s.cache.Get(ctx, eventID, ticketType)
		if err != nil {
			logger.Warn(ctx, s.logger, "availability cache read failed",
				zap.String("event_id", string(eventID)), zap.String("ticket_type", ticketType), zap.Error(err))
		} else if ok {
			return inv, nil
		}
	}

	inv, err := s.inventoryRepo.Get(ctx, eventID, ticketType)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, inv); err != nil {
			logger.Warn(ctx, s.logger, "availability cache write failed", zap.String("key", inv.Key()), zap.Error(err))
		}
	}

	return inv, nil
}

func (s *InventoryService) ListByEvent(ctx context.Context, eventID domain.EventID) ([]domain.TicketInventory, error) {
	return s.inventoryRepo.ListByEvent(ctx, eventID)
}

// Reserve moves qty units from available to reserved. Sales are refused for
// events that are not ACTIVE or SOLD_OUT.
func (s *InventoryService) Reserve(ctx context.Context, eventID domain.EventID, ticketType string, qty int) (*domain.TicketInventory, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Reserve")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", string(eventID)),
		attribute.String("ticket_type", ticketType),
		attribute.Int("quantity", qty),
	)

	event, err := s.eventRepo.Get(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if event.Status != domain.EventActive && event.Status != domain.EventSoldOut {
		return nil, fmt.Errorf("%w: event %s is %s", domain.ErrInvalidState, eventID, event.Status)
	}

	inv, err := s.mutate(ctx, eventID, ticketType, func(inv domain.TicketInventory, now time.Time) (domain.TicketInventory, error) {
		return inv.Reserve(qty, now)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.syncEvent(ctx, eventID, "reserve", func(ev domain.Event, now time.Time) (domain.Event, error) {
		return ev.Reserve(qty, now)
	})

	return inv, nil
}

func (s *InventoryService) Confirm(ctx context.Context, eventID domain.EventID, ticketType string, qty int) (*domain.TicketInventory, error) {
	inv, err := s.mutate(ctx, eventID, ticketType, func(inv domain.TicketInventory, now time.Time) (domain.TicketInventory, error) {
		return inv.ConfirmReservation(qty, now)
	})
	if err != nil {
		return nil, err
	}

	s.syncEvent(ctx, eventID, "confirm", func(ev domain.Event, now time.Time) (domain.Event, error) {
		return ev.ConfirmReservation(qty, now)
	})

	return inv, nil
}

func (s *InventoryService) Release(ctx context.Context, eventID domain.EventID, ticketType string, qty int) (*domain.TicketInventory, error) {
	inv, err := s.mutate(ctx, eventID, ticketType, func(inv domain.TicketInventory, now time.Time) (domain.TicketInventory, error) {
		return inv.ReleaseReservation(qty, now)
	})
	if err != nil {
		return nil, err
	}

	s.syncEvent(ctx, eventID, "release", func(ev domain.Event, now time.Time) (domain.Event, error) {
		return ev.ReleaseReservation(qty, now)
	})

	return inv, nil
}

func (s *InventoryService) mutate(ctx context.Context, eventID domain.EventID, ticketType string, op ledgerOp) (*domain.TicketInventory, error) {
	var committed domain.TicketInventory

	err := retryOnConflict(ctx, s.retry, "inventory", func() error {
		current, err := s.inventoryRepo.Get(ctx, eventID, ticketType)
		if err != nil {
			return err
		}

		next, err := op(*current, s.clock.Now())
		if err != nil {
			return err
		}

		if err := s.inventoryRepo.Update(ctx, &next, current.Version); err != nil {
			return err
		}

		committed = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, eventID, ticketType)
	return &committed, nil
}

func (s *InventoryService) syncEvent(ctx context.Context, eventID domain.EventID, action string, op eventOp) {
	err := retryOnConflict(ctx, s.retry, "event", func() error {
		current, err := s.eventRepo.Get(ctx, eventID)
		if err != nil {
			return err
		}

		next, err := op(*current, s.clock.Now())
		if err != nil {
			return err
		}

		return s.eventRepo.Update(ctx, &next, current.Version)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, s.logger, "event counters out of step with inventory",
			zap.String("event_id", string(eventID)),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func (s *InventoryService) invalidate(ctx context.Context, eventID domain.EventID, ticketType string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Invalidate(ctx, eventID, ticketType); err != nil {
		logger.Warn(ctx, s.logger, "availability cache invalidation failed",
			zap.String("event_id", string(eventID)), zap.String("ticket_type", ticketType), zap.Error(err))
	}
}
