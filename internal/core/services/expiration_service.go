package services

import (
	"context"
	"errors"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/ports"
	"github.com/srgjo27/ticket_inventory/internal/platform/logger"
	"github.com/srgjo27/ticket_inventory/internal/platform/metrics"
	"go.uber.org/zap"
)

const (
	DefaultSweepInterval  = time.Minute
	defaultSweepBatchSize = 100

	sweepActor = "system:expiration-sweep"
)

type ExpirationService struct {
	reservations ports.ReservationRepository
	orders       ports.OrderRepository
	inventory    *InventoryService
	lifecycle    *ticketLifecycle
	clock        ports.Clock
	retry        RetryPolicy
	interval     time.Duration
	batchSize    int
	logger       *zap.Logger
}

func NewExpirationService(
	repos OrderRepositories,
	inventory *InventoryService,
	clock ports.Clock,
	interval time.Duration,
	batchSize int,
	retry RetryPolicy,
	logger *zap.Logger,
) *ExpirationService {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}

	return &ExpirationService{
		reservations: repos.Reservations,
		orders:       repos.Orders,
		inventory:    inventory,
		lifecycle: &ticketLifecycle{
			tickets: repos.Tickets,
			audit:   repos.Audit,
			clock:   clock,
			retry:   retry,
			logger:  logger,
		},
		clock:     clock,
		retry:     retry,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (s *ExpirationService) RunBackgroundCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Info(ctx, s.logger, "expiration sweep started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, s.logger, "expiration sweep stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce releases every reservation whose deadline has passed while it was
// still ACTIVE and returns how many it released. Per-reservation failures are
// logged and counted; they never stop the pass.
func (s *ExpirationService) SweepOnce(ctx context.Context) int {
	start := time.Now()
	defer func() { metrics.ObserveSweep(time.Since(start)) }()

	now := s.clock.Now()
	released := 0

	for {
		batch, err := s.reservations.ListExpired(ctx, now, s.batchSize)
		if err != nil {
			metrics.SweepFailure()
			logger.Error(ctx, s.logger, "failed to list expired reservations", zap.Error(err))
			break
		}

		progressed := 0
		for _, r := range batch {
			ok, err := s.expire(ctx, r)
			if err != nil {
				metrics.SweepFailure()
				logger.Error(ctx, s.logger, "failed to expire reservation",
					zap.String("reservation_id", string(r.ID)),
					zap.String("order_id", string(r.OrderID)),
					zap.Error(err),
				)
				continue
			}

			if ok {
				released++
				progressed++
			}
		}

		if len(batch) < s.batchSize || progressed == 0 {
			break
		}
	}

	if released > 0 {
		metrics.ReservationsExpired(released)
		logger.Info(ctx, s.logger, "expired reservations released", zap.Int("count", released))
	}

	return released
}

// expire claims the reservation with a conditional ACTIVE -> EXPIRED write.
// Losing that race means another actor already handled it and is not an
// error. Returning the inventory is the last step; if the order step or the
// release fails the claim is reopened so the next pass picks the
// reservation up again. The order step is a no-op on that second pass.
func (s *ExpirationService) expire(ctx context.Context, r domain.TicketReservation) (bool, error) {
	if _, err := r.Expire(); err != nil {
		return false, err
	}

	if err := s.reservations.UpdateStatus(ctx, r.ID, domain.ReservationActive, domain.ReservationExpired); err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) {
			logger.Debug(ctx, s.logger, "reservation already handled", zap.String("reservation_id", string(r.ID)))
			return false, nil
		}
		return false, err
	}

	if err := s.expireOrder(ctx, r); err != nil {
		s.reopen(ctx, r)
		return false, err
	}

	if _, err := s.inventory.Release(ctx, r.EventID, r.TicketType, r.Quantity); err != nil {
		// A missing ledger has nothing to give back; retrying cannot help.
		if !errors.Is(err, domain.ErrNotFound) {
			s.reopen(ctx, r)
		}
		return false, err
	}

	return true, nil
}

func (s *ExpirationService) reopen(ctx context.Context, r domain.TicketReservation) {
	if err := s.reservations.UpdateStatus(ctx, r.ID, domain.ReservationExpired, domain.ReservationActive); err != nil {
		logger.Error(ctx, s.logger, "failed to reopen reservation for the next sweep",
			zap.String("reservation_id", string(r.ID)),
			zap.String("order_id", string(r.OrderID)),
			zap.Error(err),
		)
	}
}

// expireOrder moves a RESERVED order to EXPIRED and returns its reserved
// tickets to the pool. Orders that already moved on are left alone.
func (s *ExpirationService) expireOrder(ctx context.Context, r domain.TicketReservation) error {
	var status domain.OrderStatus

	err := retryOnConflict(ctx, s.retry, "order", func() error {
		current, err := s.orders.Get(ctx, r.OrderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}

		status = current.Status
		if current.Status != domain.OrderReserved {
			return nil
		}

		next, err := current.MarkAsExpired(s.clock.Now())
		if err != nil {
			return err
		}

		if err := s.orders.Update(ctx, &next, current.Version); err != nil {
			return err
		}

		metrics.OrderTransition(string(domain.OrderExpired))
		status = next.Status
		return nil
	})
	if err != nil {
		return err
	}

	if status != domain.OrderExpired {
		return nil
	}

	load := func(ctx context.Context) ([]domain.TicketItem, error) {
		return s.lifecycle.tickets.ListByReservation(ctx, r.ID)
	}

	_, err = s.lifecycle.advance(ctx, load, domain.TicketAvailable, sweepActor, "reservation expired",
		hasStatus(domain.TicketReserved))
	return err
}
