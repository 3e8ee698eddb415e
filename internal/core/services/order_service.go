package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/ports"
	"github.com/srgjo27/ticket_inventory/internal/platform/logger"
	"github.com/srgjo27/ticket_inventory/internal/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultReservationTimeout = 15 * time.Minute
	defaultSeatAttempts       = 3

	orderProcessorActor = "system:order-processor"
)

type CreateOrderRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	EventID    string `json:"event_id" validate:"required"`
	TicketType string `json:"ticket_type" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0,lte=50"`
}

type PaymentRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone"`
	AddressLine   string `json:"address_line"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// OrderRepositories groups the stores an OrderService writes to.
type OrderRepositories struct {
	Orders       ports.OrderRepository
	Tickets      ports.TicketRepository
	Reservations ports.ReservationRepository
	Customers    ports.CustomerInfoRepository
	Audit        ports.AuditRepository
	Events       ports.EventRepository
}

type OrderOption func(*OrderService)

func WithReservationTimeout(d time.Duration) OrderOption {
	return func(s *OrderService) {
		if d > 0 {
			s.reservationTimeout = d
		}
	}
}

func WithRetryPolicy(p RetryPolicy) OrderOption {
	return func(s *OrderService) {
		s.retry = p
	}
}

func WithSeatAttempts(n int) OrderOption {
	return func(s *OrderService) {
		if n > 0 {
			s.seatAttempts = n
		}
	}
}

func WithProcessedEventStore(store ports.ProcessedEventStore) OrderOption {
	return func(s *OrderService) {
		s.processed = store
	}
}

type OrderService struct {
	repos     OrderRepositories
	inventory *InventoryService
	publisher ports.OrderEventPublisher
	processed ports.ProcessedEventStore
	clock     ports.Clock
	lifecycle *ticketLifecycle
	logger    *zap.Logger
	tracer    trace.Tracer

	reservationTimeout time.Duration
	seatAttempts       int
	retry              RetryPolicy
}

// NewOrderService accepts a nil publisher, in which case order events are
// not emitted and ProcessOrderEvent must be driven by the caller.
func NewOrderService(
	repos OrderRepositories,
	inventory *InventoryService,
	publisher ports.OrderEventPublisher,
	clock ports.Clock,
	logger *zap.Logger,
	opts ...OrderOption,
) *OrderService {
	s := &OrderService{
		repos:     repos,
		inventory: inventory,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		tracer:    otel.Tracer("services/order"),
		lifecycle: &ticketLifecycle{
			tickets: repos.Tickets,
			audit:   repos.Audit,
			clock:   clock,
			logger:  logger,
		},
		reservationTimeout: DefaultReservationTimeout,
		seatAttempts:       defaultSeatAttempts,
		retry:              DefaultRetryPolicy(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.lifecycle.retry = s.retry
	return s
}

// CreateOrder reserves quantity units of one ticket type and returns the
// order in RESERVED status together with its tickets. The reservation
// deadline is now + the configured timeout.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	customerID, err := domain.ParseCustomerID(req.CustomerID)
	if err != nil {
		return nil, err
	}

	eventID, err := domain.ParseEventID(req.EventID)
	if err != nil {
		return nil, err
	}

	ticketType := strings.TrimSpace(req.TicketType)
	if ticketType == "" {
		return nil, fmt.Errorf("%w: ticket type is required", domain.ErrInvalidArgument)
	}

	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", domain.ErrInvalidArgument, req.Quantity)
	}

	span.SetAttributes(
		attribute.String("event_id", string(eventID)),
		attribute.String("ticket_type", ticketType),
		attribute.Int("quantity", req.Quantity),
	)

	event, err := s.repos.Events.Get(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	inv, err := s.inventory.Reserve(ctx, eventID, ticketType, req.Quantity)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	order, reservation, err := s.persistReservedOrder(ctx, customerID, event, inv, req.Quantity)
	if err != nil {
		span.RecordError(err)
		s.releaseInventory(ctx, eventID, ticketType, req.Quantity, "order creation failed")
		return nil, err
	}

	s.publish(ctx, ports.OrderEvent{
		OrderID:    order.ID,
		EventID:    eventID,
		CustomerID: customerID,
		TicketType: ticketType,
		Quantity:   req.Quantity,
		Timestamp:  order.CreatedAt,
	})

	metrics.OrderCreated(string(eventID))
	metrics.OrderTransition(string(order.Status))

	logger.Info(ctx, s.logger, "order reserved",
		zap.String("order_id", string(order.ID)),
		zap.String("order_number", order.OrderNumber),
		zap.String("reservation_id", string(reservation.ID)),
		zap.Time("expires_at", reservation.ExpiresAt),
	)

	return order, nil
}

func (s *OrderService) persistReservedOrder(
	ctx context.Context,
	customerID domain.CustomerID,
	event *domain.Event,
	inv *domain.TicketInventory,
	qty int,
) (*domain.Order, *domain.TicketReservation, error) {
	now := s.clock.Now()

	tickets := make([]domain.TicketItem, 0, qty)
	for i := 0; i < qty; i++ {
		t, err := domain.NewTicketItem(event.ID, inv.TicketType, inv.Price, now)
		if err != nil {
			return nil, nil, err
		}
		tickets = append(tickets, t)
	}

	order, err := domain.NewOrder(customerID, event.ID, event.Name, tickets, now)
	if err != nil {
		return nil, nil, err
	}

	reservation, err := domain.NewReservation(order.ID, event.ID, inv.TicketType, qty, s.reservationTimeout, now)
	if err != nil {
		return nil, nil, err
	}

	by := "customer:" + string(customerID)
	reserved := make([]domain.TicketItem, len(tickets))
	audits := make([]domain.TicketStateTransitionAudit, len(tickets))
	for i, t := range tickets {
		t = t.AssignTo(order.ID, reservation.ID)

		next, err := t.Reserve(by, now)
		if err != nil {
			return nil, nil, err
		}

		reserved[i] = next
		audits[i] = domain.NewTransitionAudit(t, domain.TicketReserved, by, "order created", now, nil)
	}

	order, err = order.WithTickets(reserved).Reserve(now)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repos.Orders.Create(ctx, &order); err != nil {
		return nil, nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.repos.Reservations.Save(ctx, &reservation); err != nil {
		s.discardOrder(ctx, order.ID, "")
		return nil, nil, fmt.Errorf("save reservation: %w", err)
	}

	if err := s.repos.Tickets.SaveBatch(ctx, reserved); err != nil {
		s.discardOrder(ctx, order.ID, reservation.ID)
		return nil, nil, fmt.Errorf("save tickets: %w", err)
	}

	s.lifecycle.record(ctx, audits)
	return &order, &reservation, nil
}

func (s *OrderService) discardOrder(ctx context.Context, orderID domain.OrderID, reservationID domain.ReservationID) {
	if reservationID != "" {
		if err := s.repos.Reservations.Delete(ctx, reservationID); err != nil {
			logger.Error(ctx, s.logger, "failed to discard reservation", zap.String("reservation_id", string(reservationID)), zap.Error(err))
		}
	}

	if err := s.repos.Orders.Delete(ctx, orderID); err != nil {
		logger.Error(ctx, s.logger, "failed to discard order", zap.String("order_id", string(orderID)), zap.Error(err))
	}
}

func (s *OrderService) publish(ctx context.Context, event ports.OrderEvent) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.PublishFailure()
		logger.Warn(ctx, s.logger, "failed to publish order event",
			zap.String("order_id", string(event.OrderID)),
			zap.Error(err),
		)
	}
}

// ProcessOrderEvent is the asynchronous step that moves a RESERVED order and
// its tickets to PENDING_CONFIRMATION. It is safe to call more than once for
// the same order.
func (s *OrderService) ProcessOrderEvent(ctx context.Context, event ports.OrderEvent) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.ProcessOrderEvent")
	defer span.End()

	span.SetAttributes(attribute.String("order_id", string(event.OrderID)))

	if s.processed != nil {
		first, err := s.processed.MarkProcessed(ctx, event.OrderID)
		switch {
		case err != nil:
			logger.Warn(ctx, s.logger, "processed-event store unavailable, processing anyway",
				zap.String("order_id", string(event.OrderID)), zap.Error(err))
		case !first:
			logger.Debug(ctx, s.logger, "duplicate order event ignored", zap.String("order_id", string(event.OrderID)))
			return nil
		}
	}

	if err := s.advanceToPending(ctx, event.OrderID); err != nil {
		span.RecordError(err)
		if s.processed != nil {
			if ferr := s.processed.Forget(ctx, event.OrderID); ferr != nil {
				logger.Warn(ctx, s.logger, "failed to forget order event", zap.String("order_id", string(event.OrderID)), zap.Error(ferr))
			}
		}
		return err
	}

	return nil
}

func (s *OrderService) advanceToPending(ctx context.Context, orderID domain.OrderID) error {
	var (
		order      domain.Order
		transition bool
	)

	err := retryOnConflict(ctx, s.retry, "order", func() error {
		transition = false

		current, err := s.repos.Orders.Get(ctx, orderID)
		if err != nil {
			return err
		}

		order = *current
		if current.Status != domain.OrderReserved {
			return nil
		}

		reservation, err := s.repos.Reservations.GetByOrder(ctx, orderID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		if !reservation.IsUsable(now) {
			return fmt.Errorf("%w: reservation %s of order %s is no longer usable", domain.ErrReservationExpired, reservation.ID, orderID)
		}

		next, err := current.Confirm(now)
		if err != nil {
			return err
		}

		if err := s.repos.Orders.Update(ctx, &next, current.Version); err != nil {
			return err
		}

		order = next
		transition = true
		return nil
	})
	if err != nil {
		return err
	}

	if order.Status != domain.OrderPendingConfirmation {
		logger.Debug(ctx, s.logger, "order event needs no processing",
			zap.String("order_id", string(orderID)), zap.String("status", string(order.Status)))
		return nil
	}

	if _, err := s.lifecycle.advance(ctx, s.orderTickets(orderID), domain.TicketPendingConfirmation, orderProcessorActor,
		"order event processed", hasStatus(domain.TicketReserved)); err != nil {
		return err
	}

	if transition {
		metrics.OrderTransition(string(order.Status))
		logger.Info(ctx, s.logger, "order pending confirmation", zap.String("order_id", string(orderID)))
	}

	return nil
}

// ConfirmPayment attaches payment and contact details to an order awaiting
// confirmation. Calling it again replaces the stored details.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID domain.OrderID, req PaymentRequest) (*domain.CustomerInfo, error) {
	order, err := s.repos.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderPendingConfirmation {
		return nil, fmt.Errorf("%w: order %s is %s, payment requires %s",
			domain.ErrInvalidStateTransition, orderID, order.Status, domain.OrderPendingConfirmation)
	}

	reservation, err := s.repos.Reservations.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !reservation.IsUsable(now) {
		return nil, fmt.Errorf("%w: reservation %s expired at %s",
			domain.ErrReservationExpired, reservation.ID, reservation.ExpiresAt.Format(time.RFC3339))
	}

	info := domain.CustomerInfo{
		CustomerID:    order.CustomerID,
		OrderID:       order.ID,
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		Phone:         req.Phone,
		AddressLine:   req.AddressLine,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := info.Validate(); err != nil {
		return nil, err
	}

	if err := s.repos.Customers.Save(ctx, &info); err != nil {
		return nil, fmt.Errorf("save customer info: %w", err)
	}

	logger.Info(ctx, s.logger, "payment details attached", zap.String("order_id", string(orderID)))
	return &info, nil
}

func (s *OrderService) MarkAsSold(ctx context.Context, orderID domain.OrderID, performedBy string) (*domain.Order, error) {
	return s.finalize(ctx, orderID, domain.TicketSold, performedBy, "payment confirmed")
}

func (s *OrderService) MarkAsComplimentary(ctx context.Context, orderID domain.OrderID, performedBy, reason string) (*domain.Order, error) {
	if strings.TrimSpace(reason) == "" {
		reason = "complimentary"
	}

	return s.finalize(ctx, orderID, domain.TicketComplimentary, performedBy, reason)
}

// finalize is the terminal step shared by sold and complimentary orders.
// The reservation is claimed first with a conditional status change, which
// is what arbitrates against the sweep and against cancellation.
func (s *OrderService) finalize(ctx context.Context, orderID domain.OrderID, target domain.TicketStatus, by, reason string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Finalize")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", string(orderID)),
		attribute.String("target", string(target)),
	)

	if strings.TrimSpace(by) == "" {
		return nil, fmt.Errorf("%w: performedBy is required", domain.ErrInvalidArgument)
	}

	orderTarget := domain.OrderSold
	if target == domain.TicketComplimentary {
		orderTarget = domain.OrderComplimentary
	}

	order, err := s.repos.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.CheckTransition(orderTarget); err != nil {
		return nil, err
	}

	tickets, err := s.repos.Tickets.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ticketType, err := singleTicketType(orderID, tickets)
	if err != nil {
		return nil, err
	}

	resumed, err := s.resumable(ctx, order, tickets, target)
	if err != nil {
		return nil, err
	}

	updated := tickets
	if resumed {
		logger.Info(ctx, s.logger, "seats already assigned, completing order",
			zap.String("order_id", string(orderID)), zap.String("target", string(target)))
	} else {
		claim, err := s.claimHold(ctx, order, ticketType, len(tickets))
		if err != nil {
			span.RecordError(err)
			return nil, err
		}

		updated, err = s.assignSeats(ctx, order, tickets, ticketType, target, by, reason)
		if err != nil {
			span.RecordError(err)
			s.returnHold(ctx, claim, order.EventID, ticketType, len(tickets))
			return nil, err
		}
	}

	final, err := s.updateOrder(ctx, orderID, func(o domain.Order, now time.Time) (domain.Order, error) {
		o = o.WithTickets(tickets)
		if target == domain.TicketSold {
			return o.MarkAsSold(updated, now)
		}
		return o.MarkAsComplimentary(updated, now)
	})
	if err != nil {
		logger.Error(ctx, s.logger, "seats assigned but order update failed",
			zap.String("order_id", string(orderID)), zap.Error(err))
		return nil, err
	}

	if _, err := s.inventory.Confirm(ctx, order.EventID, ticketType, len(tickets)); err != nil {
		logger.Error(ctx, s.logger, "order finalized but inventory confirm failed",
			zap.String("order_id", string(orderID)),
			zap.String("event_id", string(order.EventID)),
			zap.String("ticket_type", ticketType),
			zap.Error(err),
		)
	}

	metrics.OrderTransition(string(final.Status))
	logger.Info(ctx, s.logger, "order finalized",
		zap.String("order_id", string(orderID)),
		zap.String("status", string(final.Status)),
		zap.String("total", final.TotalAmount.String()),
	)

	final = final.WithTickets(updated)
	return &final, nil
}

// resumable reports whether an earlier finalize already claimed the hold and
// assigned every seat but stopped before the order itself was updated.
func (s *OrderService) resumable(ctx context.Context, order *domain.Order, tickets []domain.TicketItem, target domain.TicketStatus) (bool, error) {
	for _, t := range tickets {
		if t.Status != target {
			return false, nil
		}
	}

	reservation, err := s.repos.Reservations.GetByOrder(ctx, order.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return order.Status == domain.OrderAvailable, nil
		}
		return false, err
	}

	return reservation.Status == domain.ReservationConfirmed, nil
}

// hold records how finalize obtained its claim on inventory so that it can
// be undone if seat assignment fails.
type hold struct {
	reservationID domain.ReservationID
	freshReserve  bool
}

func (s *OrderService) claimHold(ctx context.Context, order *domain.Order, ticketType string, qty int) (hold, error) {
	reservation, err := s.repos.Reservations.GetByOrder(ctx, order.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && order.Status == domain.OrderAvailable {
			if _, err := s.inventory.Reserve(ctx, order.EventID, ticketType, qty); err != nil {
				return hold{}, err
			}
			return hold{freshReserve: true}, nil
		}
		return hold{}, err
	}

	if _, err := reservation.Confirm(s.clock.Now()); err != nil {
		return hold{}, err
	}

	if err := s.repos.Reservations.UpdateStatus(ctx, reservation.ID, domain.ReservationActive, domain.ReservationConfirmed); err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) {
			return hold{}, fmt.Errorf("%w: reservation %s was claimed concurrently", domain.ErrInvalidStateTransition, reservation.ID)
		}
		return hold{}, err
	}

	return hold{reservationID: reservation.ID}, nil
}

func (s *OrderService) returnHold(ctx context.Context, h hold, eventID domain.EventID, ticketType string, qty int) {
	if h.freshReserve {
		s.releaseInventory(ctx, eventID, ticketType, qty, "seat assignment failed")
		return
	}

	if err := s.repos.Reservations.UpdateStatus(ctx, h.reservationID, domain.ReservationConfirmed, domain.ReservationActive); err != nil {
		logger.Error(ctx, s.logger, "failed to reopen reservation after seat assignment failure",
			zap.String("reservation_id", string(h.reservationID)), zap.Error(err))
	}
}

func (s *OrderService) assignSeats(
	ctx context.Context,
	order *domain.Order,
	tickets []domain.TicketItem,
	ticketType string,
	target domain.TicketStatus,
	by, reason string,
) ([]domain.TicketItem, error) {
	inv, err := s.inventory.Availability(ctx, order.EventID, ticketType)
	if err != nil {
		return nil, err
	}

	pool := domain.SeatPool{TicketType: ticketType, Capacity: inv.Total}
	allowed := []domain.TicketStatus{domain.TicketPendingConfirmation}
	if target == domain.TicketComplimentary {
		allowed = []domain.TicketStatus{domain.TicketAvailable, domain.TicketReserved, domain.TicketPendingConfirmation}
	}

	var lastErr error
	for attempt := 1; attempt <= s.seatAttempts; attempt++ {
		occupied, err := s.repos.Tickets.OccupiedSeats(ctx, order.EventID, ticketType)
		if err != nil {
			return nil, err
		}

		labels, err := pool.Allocate(occupied, len(tickets))
		if err != nil {
			return nil, err
		}

		now := s.clock.Now()
		updated, err := s.repos.Tickets.AssignSeats(ctx, domain.SeatAssignment{
			EventID:     order.EventID,
			TicketType:  ticketType,
			Tickets:     tickets,
			Labels:      labels,
			Target:      target,
			AllowedFrom: allowed,
			PerformedBy: by,
			At:          now,
		})
		if err == nil {
			s.lifecycle.record(ctx, seatAudits(tickets, target, by, reason, now, nil))
			return updated, nil
		}

		if !errors.Is(err, domain.ErrSeatTaken) {
			s.lifecycle.record(ctx, seatAudits(tickets, target, by, reason, now, err))
			return nil, err
		}

		metrics.SeatConflict()
		lastErr = err
		logger.Warn(ctx, s.logger, "seat label taken, retrying assignment",
			zap.String("order_id", string(order.ID)),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	return nil, lastErr
}

func seatAudits(tickets []domain.TicketItem, to domain.TicketStatus, by, reason string, at time.Time, err error) []domain.TicketStateTransitionAudit {
	audits := make([]domain.TicketStateTransitionAudit, len(tickets))
	for i, t := range tickets {
		audits[i] = domain.NewTransitionAudit(t, to, by, reason, at, err)
	}

	return audits
}

// CancelOrder abandons an order that has not reached a terminal state. With
// paymentFailed the order ends FAILED instead of CANCELLED.
func (s *OrderService) CancelOrder(ctx context.Context, orderID domain.OrderID, performedBy string, paymentFailed bool) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CancelOrder")
	defer span.End()

	target := domain.OrderCancelled
	reason := "order cancelled"
	if paymentFailed {
		target = domain.OrderFailed
		reason = "payment failed"
	}

	order, err := s.repos.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.CheckTransition(target); err != nil {
		return nil, err
	}

	released, reservation, err := s.releaseHold(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	final, err := s.updateOrder(ctx, orderID, func(o domain.Order, now time.Time) (domain.Order, error) {
		if paymentFailed {
			return o.Fail(now)
		}
		return o.Cancel(now)
	})
	if err != nil {
		if released {
			if rerr := s.repos.Reservations.UpdateStatus(ctx, reservation.ID, domain.ReservationReleased, domain.ReservationActive); rerr != nil {
				logger.Error(ctx, s.logger, "failed to reopen reservation after cancel failure",
					zap.String("reservation_id", string(reservation.ID)), zap.Error(rerr))
			}
		}
		return nil, err
	}

	if released {
		s.releaseInventory(ctx, reservation.EventID, reservation.TicketType, reservation.Quantity, reason)
	}

	if _, err := s.lifecycle.advance(ctx, s.orderTickets(orderID), domain.TicketAvailable, performedBy, reason,
		hasStatus(domain.TicketReserved, domain.TicketPendingConfirmation)); err != nil {
		return nil, err
	}

	metrics.OrderTransition(string(final.Status))
	logger.Info(ctx, s.logger, "order cancelled",
		zap.String("order_id", string(orderID)),
		zap.String("status", string(final.Status)),
		zap.String("performed_by", performedBy),
	)

	return &final, nil
}

// releaseHold moves an ACTIVE reservation to RELEASED. It reports whether
// inventory still needs to be returned.
func (s *OrderService) releaseHold(ctx context.Context, orderID domain.OrderID) (bool, *domain.TicketReservation, error) {
	reservation, err := s.repos.Reservations.GetByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil, nil
		}
		return false, nil, err
	}

	if _, err := reservation.Release(); err != nil {
		return false, nil, err
	}

	if reservation.Status != domain.ReservationActive {
		return false, reservation, nil
	}

	if err := s.repos.Reservations.UpdateStatus(ctx, reservation.ID, domain.ReservationActive, domain.ReservationReleased); err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) {
			return false, nil, fmt.Errorf("%w: reservation %s changed concurrently", domain.ErrInvalidStateTransition, reservation.ID)
		}
		return false, nil, err
	}

	return true, reservation, nil
}

func (s *OrderService) orderTickets(orderID domain.OrderID) ticketLoader {
	return func(ctx context.Context) ([]domain.TicketItem, error) {
		return s.repos.Tickets.ListByOrder(ctx, orderID)
	}
}

func (s *OrderService) updateOrder(ctx context.Context, orderID domain.OrderID, apply func(domain.Order, time.Time) (domain.Order, error)) (domain.Order, error) {
	var updated domain.Order

	err := retryOnConflict(ctx, s.retry, "order", func() error {
		current, err := s.repos.Orders.Get(ctx, orderID)
		if err != nil {
			return err
		}

		next, err := apply(*current, s.clock.Now())
		if err != nil {
			return err
		}

		if err := s.repos.Orders.Update(ctx, &next, current.Version); err != nil {
			return err
		}

		updated = next
		return nil
	})

	return updated, err
}

func (s *OrderService) releaseInventory(ctx context.Context, eventID domain.EventID, ticketType string, qty int, reason string) {
	if _, err := s.inventory.Release(ctx, eventID, ticketType, qty); err != nil {
		logger.Error(ctx, s.logger, "failed to release inventory",
			zap.String("event_id", string(eventID)),
			zap.String("ticket_type", ticketType),
			zap.Int("quantity", qty),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
}

// GetOrder returns the order with its tickets loaded from the ticket store.
func (s *OrderService) GetOrder(ctx context.Context, orderID domain.OrderID) (*domain.Order, error) {
	order, err := s.repos.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	tickets, err := s.repos.Tickets.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	loaded := order.WithTickets(tickets)
	return &loaded, nil
}

func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID domain.CustomerID) ([]domain.Order, error) {
	return s.repos.Orders.ListByCustomer(ctx, customerID)
}

func (s *OrderService) GetReservation(ctx context.Context, orderID domain.OrderID) (*domain.TicketReservation, error) {
	return s.repos.Reservations.GetByOrder(ctx, orderID)
}

func (s *OrderService) TicketAudit(ctx context.Context, ticketID domain.TicketID) ([]domain.TicketStateTransitionAudit, error) {
	return s.repos.Audit.ListByTicket(ctx, ticketID)
}

func (s *OrderService) FailedTransitions(ctx context.Context) ([]domain.TicketStateTransitionAudit, error) {
	return s.repos.Audit.ListFailed(ctx)
}

func singleTicketType(orderID domain.OrderID, tickets []domain.TicketItem) (string, error) {
	if len(tickets) == 0 {
		return "", fmt.Errorf("%w: order %s has no tickets", domain.ErrInvalidArgument, orderID)
	}

	ticketType := tickets[0].TicketType
	for _, t := range tickets[1:] {
		if t.TicketType != ticketType {
			return "", fmt.Errorf("%w: order %s mixes ticket types %s and %s", domain.ErrInvalidArgument, orderID, ticketType, t.TicketType)
		}
	}

	return ticketType, nil
}
