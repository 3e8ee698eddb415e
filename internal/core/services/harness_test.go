package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/adapter/repository/memory"
	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/ports"
	"github.com/srgjo27/ticket_inventory/internal/core/services"
	"github.com/srgjo27/ticket_inventory/internal/platform/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testRetry = services.RetryPolicy{MaxAttempts: 50, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}

type harness struct {
	clock       *clock.Manual
	inventories *memory.InventoryRepository
	events      *memory.EventRepository
	repos       services.OrderRepositories
	inventory   *services.InventoryService
	eventSvc    *services.EventService
	orders      *services.OrderService
	sweep       *services.ExpirationService

	// ledger is what InventoryService writes through; it defaults to
	// inventories and may be wrapped before the services are built.
	ledger ports.InventoryRepository
}

func newHarness(t *testing.T, publisher ports.OrderEventPublisher, opts ...services.OrderOption) *harness {
	t.Helper()

	return newHarnessWith(t, publisher, nil, opts...)
}

// newHarnessWith lets wrap replace stores before the services are wired.
func newHarnessWith(t *testing.T, publisher ports.OrderEventPublisher, wrap func(*harness), opts ...services.OrderOption) *harness {
	t.Helper()

	h := &harness{
		clock:       clock.NewManual(time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)),
		inventories: memory.NewInventoryRepository(),
		events:      memory.NewEventRepository(),
	}
	h.ledger = h.inventories

	h.repos = services.OrderRepositories{
		Orders:       memory.NewOrderRepository(),
		Tickets:      memory.NewTicketRepository(),
		Reservations: memory.NewReservationRepository(),
		Customers:    memory.NewCustomerInfoRepository(),
		Audit:        memory.NewAuditRepository(),
		Events:       h.events,
	}

	if wrap != nil {
		wrap(h)
	}

	log := zap.NewNop()
	h.inventory = services.NewInventoryService(h.ledger, h.events, nil, h.clock, testRetry, log)
	h.eventSvc = services.NewEventService(h.events, h.inventory, h.clock, testRetry, log)

	opts = append([]services.OrderOption{
		services.WithReservationTimeout(10 * time.Minute),
		services.WithRetryPolicy(testRetry),
	}, opts...)
	h.orders = services.NewOrderService(h.repos, h.inventory, publisher, h.clock, log, opts...)
	h.sweep = services.NewExpirationService(h.repos, h.inventory, h.clock, time.Minute, 10, testRetry, log)

	return h
}

func (h *harness) createEvent(t *testing.T, types ...services.TicketTypeRequest) domain.EventID {
	t.Helper()

	details, err := h.eventSvc.CreateEvent(context.Background(), services.CreateEventRequest{
		Name:        "Summer Festival",
		Venue:       "Main Park",
		EventDate:   h.clock.Now().Add(30 * 24 * time.Hour),
		TicketTypes: types,
	})
	require.NoError(t, err)

	return details.Event.ID
}

func ticketType(name string, qty int, price string) services.TicketTypeRequest {
	return services.TicketTypeRequest{Type: name, Quantity: qty, Price: price, Currency: "USD"}
}

func (h *harness) inventoryOf(t *testing.T, eventID domain.EventID, ticketType string) domain.TicketInventory {
	t.Helper()

	inv, err := h.inventories.Get(context.Background(), eventID, ticketType)
	require.NoError(t, err)
	return *inv
}

func (h *harness) createOrder(t *testing.T, eventID domain.EventID, ticketType string, qty int) *domain.Order {
	t.Helper()

	order, err := h.orders.CreateOrder(context.Background(), services.CreateOrderRequest{
		CustomerID: "cust-1",
		EventID:    string(eventID),
		TicketType: ticketType,
		Quantity:   qty,
	})
	require.NoError(t, err)
	return order
}

// pendingOrder drives an order through creation and the asynchronous step.
func (h *harness) pendingOrder(t *testing.T, eventID domain.EventID, ticketType string, qty int) *domain.Order {
	t.Helper()

	order := h.createOrder(t, eventID, ticketType, qty)
	require.NoError(t, h.orders.ProcessOrderEvent(context.Background(), ports.OrderEvent{OrderID: order.ID, EventID: eventID}))

	pending, err := h.orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderPendingConfirmation, pending.Status)
	return pending
}

func zapNop() *zap.Logger {
	return zap.NewNop()
}

var errConnReset = errors.New("read tcp 10.0.0.7:5432: connection reset by peer")

// flakyLedger fails the next failures inventory writes.
type flakyLedger struct {
	ports.InventoryRepository
	failures int
}

func (f *flakyLedger) Update(ctx context.Context, inv *domain.TicketInventory, expectedVersion int64) error {
	if f.failures > 0 {
		f.failures--
		return errConnReset
	}

	return f.InventoryRepository.Update(ctx, inv, expectedVersion)
}

// flakyOrders fails the next failures order writes.
type flakyOrders struct {
	ports.OrderRepository
	failures int
}

func (f *flakyOrders) Update(ctx context.Context, order *domain.Order, expectedVersion int64) error {
	if f.failures > 0 {
		f.failures--
		return errConnReset
	}

	return f.OrderRepository.Update(ctx, order, expectedVersion)
}

// interleavedTickets runs between once, right after the next ListByOrder has
// read its result and before the caller sees it.
type interleavedTickets struct {
	ports.TicketRepository
	between func()
}

func (i *interleavedTickets) ListByOrder(ctx context.Context, orderID domain.OrderID) ([]domain.TicketItem, error) {
	tickets, err := i.TicketRepository.ListByOrder(ctx, orderID)
	if fn := i.between; fn != nil {
		i.between = nil
		fn()
	}

	return tickets, err
}
