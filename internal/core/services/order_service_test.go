package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/ports"
	"github.com/srgjo27/ticket_inventory/internal/core/ports/mocks"
	"github.com/srgjo27/ticket_inventory/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validPayment() services.PaymentRequest {
	return services.PaymentRequest{
		Name:          "Ada Lovelace",
		Email:         "ada@example.com",
		PaymentMethod: "card",
	}
}

func TestCreateOrder_Success(t *testing.T) {
	publisher := mocks.NewOrderEventPublisher(t)
	h := newHarness(t, publisher)
	eventID := h.createEvent(t, ticketType("VIP", 10, "75.00"))

	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(ev ports.OrderEvent) bool {
		return ev.EventID == eventID && ev.TicketType == "VIP" && ev.Quantity == 2
	})).Return(nil).Once()

	order := h.createOrder(t, eventID, "VIP", 2)

	assert.Equal(t, domain.OrderReserved, order.Status)
	assert.Equal(t, "150.00 USD", order.TotalAmount.String())
	require.Len(t, order.Tickets, 2)
	for _, ticket := range order.Tickets {
		assert.Equal(t, domain.TicketReserved, ticket.Status)
	}

	inv := h.inventoryOf(t, eventID, "VIP")
	assert.Equal(t, 8, inv.Available)
	assert.Equal(t, 2, inv.Reserved)

	reservation, err := h.orders.GetReservation(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, h.clock.Now().Add(10*time.Minute), reservation.ExpiresAt)
	assert.Equal(t, domain.ReservationActive, reservation.Status)

	audit, err := h.orders.TicketAudit(context.Background(), order.Tickets[0].ID)
	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.Equal(t, domain.TicketAvailable, audit[0].FromStatus)
	assert.Equal(t, domain.TicketReserved, audit[0].ToStatus)
}

func TestCreateOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	publisher := mocks.NewOrderEventPublisher(t)
	h := newHarness(t, publisher)
	eventID := h.createEvent(t, ticketType("GA", 5, "10.00"))

	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker unavailable")).Once()

	order := h.createOrder(t, eventID, "GA", 1)

	assert.Equal(t, domain.OrderReserved, order.Status)
}

func TestCreateOrder_Fail_SoldOut(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 3, "10.00"))

	_, err := h.orders.CreateOrder(context.Background(), services.CreateOrderRequest{
		CustomerID: "cust-1",
		EventID:    string(eventID),
		TicketType: "GA",
		Quantity:   4,
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
	assert.Equal(t, 3, h.inventoryOf(t, eventID, "GA").Available)
}

func TestCreateOrder_Fail_InvalidInput(t *testing.T) {
	h := newHarness(t, nil)

	cases := []services.CreateOrderRequest{
		{CustomerID: "", EventID: "evt", TicketType: "GA", Quantity: 1},
		{CustomerID: "c", EventID: " ", TicketType: "GA", Quantity: 1},
		{CustomerID: "c", EventID: "evt", TicketType: "", Quantity: 1},
		{CustomerID: "c", EventID: "evt", TicketType: "GA", Quantity: 0},
	}

	for i, req := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			_, err := h.orders.CreateOrder(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestCreateOrder_CompensatesWhenPersistenceFails(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 5, "10.00"))

	orders := mocks.NewOrderRepository(t)
	orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	repos := h.repos
	repos.Orders = orders
	svc := services.NewOrderService(repos, h.inventory, nil, h.clock, zapNop(), services.WithRetryPolicy(testRetry))

	_, err := svc.CreateOrder(context.Background(), services.CreateOrderRequest{
		CustomerID: "cust-1", EventID: string(eventID), TicketType: "GA", Quantity: 2,
	})

	require.Error(t, err)
	inv := h.inventoryOf(t, eventID, "GA")
	assert.Equal(t, 5, inv.Available)
	assert.Equal(t, 0, inv.Reserved)
}

func TestProcessOrderEvent_IsIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 5, "10.00"))
	order := h.createOrder(t, eventID, "GA", 2)

	ev := ports.OrderEvent{OrderID: order.ID, EventID: eventID}
	require.NoError(t, h.orders.ProcessOrderEvent(context.Background(), ev))
	require.NoError(t, h.orders.ProcessOrderEvent(context.Background(), ev))

	got, err := h.orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPendingConfirmation, got.Status)
	assert.Equal(t, int64(2), got.Version, "second delivery must not bump the version")
	for _, ticket := range got.Tickets {
		assert.Equal(t, domain.TicketPendingConfirmation, ticket.Status)
	}
}

func TestProcessOrderEvent_SkipsDuplicatesViaStore(t *testing.T) {
	store := mocks.NewProcessedEventStore(t)
	h := newHarness(t, nil, services.WithProcessedEventStore(store))
	eventID := h.createEvent(t, ticketType("GA", 5, "10.00"))
	order := h.createOrder(t, eventID, "GA", 1)

	store.On("MarkProcessed", mock.Anything, order.ID).Return(false, nil).Once()

	require.NoError(t, h.orders.ProcessOrderEvent(context.Background(), ports.OrderEvent{OrderID: order.ID}))

	got, err := h.orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderReserved, got.Status)
}

func TestProcessOrderEvent_ExpiredReservationIsNotAdvanced(t *testing.T) {
	store := mocks.NewProcessedEventStore(t)
	h := newHarness(t, nil, services.WithProcessedEventStore(store))
	eventID := h.createEvent(t, ticketType("GA", 5, "10.00"))
	order := h.createOrder(t, eventID, "GA", 1)

	store.On("MarkProcessed", mock.Anything, order.ID).Return(true, nil).Once()
	store.On("Forget", mock.Anything, order.ID).Return(nil).Once()

	h.clock.Advance(10 * time.Minute)

	err := h.orders.ProcessOrderEvent(context.Background(), ports.OrderEvent{OrderID: order.ID})

	assert.ErrorIs(t, err, domain.ErrReservationExpired)
	got, _ := h.orders.GetOrder(context.Background(), order.ID)
	assert.Equal(t, domain.OrderReserved, got.Status)
}

func TestMarkAsSold_FullLifecycle(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("VIP", 10, "50.00"))
	order := h.pendingOrder(t, eventID, "VIP", 2)

	_, err := h.orders.ConfirmPayment(context.Background(), order.ID, validPayment())
	require.NoError(t, err)

	sold, err := h.orders.MarkAsSold(context.Background(), order.ID, "cashier-7")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderSold, sold.Status)
	assert.Equal(t, "100.00 USD", sold.TotalAmount.String())
	require.Len(t, sold.Tickets, 2)

	seats := map[string]bool{}
	for _, ticket := range sold.Tickets {
		assert.Equal(t, domain.TicketSold, ticket.Status)
		assert.NotEmpty(t, ticket.Seat())
		seats[ticket.Seat()] = true
	}
	assert.Len(t, seats, 2)

	inv := h.inventoryOf(t, eventID, "VIP")
	assert.Equal(t, 8, inv.Available)
	assert.Equal(t, 0, inv.Reserved)
	assert.Equal(t, 2, inv.Sold)

	reservation, err := h.orders.GetReservation(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, reservation.Status)

	_, err = h.orders.MarkAsSold(context.Background(), order.ID, "cashier-7")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestMarkAsSold_Fail_NotPending(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 10, "10.00"))
	order := h.createOrder(t, eventID, "GA", 1)

	_, err := h.orders.MarkAsSold(context.Background(), order.ID, "cashier")

	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Equal(t, 1, h.inventoryOf(t, eventID, "GA").Reserved)
}

func TestMarkAsSold_Fail_ReservationExpired(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 10, "10.00"))
	order := h.pendingOrder(t, eventID, "GA", 1)

	h.clock.Advance(11 * time.Minute)

	_, err := h.orders.MarkAsSold(context.Background(), order.ID, "cashier")

	assert.ErrorIs(t, err, domain.ErrReservationExpired)
	tickets, _ := h.repos.Tickets.ListByOrder(context.Background(), order.ID)
	for _, ticket := range tickets {
		assert.Empty(t, ticket.Seat())
	}
}

func TestMarkAsComplimentary_ZeroTotal(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 10, "50.00"))
	order := h.createOrder(t, eventID, "GA", 2)

	comp, err := h.orders.MarkAsComplimentary(context.Background(), order.ID, "promoter", "sponsor guest list")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderComplimentary, comp.Status)
	assert.Equal(t, "0.00 USD", comp.TotalAmount.String())
	for _, ticket := range comp.Tickets {
		assert.Equal(t, domain.TicketComplimentary, ticket.Status)
		assert.False(t, ticket.CountsAsRevenue())
	}

	assert.Equal(t, 2, h.inventoryOf(t, eventID, "GA").Sold)
}

func TestMarkAsSold_ConcurrentOrdersGetDistinctSeats(t *testing.T) {
	h := newHarness(t, nil, services.WithSeatAttempts(20))
	eventID := h.createEvent(t, ticketType("VIP", 30, "80.00"))

	var orders []*domain.Order
	for i := 0; i < 10; i++ {
		orders = append(orders, h.pendingOrder(t, eventID, "VIP", 3))
	}

	var wg sync.WaitGroup
	results := make([]*domain.Order, len(orders))
	errs := make([]error, len(orders))
	for i, order := range orders {
		wg.Add(1)
		go func(i int, id domain.OrderID) {
			defer wg.Done()
			results[i], errs[i] = h.orders.MarkAsSold(context.Background(), id, "box-office")
		}(i, order.ID)
	}
	wg.Wait()

	seats := map[string]domain.TicketID{}
	for i := range orders {
		require.NoError(t, errs[i])
		for _, ticket := range results[i].Tickets {
			owner, dup := seats[ticket.Seat()]
			assert.False(t, dup, "seat %s sold to %s and %s", ticket.Seat(), owner, ticket.ID)
			seats[ticket.Seat()] = ticket.ID
		}
	}

	assert.Len(t, seats, 30)
	inv := h.inventoryOf(t, eventID, "VIP")
	assert.Equal(t, 30, inv.Sold)
	assert.True(t, inv.Conserved())
}

func TestConfirmPayment_Validation(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 10, "10.00"))
	order := h.createOrder(t, eventID, "GA", 1)

	_, err := h.orders.ConfirmPayment(context.Background(), order.ID, validPayment())
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "order is still RESERVED")

	require.NoError(t, h.orders.ProcessOrderEvent(context.Background(), ports.OrderEvent{OrderID: order.ID}))

	bad := validPayment()
	bad.Email = "nope"
	_, err = h.orders.ConfirmPayment(context.Background(), order.ID, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	info, err := h.orders.ConfirmPayment(context.Background(), order.ID, validPayment())
	require.NoError(t, err)
	assert.Equal(t, domain.CustomerID("cust-1"), info.CustomerID)
}

func TestCancelOrder_ReleasesEverything(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 10, "10.00"))
	order := h.pendingOrder(t, eventID, "GA", 3)

	failed, err := h.orders.CancelOrder(context.Background(), order.ID, "payments", true)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderFailed, failed.Status)

	inv := h.inventoryOf(t, eventID, "GA")
	assert.Equal(t, 10, inv.Available)
	assert.Equal(t, 0, inv.Reserved)

	reservation, err := h.orders.GetReservation(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationReleased, reservation.Status)

	for _, ticket := range order.Tickets {
		stored, err := h.repos.Tickets.Get(context.Background(), ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketAvailable, stored.Status)
		assert.Nil(t, stored.OrderID)
	}

	_, err = h.orders.CancelOrder(context.Background(), order.ID, "payments", false)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestCancelOrder_AfterSaleIsRejected(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 10, "10.00"))
	order := h.pendingOrder(t, eventID, "GA", 1)

	_, err := h.orders.MarkAsSold(context.Background(), order.ID, "cashier")
	require.NoError(t, err)

	_, err = h.orders.CancelOrder(context.Background(), order.ID, "ops", false)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Equal(t, 1, h.inventoryOf(t, eventID, "GA").Sold)
}

func TestProcessOrderEvent_KeepsConcurrentComplimentaryTickets(t *testing.T) {
	var tickets *interleavedTickets
	h := newHarnessWith(t, nil, func(h *harness) {
		tickets = &interleavedTickets{TicketRepository: h.repos.Tickets}
		h.repos.Tickets = tickets
	})
	ctx := context.Background()
	eventID := h.createEvent(t, ticketType("VIP", 10, "150.00"))
	order := h.createOrder(t, eventID, "VIP", 2)

	tickets.between = func() {
		_, err := h.orders.MarkAsComplimentary(ctx, order.ID, "manager", "press pass")
		require.NoError(t, err)
	}

	require.NoError(t, h.orders.ProcessOrderEvent(ctx, ports.OrderEvent{OrderID: order.ID, EventID: eventID}))

	got, err := h.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderComplimentary, got.Status)

	seats := map[string]bool{}
	for _, ticket := range got.Tickets {
		assert.Equal(t, domain.TicketComplimentary, ticket.Status)
		assert.NotEmpty(t, ticket.Seat())
		seats[ticket.Seat()] = true

		audit, err := h.orders.TicketAudit(ctx, ticket.ID)
		require.NoError(t, err)
		for _, a := range audit {
			assert.NotEqual(t, domain.TicketPendingConfirmation, a.ToStatus)
		}
	}
	assert.Len(t, seats, 2)

	inv := h.inventoryOf(t, eventID, "VIP")
	assert.Equal(t, 2, inv.Sold)
	assert.Equal(t, 0, inv.Reserved)
}

func TestMarkAsSold_CompletesAfterOrderWriteFailure(t *testing.T) {
	var orders *flakyOrders
	h := newHarnessWith(t, nil, func(h *harness) {
		orders = &flakyOrders{OrderRepository: h.repos.Orders}
		h.repos.Orders = orders
	})
	ctx := context.Background()
	eventID := h.createEvent(t, ticketType("VIP", 10, "150.00"))
	order := h.pendingOrder(t, eventID, "VIP", 2)

	orders.failures = 1
	_, err := h.orders.MarkAsSold(ctx, order.ID, "cashier")
	require.ErrorIs(t, err, errConnReset)

	stuck, err := h.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPendingConfirmation, stuck.Status)
	assigned := map[domain.TicketID]string{}
	for _, ticket := range stuck.Tickets {
		require.Equal(t, domain.TicketSold, ticket.Status)
		assigned[ticket.ID] = ticket.Seat()
	}

	sold, err := h.orders.MarkAsSold(ctx, order.ID, "cashier")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderSold, sold.Status)
	assert.Equal(t, "300.00 USD", sold.TotalAmount.String())
	for _, ticket := range sold.Tickets {
		assert.Equal(t, assigned[ticket.ID], ticket.Seat())
	}

	inv := h.inventoryOf(t, eventID, "VIP")
	assert.Equal(t, 8, inv.Available)
	assert.Equal(t, 0, inv.Reserved)
	assert.Equal(t, 2, inv.Sold)
}

func TestAuditFailureDoesNotBlockTransitions(t *testing.T) {
	audit := mocks.NewAuditRepository(t)
	audit.On("Append", mock.Anything, mock.Anything).Return(errors.New("audit store unavailable"))

	h := newHarnessWith(t, nil, func(h *harness) {
		h.repos.Audit = audit
	})
	eventID := h.createEvent(t, ticketType("GA", 10, "10.00"))
	order := h.pendingOrder(t, eventID, "GA", 2)

	sold, err := h.orders.MarkAsSold(context.Background(), order.ID, "cashier")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderSold, sold.Status)

	audit.AssertCalled(t, "Append", mock.Anything, mock.MatchedBy(func(a *domain.TicketStateTransitionAudit) bool {
		return a.ToStatus == domain.TicketSold
	}))
}

func TestConfirmPayment_StoreFailure(t *testing.T) {
	customers := mocks.NewCustomerInfoRepository(t)
	h := newHarnessWith(t, nil, func(h *harness) {
		h.repos.Customers = customers
	})
	ctx := context.Background()
	eventID := h.createEvent(t, ticketType("GA", 10, "10.00"))
	order := h.pendingOrder(t, eventID, "GA", 1)

	bad := validPayment()
	bad.Email = "nope"
	_, err := h.orders.ConfirmPayment(ctx, order.ID, bad)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	customers.On("Save", mock.Anything, mock.MatchedBy(func(info *domain.CustomerInfo) bool {
		return info.OrderID == order.ID && info.Email == "ada@example.com"
	})).Return(errors.New("db down")).Once()

	_, err = h.orders.ConfirmPayment(ctx, order.ID, validPayment())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save customer info")
}

func TestCreateOrder_CompensatesWhenTicketWriteFails(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	eventID := h.createEvent(t, ticketType("GA", 5, "10.00"))

	tickets := mocks.NewTicketRepository(t)
	tickets.On("SaveBatch", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	repos := h.repos
	repos.Tickets = tickets
	svc := services.NewOrderService(repos, h.inventory, nil, h.clock, zapNop(), services.WithRetryPolicy(testRetry))

	_, err := svc.CreateOrder(ctx, services.CreateOrderRequest{
		CustomerID: "cust-1", EventID: string(eventID), TicketType: "GA", Quantity: 2,
	})
	require.Error(t, err)

	inv := h.inventoryOf(t, eventID, "GA")
	assert.Equal(t, 5, inv.Available)
	assert.Equal(t, 0, inv.Reserved)

	orders, err := h.repos.Orders.ListByCustomer(ctx, "cust-1")
	require.NoError(t, err)
	assert.Empty(t, orders)

	active, err := h.repos.Reservations.ListByStatus(ctx, domain.ReservationActive)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCreateOrder_DeadlineFollowsClock(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 5, "10.00"))

	issued := time.Date(2026, 6, 2, 9, 30, 0, 0, time.UTC)
	clk := mocks.NewClock(t)
	clk.On("Now").Return(issued)

	inventory := services.NewInventoryService(h.inventories, h.events, nil, clk, testRetry, zapNop())
	svc := services.NewOrderService(h.repos, inventory, nil, clk, zapNop(),
		services.WithReservationTimeout(7*time.Minute), services.WithRetryPolicy(testRetry))

	order, err := svc.CreateOrder(context.Background(), services.CreateOrderRequest{
		CustomerID: "cust-1", EventID: string(eventID), TicketType: "GA", Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, issued, order.CreatedAt)

	reservation, err := svc.GetReservation(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(7*time.Minute), reservation.ExpiresAt)
}
