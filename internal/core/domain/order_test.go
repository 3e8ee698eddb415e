package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedTickets(t *testing.T, prices ...string) []domain.TicketItem {
	t.Helper()

	tickets := make([]domain.TicketItem, 0, len(prices))
	for _, p := range prices {
		ticket, err := domain.NewTicketItem("evt-1", "GA", domain.MustMoney(p, "USD"), time.Now())
		require.NoError(t, err)
		tickets = append(tickets, ticket)
	}

	return tickets
}

func withStatus(tickets []domain.TicketItem, status domain.TicketStatus) []domain.TicketItem {
	out := make([]domain.TicketItem, len(tickets))
	for i, ticket := range tickets {
		seat := "GA-00" + string(rune('1'+i))
		ticket.Status = status
		ticket.SeatNumber = &seat
		out[i] = ticket
	}

	return out
}

func TestNewOrder_TotalsTicketPrices(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	order, err := domain.NewOrder("cust-1", "evt-1", "Concert", pricedTickets(t, "50.00", "75.00"), now)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderAvailable, order.Status)
	assert.Equal(t, "125.00 USD", order.TotalAmount.String())
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-20260504-"))
	assert.Equal(t, int64(0), order.Version)
}

func TestNewOrder_RequiresTickets(t *testing.T) {
	_, err := domain.NewOrder("cust-1", "evt-1", "Concert", nil, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestOrder_HappyPathToSold(t *testing.T) {
	now := time.Now()
	tickets := pricedTickets(t, "50.00", "75.00")
	order, err := domain.NewOrder("cust-1", "evt-1", "Concert", tickets, now)
	require.NoError(t, err)

	reserved, err := order.Reserve(now)
	require.NoError(t, err)
	pending, err := reserved.Confirm(now)
	require.NoError(t, err)

	sold, err := pending.MarkAsSold(withStatus(tickets, domain.TicketSold), now)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderSold, sold.Status)
	assert.Equal(t, int64(3), sold.Version)
	assert.Equal(t, "125.00 USD", sold.TotalAmount.String())
	assert.Equal(t, domain.OrderPendingConfirmation, pending.Status, "receiver must not change")
	assert.True(t, sold.Status.IsTerminal())
}

func TestOrder_ComplimentaryZeroesTotal(t *testing.T) {
	now := time.Now()
	tickets := pricedTickets(t, "50.00", "75.00")
	order, err := domain.NewOrder("cust-1", "evt-1", "Concert", tickets, now)
	require.NoError(t, err)

	comp, err := order.MarkAsComplimentary(withStatus(tickets, domain.TicketComplimentary), now)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderComplimentary, comp.Status)
	assert.Equal(t, "0.00 USD", comp.TotalAmount.String())
}

func TestOrder_MarkAsSoldValidation(t *testing.T) {
	now := time.Now()
	tickets := pricedTickets(t, "10", "10")
	order, err := domain.NewOrder("cust-1", "evt-1", "Concert", tickets, now)
	require.NoError(t, err)

	_, err = order.MarkAsSold(withStatus(tickets, domain.TicketSold), now)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "not pending yet")

	reserved, _ := order.Reserve(now)
	pending, _ := reserved.Confirm(now)

	_, err = pending.MarkAsSold(nil, now)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = pending.MarkAsSold(withStatus(tickets[:1], domain.TicketSold), now)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = pending.MarkAsSold(withStatus(tickets, domain.TicketPendingConfirmation), now)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestOrder_TransitionTable(t *testing.T) {
	cases := []struct {
		from domain.OrderStatus
		to   domain.OrderStatus
		ok   bool
	}{
		{domain.OrderAvailable, domain.OrderReserved, true},
		{domain.OrderAvailable, domain.OrderPendingConfirmation, false},
		{domain.OrderReserved, domain.OrderExpired, true},
		{domain.OrderPendingConfirmation, domain.OrderExpired, false},
		{domain.OrderPendingConfirmation, domain.OrderFailed, true},
		{domain.OrderReserved, domain.OrderFailed, false},
		{domain.OrderSold, domain.OrderCancelled, false},
		{domain.OrderExpired, domain.OrderReserved, false},
		{domain.OrderComplimentary, domain.OrderSold, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			order := domain.Order{ID: "ord-1", Status: tc.from}

			err := order.CheckTransition(tc.to)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
			}
		})
	}
}

func TestOrder_CancelAndFail(t *testing.T) {
	now := time.Now()
	order, err := domain.NewOrder("cust-1", "evt-1", "Concert", pricedTickets(t, "10"), now)
	require.NoError(t, err)

	cancelled, err := order.Cancel(now)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, cancelled.Status)

	_, err = order.Fail(now)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	reserved, _ := order.Reserve(now)
	expired, err := reserved.MarkAsExpired(now)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderExpired, expired.Status)
}
