package domain_test

import (
	"testing"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTicketStatuses = []domain.TicketStatus{
	domain.TicketAvailable,
	domain.TicketReserved,
	domain.TicketPendingConfirmation,
	domain.TicketSold,
	domain.TicketComplimentary,
}

func newTicket(t *testing.T, status domain.TicketStatus) domain.TicketItem {
	t.Helper()

	ticket, err := domain.NewTicketItem("evt-1", "VIP", domain.MustMoney("50", "USD"), time.Unix(0, 0).UTC())
	require.NoError(t, err)

	ticket.Status = status
	return ticket
}

func TestTicketTransitions_Closure(t *testing.T) {
	legal := map[domain.TicketStatus]map[domain.TicketStatus]bool{
		domain.TicketAvailable:           {domain.TicketReserved: true, domain.TicketComplimentary: true},
		domain.TicketReserved:            {domain.TicketPendingConfirmation: true, domain.TicketAvailable: true, domain.TicketComplimentary: true},
		domain.TicketPendingConfirmation: {domain.TicketSold: true, domain.TicketAvailable: true, domain.TicketComplimentary: true},
	}

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	for _, from := range allTicketStatuses {
		for _, to := range allTicketStatuses {
			from, to := from, to
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				ticket := newTicket(t, from)

				next, err := ticket.TransitionTo(to, "A-001", "tester", now)

				if legal[from][to] {
					require.NoError(t, err)
					assert.Equal(t, to, next.Status)
					assert.Equal(t, now, next.StatusChangedAt)
					assert.Equal(t, "tester", next.StatusChangedBy)
					assert.Equal(t, from, ticket.Status, "receiver must not change")
					return
				}

				assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
				assert.False(t, from.CanTransitionTo(to))
			})
		}
	}
}

func TestTicket_FinalStatesRequireSeat(t *testing.T) {
	ticket := newTicket(t, domain.TicketPendingConfirmation)

	_, err := ticket.MarkSold("  ", "tester", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	sold, err := ticket.MarkSold("VIP-001", "tester", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "VIP-001", sold.Seat())
	assert.True(t, sold.Status.IsFinal())
}

func TestTicket_ReleaseDropsAssociation(t *testing.T) {
	ticket := newTicket(t, domain.TicketAvailable).AssignTo("ord-1", "res-1")

	reserved, err := ticket.Reserve("customer", time.Now())
	require.NoError(t, err)
	require.NotNil(t, reserved.OrderID)

	released, err := reserved.Release("sweep", time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.TicketAvailable, released.Status)
	assert.Nil(t, released.OrderID)
	assert.Nil(t, released.ReservationID)
}

func TestTicket_RevenueValue(t *testing.T) {
	sold := newTicket(t, domain.TicketSold)
	comp := newTicket(t, domain.TicketComplimentary)

	assert.True(t, sold.CountsAsRevenue())
	assert.Equal(t, "50.00 USD", sold.RevenueValue().String())
	assert.False(t, comp.CountsAsRevenue())
	assert.True(t, comp.RevenueValue().IsZero())
}

func TestTransitionAudit_RecordsFailure(t *testing.T) {
	ticket := newTicket(t, domain.TicketSold)
	_, err := ticket.Release("ops", time.Now())
	require.Error(t, err)

	audit := domain.NewTransitionAudit(ticket, domain.TicketAvailable, "ops", "refund", time.Now(), err)
	assert.False(t, audit.Successful)
	assert.Equal(t, domain.TicketSold, audit.FromStatus)
	assert.Contains(t, audit.ErrorMessage, "cannot transition")
}
