package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/adapter/repository/memory"
	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryRepository_UpdateIsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInventoryRepository()

	inv, err := domain.NewTicketInventory("evt-1", "GA", 10, domain.MustMoney("5", "USD"), time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &inv))

	next, err := inv.Reserve(2, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, &next, inv.Version))

	stale, err := inv.Reserve(3, time.Now())
	require.NoError(t, err)
	err = repo.Update(ctx, &stale, inv.Version)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	got, err := repo.Get(ctx, "evt-1", "GA")
	require.NoError(t, err)
	assert.Equal(t, 8, got.Available)

	_, err = repo.Get(ctx, "evt-1", "VIP")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReservationRepository_ListExpiredAndUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewReservationRepository()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	soon, _ := domain.NewReservation("ord-1", "evt-1", "GA", 1, time.Minute, t0)
	later, _ := domain.NewReservation("ord-2", "evt-1", "GA", 1, time.Hour, t0)
	require.NoError(t, repo.Save(ctx, &soon))
	require.NoError(t, repo.Save(ctx, &later))

	expired, err := repo.ListExpired(ctx, t0.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, soon.ID, expired[0].ID)

	require.NoError(t, repo.UpdateStatus(ctx, soon.ID, domain.ReservationActive, domain.ReservationExpired))
	err = repo.UpdateStatus(ctx, soon.ID, domain.ReservationActive, domain.ReservationExpired)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	expired, err = repo.ListExpired(ctx, t0.Add(2*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, later.ID, expired[0].ID)
}

func pendingTickets(t *testing.T, repo *memory.TicketRepository, n int) []domain.TicketItem {
	t.Helper()

	var out []domain.TicketItem
	for i := 0; i < n; i++ {
		ticket, err := domain.NewTicketItem("evt-1", "VIP", domain.MustMoney("100", "USD"), time.Now())
		require.NoError(t, err)
		ticket.Status = domain.TicketPendingConfirmation
		out = append(out, ticket)
	}

	require.NoError(t, repo.SaveBatch(context.Background(), out))
	return out
}

func soldAssignment(tickets []domain.TicketItem, labels ...string) domain.SeatAssignment {
	return domain.SeatAssignment{
		EventID:     "evt-1",
		TicketType:  "VIP",
		Tickets:     tickets,
		Labels:      labels,
		Target:      domain.TicketSold,
		AllowedFrom: []domain.TicketStatus{domain.TicketPendingConfirmation},
		PerformedBy: "tester",
		At:          time.Now(),
	}
}

func TestTicketRepository_AssignSeatsRejectsTakenLabel(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTicketRepository()
	first := pendingTickets(t, repo, 1)
	second := pendingTickets(t, repo, 2)

	_, err := repo.AssignSeats(ctx, soldAssignment(first, "VIP-001"))
	require.NoError(t, err)

	_, err = repo.AssignSeats(ctx, soldAssignment(second, "VIP-002", "VIP-001"))
	assert.ErrorIs(t, err, domain.ErrSeatTaken)

	for _, ticket := range second {
		stored, err := repo.Get(ctx, ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketPendingConfirmation, stored.Status, "no partial assignment")
		assert.Empty(t, stored.Seat())
	}

	occupied, err := repo.OccupiedSeats(ctx, "evt-1", "VIP")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"VIP-001": {}}, occupied)
}

func TestTicketRepository_AssignSeatsRejectsWrongSourceStatus(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTicketRepository()
	tickets := pendingTickets(t, repo, 2)

	tickets[1].Status = domain.TicketReserved
	require.NoError(t, repo.Save(ctx, &tickets[1]))

	_, err := repo.AssignSeats(ctx, soldAssignment(tickets, "VIP-001", "VIP-002"))
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	occupied, err := repo.OccupiedSeats(ctx, "evt-1", "VIP")
	require.NoError(t, err)
	assert.Empty(t, occupied)
}

func TestTicketRepository_TransitionBatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTicketRepository()
	tickets := pendingTickets(t, repo, 2)

	_, err := repo.AssignSeats(ctx, soldAssignment(tickets[1:], "VIP-001"))
	require.NoError(t, err)

	changes := make([]domain.TicketChange, len(tickets))
	for i, ticket := range tickets {
		released, err := ticket.Release("sweeper", time.Now())
		require.NoError(t, err)
		changes[i] = domain.TicketChange{Next: released, From: ticket.Status}
	}

	err = repo.TransitionBatch(ctx, changes)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	first, err := repo.Get(ctx, tickets[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPendingConfirmation, first.Status)

	sold, err := repo.Get(ctx, tickets[1].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketSold, sold.Status)
	assert.Equal(t, "VIP-001", sold.Seat())

	require.NoError(t, repo.TransitionBatch(ctx, changes[:1]))
	first, err = repo.Get(ctx, tickets[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketAvailable, first.Status)
}

func TestTicketRepository_ConcurrentAssignSameLabel(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTicketRepository()

	const workers = 8
	batches := make([][]domain.TicketItem, workers)
	for i := range batches {
		batches[i] = pendingTickets(t, repo, 1)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(batch []domain.TicketItem) {
			defer wg.Done()
			if _, err := repo.AssignSeats(ctx, soldAssignment(batch, "VIP-001")); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(batches[i])
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestAuditRepository_Queries(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAuditRepository()
	t0 := time.Now()

	ok := domain.TicketStateTransitionAudit{TicketID: "t-1", TransitionTime: t0, Successful: true}
	failed := domain.TicketStateTransitionAudit{TicketID: "t-2", TransitionTime: t0.Add(time.Minute), ErrorMessage: "boom"}
	require.NoError(t, repo.Append(ctx, &ok))
	require.NoError(t, repo.Append(ctx, &failed))

	byTicket, _ := repo.ListByTicket(ctx, "t-1")
	assert.Len(t, byTicket, 1)

	inRange, _ := repo.ListByTimeRange(ctx, t0, t0.Add(time.Minute))
	assert.Len(t, inRange, 1)

	failures, _ := repo.ListFailed(ctx)
	require.Len(t, failures, 1)
	assert.Equal(t, domain.TicketID("t-2"), failures[0].TicketID)
}

func TestProcessedEventStore_FirstTimeOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProcessedEventStore()

	first, err := store.MarkProcessed(ctx, "ord-1")
	require.NoError(t, err)
	assert.True(t, first)

	again, _ := store.MarkProcessed(ctx, "ord-1")
	assert.False(t, again)

	require.NoError(t, store.Forget(ctx, "ord-1"))
	afterForget, _ := store.MarkProcessed(ctx, "ord-1")
	assert.True(t, afterForget)
}
