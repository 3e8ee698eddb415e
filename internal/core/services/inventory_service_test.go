package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/ports/mocks"
	"github.com/srgjo27/ticket_inventory/internal/core/services"
	"github.com/srgjo27/ticket_inventory/internal/platform/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInventoryService_TwoConcurrentReservationsOfSixAgainstTen(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 10, "20.00"))

	var wg sync.WaitGroup
	var ok, insufficient int32

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.inventory.Reserve(context.Background(), eventID, "GA", 6)
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, domain.ErrInsufficientInventory):
				atomic.AddInt32(&insufficient, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(1), insufficient)

	inv := h.inventoryOf(t, eventID, "GA")
	assert.Equal(t, 4, inv.Available)
	assert.Equal(t, 6, inv.Reserved)
	assert.True(t, inv.Conserved())
}

func TestInventoryService_NoOversellUnderContention(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 25, "10.00"))

	var wg sync.WaitGroup
	var granted int32

	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.inventory.Reserve(context.Background(), eventID, "GA", 1); err == nil {
				atomic.AddInt32(&granted, 1)
			}
		}()
	}
	wg.Wait()

	inv := h.inventoryOf(t, eventID, "GA")
	assert.Equal(t, int32(inv.Reserved), granted)
	assert.LessOrEqual(t, inv.Reserved, 25)
	assert.True(t, inv.Conserved())

	event, err := h.events.Get(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, inv.Reserved, event.ReservedTickets)
	assert.True(t, event.Conserved())
}

func TestInventoryService_ConflictRetriesAreBounded(t *testing.T) {
	inventoryRepo := mocks.NewInventoryRepository(t)
	eventRepo := mocks.NewEventRepository(t)

	now := time.Now()
	inv, err := domain.NewTicketInventory("evt-1", "GA", 10, domain.MustMoney("5", "USD"), now)
	require.NoError(t, err)

	eventRepo.On("Get", mock.Anything, domain.EventID("evt-1")).
		Return(&domain.Event{ID: "evt-1", Status: domain.EventActive}, nil).Once()
	inventoryRepo.On("Get", mock.Anything, domain.EventID("evt-1"), "GA").Return(&inv, nil).Times(3)
	inventoryRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.TicketInventory"), int64(0)).
		Return(domain.NewConcurrentModificationError("inventory", inv.Key(), 0)).Times(3)

	svc := services.NewInventoryService(inventoryRepo, eventRepo, nil, clock.NewManual(now),
		services.RetryPolicy{MaxAttempts: 3, InitialInterval: time.Millisecond}, zap.NewNop())

	_, err = svc.Reserve(context.Background(), "evt-1", "GA", 2)

	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
}

func TestInventoryService_ConflictThenSuccess(t *testing.T) {
	inventoryRepo := mocks.NewInventoryRepository(t)
	eventRepo := mocks.NewEventRepository(t)

	now := time.Now()
	stale, _ := domain.NewTicketInventory("evt-1", "GA", 10, domain.MustMoney("5", "USD"), now)
	fresh, _ := stale.Reserve(1, now)

	event := &domain.Event{ID: "evt-1", Status: domain.EventActive, TotalCapacity: 10, AvailableTickets: 9, ReservedTickets: 1, Version: 1}

	eventRepo.On("Get", mock.Anything, domain.EventID("evt-1")).Return(event, nil)
	eventRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Event"), int64(1)).Return(nil).Once()

	inventoryRepo.On("Get", mock.Anything, domain.EventID("evt-1"), "GA").Return(&stale, nil).Once()
	inventoryRepo.On("Update", mock.Anything, mock.Anything, int64(0)).
		Return(domain.NewConcurrentModificationError("inventory", stale.Key(), 0)).Once()
	inventoryRepo.On("Get", mock.Anything, domain.EventID("evt-1"), "GA").Return(&fresh, nil).Once()
	inventoryRepo.On("Update", mock.Anything, mock.Anything, int64(1)).Return(nil).Once()

	svc := services.NewInventoryService(inventoryRepo, eventRepo, nil, clock.NewManual(now), testRetry, zap.NewNop())

	got, err := svc.Reserve(context.Background(), "evt-1", "GA", 2)

	require.NoError(t, err)
	assert.Equal(t, 7, got.Available)
	assert.Equal(t, 3, got.Reserved)
	assert.Equal(t, int64(2), got.Version)
}

func TestInventoryService_ReserveRejectsCancelledEvent(t *testing.T) {
	h := newHarness(t, nil)
	eventID := h.createEvent(t, ticketType("GA", 10, "20.00"))

	_, err := h.eventSvc.CancelEvent(context.Background(), eventID)
	require.NoError(t, err)

	_, err = h.inventory.Reserve(context.Background(), eventID, "GA", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 10, h.inventoryOf(t, eventID, "GA").Available)
}

func TestInventoryService_AvailabilityReadThrough(t *testing.T) {
	inventoryRepo := mocks.NewInventoryRepository(t)
	eventRepo := mocks.NewEventRepository(t)
	cache := mocks.NewAvailabilityCache(t)

	inv, _ := domain.NewTicketInventory("evt-1", "VIP", 5, domain.MustMoney("100", "USD"), time.Now())

	cache.On("Get", mock.Anything, domain.EventID("evt-1"), "VIP").Return(nil, false, nil).Once()
	inventoryRepo.On("Get", mock.Anything, domain.EventID("evt-1"), "VIP").Return(&inv, nil).Once()
	cache.On("Set", mock.Anything, &inv).Return(nil).Once()
	cache.On("Get", mock.Anything, domain.EventID("evt-1"), "VIP").Return(&inv, true, nil).Once()

	svc := services.NewInventoryService(inventoryRepo, eventRepo, cache, clock.Real{}, testRetry, zap.NewNop())

	first, err := svc.Availability(context.Background(), "evt-1", "VIP")
	require.NoError(t, err)
	second, err := svc.Availability(context.Background(), "evt-1", "VIP")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestInventoryService_CacheInvalidatedAfterWrite(t *testing.T) {
	inventoryRepo := mocks.NewInventoryRepository(t)
	eventRepo := mocks.NewEventRepository(t)
	cache := mocks.NewAvailabilityCache(t)

	now := time.Now()
	inv, _ := domain.NewTicketInventory("evt-1", "VIP", 5, domain.MustMoney("100", "USD"), now)
	inv, _ = inv.Reserve(2, now)

	inventoryRepo.On("Get", mock.Anything, domain.EventID("evt-1"), "VIP").Return(&inv, nil).Once()
	inventoryRepo.On("Update", mock.Anything, mock.Anything, int64(1)).Return(nil).Once()
	cache.On("Invalidate", mock.Anything, domain.EventID("evt-1"), "VIP").Return(errors.New("redis down")).Once()
	eventRepo.On("Get", mock.Anything, domain.EventID("evt-1")).Return(nil, domain.ErrNotFound).Once()

	svc := services.NewInventoryService(inventoryRepo, eventRepo, cache, clock.NewManual(now), testRetry, zap.NewNop())

	got, err := svc.Release(context.Background(), "evt-1", "VIP", 2)

	require.NoError(t, err, "cache and projection failures do not fail a committed ledger write")
	assert.Equal(t, 5, got.Available)
}
