package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/ports"
	"github.com/srgjo27/ticket_inventory/internal/platform/logger"
	"go.uber.org/zap"
)

type TicketTypeRequest struct {
	Type     string `json:"type" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Price    string `json:"price" validate:"required,numeric"`
	Currency string `json:"currency" validate:"required,len=3"`
}

type CreateEventRequest struct {
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description"`
	Venue       string              `json:"venue" validate:"required"`
	EventDate   time.Time           `json:"event_date" validate:"required"`
	TicketTypes []TicketTypeRequest `json:"ticket_types" validate:"required,min=1,dive"`
}

type EventDetails struct {
	Event     domain.Event
	Inventory []domain.TicketInventory
}

type EventService struct {
	eventRepo ports.EventRepository
	inventory *InventoryService
	clock     ports.Clock
	retry     RetryPolicy
	logger    *zap.Logger
}

func NewEventService(eventRepo ports.EventRepository, inventory *InventoryService, clock ports.Clock, retry RetryPolicy, logger *zap.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		inventory: inventory,
		clock:     clock,
		retry:     retry,
		logger:    logger,
	}
}

// CreateEvent stores the event and one inventory ledger per ticket type. The
// event capacity is the sum of the ticket type quantities.
func (s *EventService) CreateEvent(ctx context.Context, req CreateEventRequest) (*EventDetails, error) {
	if len(req.TicketTypes) == 0 {
		return nil, fmt.Errorf("%w: at least one ticket type is required", domain.ErrInvalidArgument)
	}

	capacity := 0
	prices := make([]domain.Money, len(req.TicketTypes))
	seen := make(map[string]struct{}, len(req.TicketTypes))

	for i, tt := range req.TicketTypes {
		key := strings.ToUpper(strings.TrimSpace(tt.Type))
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: ticket type %s listed twice", domain.ErrInvalidArgument, tt.Type)
		}
		seen[key] = struct{}{}

		if tt.Quantity <= 0 {
			return nil, fmt.Errorf("%w: ticket type %s needs a positive quantity", domain.ErrInvalidArgument, tt.Type)
		}

		price, err := domain.MoneyFromString(tt.Price, tt.Currency)
		if err != nil {
			return nil, err
		}

		prices[i] = price
		capacity += tt.Quantity
	}

	now := s.clock.Now()
	event, err := domain.NewEvent(req.Name, req.Description, req.Venue, req.EventDate, capacity, now)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, &event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	details := &EventDetails{Event: event}
	for i, tt := range req.TicketTypes {
		inv, err := s.inventory.Provision(ctx, event.ID, strings.TrimSpace(tt.Type), tt.Quantity, prices[i])
		if err != nil {
			logger.Error(ctx, s.logger, "failed to provision inventory",
				zap.String("event_id", string(event.ID)), zap.String("ticket_type", tt.Type), zap.Error(err))
			return nil, err
		}

		details.Inventory = append(details.Inventory, *inv)
	}

	logger.Info(ctx, s.logger, "event created",
		zap.String("event_id", string(event.ID)),
		zap.Int("capacity", capacity),
	)

	return details, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID domain.EventID) (*EventDetails, error) {
	event, err := s.eventRepo.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	inventory, err := s.inventory.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &EventDetails{Event: *event, Inventory: inventory}, nil
}

func (s *EventService) ListEvents(ctx context.Context, status domain.EventStatus) ([]domain.Event, error) {
	return s.eventRepo.List(ctx, status)
}

// CancelEvent stops further sales. Existing orders are left to run their
// course.
func (s *EventService) CancelEvent(ctx context.Context, eventID domain.EventID) (*domain.Event, error) {
	var cancelled domain.Event

	err := retryOnConflict(ctx, s.retry, "event", func() error {
		current, err := s.eventRepo.Get(ctx, eventID)
		if err != nil {
			return err
		}

		next, err := current.Cancel(s.clock.Now())
		if err != nil {
			return err
		}

		if err := s.eventRepo.Update(ctx, &next, current.Version); err != nil {
			return err
		}

		cancelled = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, s.logger, "event cancelled", zap.String("event_id", string(eventID)))
	return &cancelled, nil
}

// ListInventory returns every ledger of an existing event, read from the
// store rather than the cache.
func (s *EventService) ListInventory(ctx context.Context, eventID domain.EventID) ([]domain.TicketInventory, error) {
	if _, err := s.eventRepo.Get(ctx, eventID); err != nil {
		return nil, err
	}

	return s.inventory.ListByEvent(ctx, eventID)
}

func (s *EventService) Availability(ctx context.Context, eventID domain.EventID, ticketType string) (*domain.TicketInventory, error) {
	return s.inventory.Availability(ctx, eventID, ticketType)
}
