package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

const eventColumns = `id, name, description, venue, event_date, total_capacity, available_tickets,
	reserved_tickets, sold_tickets, status, version, created_at, updated_at`

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
	INSERT INTO events (` + eventColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.Name, event.Description, event.Venue, event.EventDate,
		event.TotalCapacity, event.AvailableTickets, event.ReservedTickets, event.SoldTickets,
		event.Status, event.Version, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

func (r *EventRepository) Get(ctx context.Context, eventID domain.EventID) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
		}
		return nil, err
	}

	return event, nil
}

// List returns every event when status is empty.
func (r *EventRepository) List(ctx context.Context, status domain.EventStatus) ([]domain.Event, error) {
	query := `
	SELECT ` + eventColumns + `
	FROM events
	WHERE ($1 = '' OR status = $1)
	ORDER BY event_date
	`

	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}

		events = append(events, *event)
	}

	return events, rows.Err()
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event, expectedVersion int64) error {
	query := `
	UPDATE events
	SET available_tickets = $1,
		reserved_tickets = $2,
		sold_tickets = $3,
		status = $4,
		version = $5,
		updated_at = $6
	WHERE id = $7 AND version = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		event.AvailableTickets, event.ReservedTickets, event.SoldTickets, event.Status,
		event.Version, event.UpdatedAt, event.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", event.ID, err)
	}

	n, err := affected(result)
	if err != nil {
		return err
	}

	if n == 0 {
		found, err := exists(ctx, r.db, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, event.ID)
		if err != nil {
			return err
		}

		if !found {
			return fmt.Errorf("event %s: %w", event.ID, domain.ErrNotFound)
		}

		return domain.NewConcurrentModificationError("event", string(event.ID), expectedVersion)
	}

	return nil
}

func scanEvent(row scanner) (*domain.Event, error) {
	var event domain.Event

	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.Venue,
		&event.EventDate,
		&event.TotalCapacity,
		&event.AvailableTickets,
		&event.ReservedTickets,
		&event.SoldTickets,
		&event.Status,
		&event.Version,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &event, nil
}
