package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

const ticketColumns = `id, event_id, order_id, reservation_id, ticket_type, seat_number, price, currency,
	status, status_changed_at, status_changed_by`

// TicketRepository relies on the partial unique index idx_ticket_items_seat
// to keep seat labels unique per (event, ticket type).
type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Save(ctx context.Context, ticket *domain.TicketItem) error {
	return r.SaveBatch(ctx, []domain.TicketItem{*ticket})
}

func (r *TicketRepository) SaveBatch(ctx context.Context, tickets []domain.TicketItem) error {
	if len(tickets) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO ticket_items (`+ticketColumns+`)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE
	SET order_id = EXCLUDED.order_id,
		reservation_id = EXCLUDED.reservation_id,
		seat_number = EXCLUDED.seat_number,
		status = EXCLUDED.status,
		status_changed_at = EXCLUDED.status_changed_at,
		status_changed_by = EXCLUDED.status_changed_by
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare ticket statement: %w", err)
	}

	defer stmt.Close()

	for _, t := range tickets {
		_, err := stmt.ExecContext(ctx,
			t.ID, t.EventID, nullString((*string)(t.OrderID)), nullString((*string)(t.ReservationID)),
			t.TicketType, nullString(t.SeatNumber), t.Price.Amount(), t.Price.Currency(),
			t.Status, t.StatusChangedAt, t.StatusChangedBy,
		)
		if err != nil {
			if isUniqueViolation(err, seatIndex) {
				return fmt.Errorf("%w: %s/%s seat %s", domain.ErrSeatTaken, t.EventID, t.TicketType, t.Seat())
			}
			return fmt.Errorf("failed to save ticket %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// TransitionBatch guards every UPDATE on the status the caller observed, so
// a ticket moved by another writer in the meantime aborts the whole batch.
func (r *TicketRepository) TransitionBatch(ctx context.Context, changes []domain.TicketChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	UPDATE ticket_items
	SET order_id = $1,
		reservation_id = $2,
		seat_number = $3,
		status = $4,
		status_changed_at = $5,
		status_changed_by = $6
	WHERE id = $7 AND status = $8
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare ticket transition: %w", err)
	}

	defer stmt.Close()

	for _, c := range changes {
		t := c.Next
		result, err := stmt.ExecContext(ctx,
			nullString((*string)(t.OrderID)), nullString((*string)(t.ReservationID)), nullString(t.SeatNumber),
			t.Status, t.StatusChangedAt, t.StatusChangedBy, t.ID, c.From,
		)
		if err != nil {
			if isUniqueViolation(err, seatIndex) {
				return fmt.Errorf("%w: %s/%s seat %s", domain.ErrSeatTaken, t.EventID, t.TicketType, t.Seat())
			}
			return fmt.Errorf("failed to transition ticket %s: %w", t.ID, err)
		}

		n, err := affected(result)
		if err != nil {
			return err
		}

		if n == 0 {
			found, err := exists(ctx, tx, `SELECT EXISTS (SELECT 1 FROM ticket_items WHERE id = $1)`, t.ID)
			if err != nil {
				return err
			}

			if !found {
				return fmt.Errorf("ticket %s: %w", t.ID, domain.ErrNotFound)
			}

			return fmt.Errorf("%w: ticket %s is no longer %s", domain.ErrConcurrentModification, t.ID, c.From)
		}
	}

	return tx.Commit()
}

func (r *TicketRepository) Get(ctx context.Context, ticketID domain.TicketID) (*domain.TicketItem, error) {
	query := `SELECT ` + ticketColumns + ` FROM ticket_items WHERE id = $1`

	t, err := scanTicket(r.db.QueryRowContext(ctx, query, ticketID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ticket %s: %w", ticketID, domain.ErrNotFound)
		}
		return nil, err
	}

	return t, nil
}

func (r *TicketRepository) ListByOrder(ctx context.Context, orderID domain.OrderID) ([]domain.TicketItem, error) {
	query := `SELECT ` + ticketColumns + ` FROM ticket_items WHERE order_id = $1 ORDER BY id`

	return listTickets(ctx, r.db, query, orderID)
}

func (r *TicketRepository) ListByReservation(ctx context.Context, reservationID domain.ReservationID) ([]domain.TicketItem, error) {
	query := `SELECT ` + ticketColumns + ` FROM ticket_items WHERE reservation_id = $1 ORDER BY id`

	return listTickets(ctx, r.db, query, reservationID)
}

func (r *TicketRepository) OccupiedSeats(ctx context.Context, eventID domain.EventID, ticketType string) (map[string]struct{}, error) {
	query := `
	SELECT seat_number
	FROM ticket_items
	WHERE event_id = $1 AND ticket_type = $2 AND seat_number IS NOT NULL
	`

	rows, err := r.db.QueryContext(ctx, query, eventID, ticketType)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	occupied := make(map[string]struct{})
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}

		occupied[label] = struct{}{}
	}

	return occupied, rows.Err()
}

// AssignSeats locks the tickets, computes their next state and writes every
// row in one transaction. A status guard on each UPDATE and the seat index
// make a concurrent writer lose cleanly.
func (r *TicketRepository) AssignSeats(ctx context.Context, assignment domain.SeatAssignment) ([]domain.TicketItem, error) {
	if err := assignment.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	ids := make([]string, len(assignment.Tickets))
	for i, t := range assignment.Tickets {
		ids[i] = string(t.ID)
	}

	locked, err := listTickets(ctx, tx,
		`SELECT `+ticketColumns+` FROM ticket_items WHERE id = ANY($1) FOR UPDATE`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to lock tickets: %w", err)
	}

	byID := make(map[domain.TicketID]domain.TicketItem, len(locked))
	for _, t := range locked {
		byID[t.ID] = t
	}

	current := make([]domain.TicketItem, len(assignment.Tickets))
	for i, t := range assignment.Tickets {
		stored, ok := byID[t.ID]
		if !ok {
			return nil, fmt.Errorf("ticket %s: %w", t.ID, domain.ErrNotFound)
		}

		current[i] = stored
	}

	updated, err := assignment.Apply(current)
	if err != nil {
		return nil, err
	}

	allowed := make([]string, len(assignment.AllowedFrom))
	for i, s := range assignment.AllowedFrom {
		allowed[i] = string(s)
	}

	stmt, err := tx.PrepareContext(ctx, `
	UPDATE ticket_items
	SET status = $1,
		seat_number = $2,
		status_changed_at = $3,
		status_changed_by = $4
	WHERE id = $5 AND status = ANY($6)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare seat statement: %w", err)
	}

	defer stmt.Close()

	for i, t := range updated {
		result, err := stmt.ExecContext(ctx,
			t.Status, t.Seat(), t.StatusChangedAt, t.StatusChangedBy, t.ID, pq.Array(allowed))
		if err != nil {
			if isUniqueViolation(err, seatIndex) {
				return nil, fmt.Errorf("%w: %s/%s seat %s", domain.ErrSeatTaken, t.EventID, t.TicketType, t.Seat())
			}
			return nil, fmt.Errorf("failed to assign seat to ticket %s: %w", t.ID, err)
		}

		n, err := affected(result)
		if err != nil {
			return nil, err
		}

		if n == 0 {
			return nil, fmt.Errorf("%w: ticket %s left %s before seat assignment",
				domain.ErrInvalidStateTransition, t.ID, current[i].Status)
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err, seatIndex) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrSeatTaken, assignment.EventID, assignment.TicketType)
		}
		return nil, err
	}

	return updated, nil
}

func (r *TicketRepository) Delete(ctx context.Context, ticketID domain.TicketID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ticket_items WHERE id = $1`, ticketID)
	if err != nil {
		return fmt.Errorf("failed to delete ticket %s: %w", ticketID, err)
	}

	n, err := affected(result)
	if err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("ticket %s: %w", ticketID, domain.ErrNotFound)
	}

	return nil
}

func listTickets(ctx context.Context, db dbtx, query string, args ...any) ([]domain.TicketItem, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var tickets []domain.TicketItem
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}

		tickets = append(tickets, *t)
	}

	return tickets, rows.Err()
}

func scanTicket(row scanner) (*domain.TicketItem, error) {
	var (
		t             domain.TicketItem
		orderID       sql.NullString
		reservationID sql.NullString
		seat          sql.NullString
		amount        decimal.Decimal
		currency      string
	)

	err := row.Scan(
		&t.ID,
		&t.EventID,
		&orderID,
		&reservationID,
		&t.TicketType,
		&seat,
		&amount,
		&currency,
		&t.Status,
		&t.StatusChangedAt,
		&t.StatusChangedBy,
	)
	if err != nil {
		return nil, err
	}

	if orderID.Valid {
		id := domain.OrderID(orderID.String)
		t.OrderID = &id
	}

	if reservationID.Valid {
		id := domain.ReservationID(reservationID.String)
		t.ReservationID = &id
	}

	if seat.Valid {
		t.SeatNumber = &seat.String
	}

	if t.Price, err = money(amount, currency); err != nil {
		return nil, err
	}

	return &t, nil
}
