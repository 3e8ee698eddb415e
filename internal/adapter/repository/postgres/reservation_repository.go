package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

const reservationColumns = `id, order_id, event_id, ticket_type, quantity, status, expires_at, created_at`

type ReservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Save upserts by id. The status is overwritten unconditionally; use
// UpdateStatus for guarded transitions.
func (r *ReservationRepository) Save(ctx context.Context, res *domain.TicketReservation) error {
	query := `
	INSERT INTO ticket_reservations (` + reservationColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE
	SET status = EXCLUDED.status,
		expires_at = EXCLUDED.expires_at
	`

	_, err := r.db.ExecContext(ctx, query,
		res.ID, res.OrderID, res.EventID, res.TicketType, res.Quantity, res.Status, res.ExpiresAt, res.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "idx_ticket_reservations_order") {
			return fmt.Errorf("%w: order %s already has a reservation", domain.ErrInvalidArgument, res.OrderID)
		}
		return fmt.Errorf("failed to save reservation: %w", err)
	}

	return nil
}

func (r *ReservationRepository) Get(ctx context.Context, id domain.ReservationID) (*domain.TicketReservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM ticket_reservations WHERE id = $1`

	return r.one(ctx, "reservation "+string(id), query, id)
}

func (r *ReservationRepository) GetByOrder(ctx context.Context, orderID domain.OrderID) (*domain.TicketReservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM ticket_reservations WHERE order_id = $1`

	return r.one(ctx, "reservation for order "+string(orderID), query, orderID)
}

func (r *ReservationRepository) ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.TicketReservation, error) {
	query := `
	SELECT ` + reservationColumns + `
	FROM ticket_reservations
	WHERE status = $1
	ORDER BY expires_at
	`

	return r.list(ctx, query, status)
}

func (r *ReservationRepository) ListExpired(ctx context.Context, asOf time.Time, limit int) ([]domain.TicketReservation, error) {
	query := `
	SELECT ` + reservationColumns + `
	FROM ticket_reservations
	WHERE status = $1 AND expires_at <= $2
	ORDER BY expires_at
	LIMIT $3
	`

	return r.list(ctx, query, domain.ReservationActive, asOf, limit)
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id domain.ReservationID, from, to domain.ReservationStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE ticket_reservations SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update reservation %s: %w", id, err)
	}

	n, err := affected(result)
	if err != nil {
		return err
	}

	if n == 0 {
		found, err := exists(ctx, r.db, `SELECT EXISTS (SELECT 1 FROM ticket_reservations WHERE id = $1)`, id)
		if err != nil {
			return err
		}

		if !found {
			return fmt.Errorf("reservation %s: %w", id, domain.ErrNotFound)
		}

		return fmt.Errorf("%w: reservation %s is no longer %s", domain.ErrConcurrentModification, id, from)
	}

	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id domain.ReservationID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ticket_reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation %s: %w", id, err)
	}

	n, err := affected(result)
	if err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("reservation %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *ReservationRepository) one(ctx context.Context, what, query string, arg any) (*domain.TicketReservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", what, domain.ErrNotFound)
		}
		return nil, err
	}

	return res, nil
}

func (r *ReservationRepository) list(ctx context.Context, query string, args ...any) ([]domain.TicketReservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var out []domain.TicketReservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *res)
	}

	return out, rows.Err()
}

func scanReservation(row scanner) (*domain.TicketReservation, error) {
	var res domain.TicketReservation

	err := row.Scan(
		&res.ID,
		&res.OrderID,
		&res.EventID,
		&res.TicketType,
		&res.Quantity,
		&res.Status,
		&res.ExpiresAt,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &res, nil
}
