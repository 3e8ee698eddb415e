package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

const orderColumns = `id, customer_id, order_number, event_id, event_name, status, total_amount,
	currency, created_at, updated_at, version`

// OrderRepository stores order headers only. Tickets live in ticket_items
// and are attached by the caller.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
	INSERT INTO ticket_orders (` + orderColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.CustomerID, order.OrderNumber, order.EventID, order.EventName, order.Status,
		order.TotalAmount.Amount(), order.TotalAmount.Currency(), order.CreatedAt, order.UpdatedAt, order.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *OrderRepository) Get(ctx context.Context, orderID domain.OrderID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM ticket_orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
		}
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID domain.CustomerID) ([]domain.Order, error) {
	query := `
	SELECT ` + orderColumns + `
	FROM ticket_orders
	WHERE customer_id = $1
	ORDER BY created_at
	`

	return r.list(ctx, query, customerID)
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	query := `
	SELECT ` + orderColumns + `
	FROM ticket_orders
	WHERE status = $1
	ORDER BY created_at
	`

	return r.list(ctx, query, status)
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order, expectedVersion int64) error {
	query := `
	UPDATE ticket_orders
	SET status = $1,
		total_amount = $2,
		currency = $3,
		updated_at = $4,
		version = $5
	WHERE id = $6 AND version = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		order.Status, order.TotalAmount.Amount(), order.TotalAmount.Currency(), order.UpdatedAt,
		order.Version, order.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", order.ID, err)
	}

	n, err := affected(result)
	if err != nil {
		return err
	}

	if n == 0 {
		found, err := exists(ctx, r.db, `SELECT EXISTS (SELECT 1 FROM ticket_orders WHERE id = $1)`, order.ID)
		if err != nil {
			return err
		}

		if !found {
			return fmt.Errorf("order %s: %w", order.ID, domain.ErrNotFound)
		}

		return domain.NewConcurrentModificationError("order", string(order.ID), expectedVersion)
	}

	return nil
}

// Delete removes the order together with its reservation and customer info
// (cascade) and detaches any tickets still pointing at it.
func (r *OrderRepository) Delete(ctx context.Context, orderID domain.OrderID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE ticket_items SET order_id = NULL, reservation_id = NULL WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to detach tickets: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ticket_orders WHERE id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return tx.Commit()
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}

		orders = append(orders, *order)
	}

	return orders, rows.Err()
}

func scanOrder(row scanner) (*domain.Order, error) {
	var (
		order    domain.Order
		amount   decimal.Decimal
		currency string
	)

	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.OrderNumber,
		&order.EventID,
		&order.EventName,
		&order.Status,
		&amount,
		&currency,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.Version,
	)
	if err != nil {
		return nil, err
	}

	if order.TotalAmount, err = money(amount, currency); err != nil {
		return nil, err
	}

	return &order, nil
}
