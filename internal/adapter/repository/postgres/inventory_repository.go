package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

const inventoryColumns = `event_id, ticket_type, total_quantity, available_quantity, reserved_quantity,
	sold_quantity, price, currency, version, updated_at`

type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(ctx context.Context, inv *domain.TicketInventory) error {
	query := `
	INSERT INTO ticket_inventory (` + inventoryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		inv.EventID, inv.TicketType, inv.Total, inv.Available, inv.Reserved, inv.Sold,
		inv.Price.Amount(), inv.Price.Currency(), inv.Version, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: inventory %s already exists", domain.ErrInvalidArgument, inv.Key())
		}
		return fmt.Errorf("failed to insert inventory %s: %w", inv.Key(), err)
	}

	return nil
}

func (r *InventoryRepository) Get(ctx context.Context, eventID domain.EventID, ticketType string) (*domain.TicketInventory, error) {
	query := `
	SELECT ` + inventoryColumns + `
	FROM ticket_inventory
	WHERE event_id = $1 AND ticket_type = $2
	`

	inv, err := scanInventory(r.db.QueryRowContext(ctx, query, eventID, ticketType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("inventory %s/%s: %w", eventID, ticketType, domain.ErrNotFound)
		}
		return nil, err
	}

	return inv, nil
}

func (r *InventoryRepository) ListByEvent(ctx context.Context, eventID domain.EventID) ([]domain.TicketInventory, error) {
	query := `
	SELECT ` + inventoryColumns + `
	FROM ticket_inventory
	WHERE event_id = $1
	ORDER BY ticket_type
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var out []domain.TicketInventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *inv)
	}

	return out, rows.Err()
}

// Update writes the snapshot only if the stored version still equals
// expectedVersion.
func (r *InventoryRepository) Update(ctx context.Context, inv *domain.TicketInventory, expectedVersion int64) error {
	query := `
	UPDATE ticket_inventory
	SET available_quantity = $1,
		reserved_quantity = $2,
		sold_quantity = $3,
		version = $4,
		updated_at = $5
	WHERE event_id = $6 AND ticket_type = $7 AND version = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		inv.Available, inv.Reserved, inv.Sold, inv.Version, inv.UpdatedAt,
		inv.EventID, inv.TicketType, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory %s: %w", inv.Key(), err)
	}

	n, err := affected(result)
	if err != nil {
		return err
	}

	if n == 0 {
		found, err := exists(ctx, r.db,
			`SELECT EXISTS (SELECT 1 FROM ticket_inventory WHERE event_id = $1 AND ticket_type = $2)`,
			inv.EventID, inv.TicketType)
		if err != nil {
			return err
		}

		if !found {
			return fmt.Errorf("inventory %s: %w", inv.Key(), domain.ErrNotFound)
		}

		return domain.NewConcurrentModificationError("inventory", inv.Key(), expectedVersion)
	}

	return nil
}

func scanInventory(row scanner) (*domain.TicketInventory, error) {
	var (
		inv      domain.TicketInventory
		amount   decimal.Decimal
		currency string
	)

	err := row.Scan(
		&inv.EventID,
		&inv.TicketType,
		&inv.Total,
		&inv.Available,
		&inv.Reserved,
		&inv.Sold,
		&amount,
		&currency,
		&inv.Version,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if inv.Price, err = money(amount, currency); err != nil {
		return nil, err
	}

	return &inv, nil
}
