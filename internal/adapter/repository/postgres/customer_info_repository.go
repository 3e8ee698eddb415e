package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
)

type CustomerInfoRepository struct {
	db *sql.DB
}

func NewCustomerInfoRepository(db *sql.DB) *CustomerInfoRepository {
	return &CustomerInfoRepository{db: db}
}

// Save upserts by order; created_at of an existing row is kept.
func (r *CustomerInfoRepository) Save(ctx context.Context, info *domain.CustomerInfo) error {
	query := `
	INSERT INTO customer_info (order_id, customer_id, name, email, phone, address_line, city,
		postal_code, country, payment_method, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (order_id) DO UPDATE
	SET name = EXCLUDED.name,
		email = EXCLUDED.email,
		phone = EXCLUDED.phone,
		address_line = EXCLUDED.address_line,
		city = EXCLUDED.city,
		postal_code = EXCLUDED.postal_code,
		country = EXCLUDED.country,
		payment_method = EXCLUDED.payment_method,
		updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		info.OrderID, info.CustomerID, info.Name, info.Email, info.Phone, info.AddressLine, info.City,
		info.PostalCode, info.Country, info.PaymentMethod, info.CreatedAt, info.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save customer info for order %s: %w", info.OrderID, err)
	}

	return nil
}

func (r *CustomerInfoRepository) GetByOrder(ctx context.Context, orderID domain.OrderID) (*domain.CustomerInfo, error) {
	query := `
	SELECT order_id, customer_id, name, email, phone, address_line, city, postal_code, country,
		payment_method, created_at, updated_at
	FROM customer_info
	WHERE order_id = $1
	`

	var info domain.CustomerInfo
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&info.OrderID,
		&info.CustomerID,
		&info.Name,
		&info.Email,
		&info.Phone,
		&info.AddressLine,
		&info.City,
		&info.PostalCode,
		&info.Country,
		&info.PaymentMethod,
		&info.CreatedAt,
		&info.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer info for order %s: %w", orderID, domain.ErrNotFound)
		}
		return nil, err
	}

	return &info, nil
}
