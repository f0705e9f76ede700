package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/models"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

// AppendOrder inserts an order and fills in its SERIAL-assigned id.
func (s *PostgresStore) AppendOrder(ctx context.Context, order *models.Order) error {
	const q = `
		INSERT INTO orders (
			customer_name, customer_phone, customer_email,
			product_id, product_name, quantity, total_amount,
			payment_method, customer_address, notes, upi_transaction_id,
			payment_status, order_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`

	return s.db.QueryRowContext(ctx, q,
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerEmail,
		order.ProductID,
		order.ProductName,
		order.Quantity,
		order.TotalAmount,
		order.PaymentMethod,
		order.CustomerAddress,
		order.Notes,
		order.UPITransactionID,
		order.PaymentStatus,
		order.OrderStatus,
		order.CreatedAt,
		order.UpdatedAt,
	).Scan(&order.ID)
}

// GetOrder returns a single order by id.
func (s *PostgresStore) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	const q = `SELECT * FROM orders WHERE id = $1 LIMIT 1`
	var o models.Order
	if err := s.db.GetContext(ctx, &o, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListOrders returns all orders newest first, id descending on equal timestamps.
func (s *PostgresStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	const q = `SELECT * FROM orders ORDER BY created_at DESC, id DESC`
	orders := []models.Order{}
	if err := s.db.SelectContext(ctx, &orders, q); err != nil {
		return nil, err
	}
	return orders, nil
}

// FindOrdersByPhone returns orders with an exact phone match, newest first.
func (s *PostgresStore) FindOrdersByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	const q = `SELECT * FROM orders WHERE customer_phone = $1 ORDER BY created_at DESC, id DESC`
	orders := []models.Order{}
	if err := s.db.SelectContext(ctx, &orders, q, phone); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrder applies the admin patch. COALESCE keeps unpatched columns.
func (s *PostgresStore) UpdateOrder(ctx context.Context, id int, patch *models.OrderPatch, updatedAt time.Time) error {
	const q = `
		UPDATE orders
		SET payment_status = COALESCE($2, payment_status),
		    order_status   = COALESCE($3, order_status),
		    notes          = COALESCE($4, notes),
		    updated_at     = $5
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, q, id, patch.PaymentStatus, patch.OrderStatus, patch.Notes, updatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrOrderNotFound
	}
	return nil
}

// DeleteOrder removes an order by id.
func (s *PostgresStore) DeleteOrder(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrOrderNotFound
	}
	return nil
}

// CountOrdersByProduct returns how many orders reference the product.
func (s *PostgresStore) CountOrdersByProduct(ctx context.Context, productID int) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM orders WHERE product_id = $1`, productID); err != nil {
		return 0, err
	}
	return count, nil
}
