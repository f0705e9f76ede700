package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/database"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/models"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

// PostgresStore is the durable Catalog+Ledger backend. Product deletion is
// guarded by the orders.product_id foreign key (ON DELETE RESTRICT); stock
// decrements are single conditional UPDATEs so the check and the write are
// one atomic statement.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a PostgresStore.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListProducts returns all products, id ascending.
func (s *PostgresStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	const q = `SELECT * FROM products ORDER BY id`
	products := []models.Product{}
	if err := s.db.SelectContext(ctx, &products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a single product by id.
func (s *PostgresStore) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	var p models.Product
	if err := s.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpsertProducts applies a bulk catalog update in one transaction. Records
// with non-positive price are skipped; records whose id matches an existing
// row overwrite its mutable fields, the rest are inserted fresh.
func (s *PostgresStore) UpsertProducts(ctx context.Context, products []models.Product) (int, error) {
	applied := 0
	err := database.WithRetry(ctx, s.db, database.DefaultTxOptions(), func(tx *sqlx.Tx) error {
		applied = 0
		for i := range products {
			p := &products[i]
			if p.Price <= 0 {
				continue
			}

			if p.ID > 0 {
				res, err := tx.ExecContext(ctx,
					`UPDATE products
					 SET name = $2, description = $3, price = $4, stock = $5, image = $6, updated_at = NOW()
					 WHERE id = $1`,
					p.ID, p.Name, p.Description, p.Price, p.Stock, p.Image)
				if err != nil {
					return err
				}
				n, err := res.RowsAffected()
				if err != nil {
					return err
				}
				if n > 0 {
					applied++
					continue
				}
				// Unknown id: fall through and insert as a new product.
			}

			if err := tx.QueryRowContext(ctx,
				`INSERT INTO products (name, description, price, stock, image)
				 VALUES ($1, $2, $3, $4, $5)
				 RETURNING id`,
				p.Name, p.Description, p.Price, p.Stock, p.Image).Scan(&p.ID); err != nil {
				return err
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

// DecrementStock reduces stock by qty if and only if enough units remain.
// The conditional UPDATE serializes concurrent decrements per product row.
func (s *PostgresStore) DecrementStock(ctx context.Context, id, qty int) error {
	return database.WithRetry(ctx, s.db, database.DefaultTxOptions(), func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE products
			 SET stock = stock - $2, updated_at = NOW()
			 WHERE id = $1 AND stock >= $2`,
			id, qty)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		// Distinguish "missing product" from "not enough stock".
		var available int
		err = tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&available)
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		if err != nil {
			return err
		}
		return &utils.InsufficientStockError{ProductID: id, Available: available}
	})
}

// RestockProduct adds qty back to the product's stock.
func (s *PostgresStore) RestockProduct(ctx context.Context, id, qty int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1`,
		id, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a product. The foreign key on orders turns deletion
// of a referenced product into utils.ErrProductHasOrders.
func (s *PostgresStore) DeleteProduct(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return utils.ErrProductHasOrders
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrProductNotFound
	}
	return nil
}

// CountProducts returns the number of products in the catalog.
func (s *PostgresStore) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM products`); err != nil {
		return 0, err
	}
	return count, nil
}
