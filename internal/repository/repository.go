package repository

import (
	"context"
	"time"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/models"
)

// Catalog is the product store contract. Implementations must make
// DecrementStock a single atomic check-then-decrement per product so that
// concurrent order creation can never drive stock negative.
type Catalog interface {
	// ListProducts returns all products, id ascending.
	ListProducts(ctx context.Context) ([]models.Product, error)

	// GetProduct returns a product or utils.ErrProductNotFound.
	GetProduct(ctx context.Context, id int) (*models.Product, error)

	// UpsertProducts inserts records without a matching id and overwrites the
	// mutable fields of records with one. Records with non-positive price are
	// silently skipped (leniency toward partial admin input). Returns the
	// number of records applied.
	UpsertProducts(ctx context.Context, products []models.Product) (int, error)

	// DecrementStock atomically reduces stock by qty. Returns
	// utils.ErrProductNotFound or *utils.InsufficientStockError carrying the
	// available count.
	DecrementStock(ctx context.Context, id, qty int) error

	// RestockProduct adds qty back; used to compensate a failed ledger append.
	RestockProduct(ctx context.Context, id, qty int) error

	// DeleteProduct removes a product. Returns utils.ErrProductHasOrders while
	// any order references it, utils.ErrProductNotFound when absent.
	DeleteProduct(ctx context.Context, id int) error

	// CountProducts returns the catalog size (used for boot-time seeding).
	CountProducts(ctx context.Context) (int, error)
}

// Ledger is the order store contract. Ids are assigned on append from a
// monotonic sequence and never reused after deletion.
type Ledger interface {
	// AppendOrder assigns an id and inserts. Timestamps must already be
	// stamped by the caller.
	AppendOrder(ctx context.Context, order *models.Order) error

	// GetOrder returns an order or utils.ErrOrderNotFound.
	GetOrder(ctx context.Context, id int) (*models.Order, error)

	// ListOrders returns all orders, created_at descending with id descending
	// as tie-break.
	ListOrders(ctx context.Context) ([]models.Order, error)

	// FindOrdersByPhone returns orders whose customer_phone exactly equals
	// phone, same ordering as ListOrders. No match yields an empty slice.
	FindOrdersByPhone(ctx context.Context, phone string) ([]models.Order, error)

	// UpdateOrder applies a partial update (payment_status, order_status,
	// notes) and sets updated_at. Returns utils.ErrOrderNotFound when absent.
	UpdateOrder(ctx context.Context, id int, patch *models.OrderPatch, updatedAt time.Time) error

	// DeleteOrder removes an order or returns utils.ErrOrderNotFound.
	DeleteOrder(ctx context.Context, id int) error

	// CountOrdersByProduct returns how many orders reference the product.
	CountOrdersByProduct(ctx context.Context, productID int) (int, error)
}

// Store couples a Catalog and a Ledger over the same backing storage.
type Store interface {
	Catalog
	Ledger
}
