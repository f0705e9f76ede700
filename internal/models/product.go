package models

import "time"

// PlaceholderImage is used when an admin submits a product without an image URL.
const PlaceholderImage = "https://via.placeholder.com/400x300/6c757d/ffffff?text=Cookware+Item"

// DefaultDescription is applied to products submitted without one.
const DefaultDescription = "Premium cookware item"

// Product represents a catalog entry. Price is an integer rupee amount and
// stock is the number of units on hand; both invariants (price > 0,
// stock >= 0) are enforced at the service/store boundary, not by schema
// constraints.
type Product struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       int       `db:"price" json:"price"`
	Image       string    `db:"image" json:"image"`
	Stock       int       `db:"stock" json:"stock"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}
