package utils

import (
	"errors"
	"fmt"
)

// Common application errors used across services and stores.
var (
	ErrUnauthorized        = errors.New("UNAUTHORIZED")
	ErrInvalidAdminCode    = errors.New("INVALID_ADMIN_CODE")
	ErrProductNotFound     = errors.New("PRODUCT_NOT_FOUND")
	ErrOrderNotFound       = errors.New("ORDER_NOT_FOUND")
	ErrProductHasOrders    = errors.New("PRODUCT_HAS_ORDERS")
	ErrInvalidQuantity     = errors.New("INVALID_QUANTITY")
	ErrStorageUnavailable  = errors.New("STORAGE_UNAVAILABLE")
	ErrSessionNotFound     = errors.New("SESSION_NOT_FOUND")
)

// ValidationError reports a malformed or missing request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Missing required field: %s", e.Field)
}

// MissingField builds a ValidationError for an absent required field.
func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field}
}

// InsufficientStockError is returned when an order asks for more units than
// the catalog holds. Available carries the stock count at check time so the
// caller can surface it to the customer.
type InsufficientStockError struct {
	ProductID int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Only %d items available in stock", e.Available)
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidQuantity)
}

// IsInsufficientStock reports whether err is a stock shortage.
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}
