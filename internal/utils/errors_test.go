package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessages(t *testing.T) {
	assert.Equal(t, "Missing required field: customer_phone", MissingField("customer_phone").Error())
	assert.Equal(t, "Invalid quantity", (&ValidationError{Field: "quantity", Message: "Invalid quantity"}).Error())
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(MissingField("x")))
	assert.True(t, IsValidation(fmt.Errorf("create order: %w", MissingField("x"))))
	assert.True(t, IsValidation(ErrInvalidQuantity))
	assert.False(t, IsValidation(ErrProductNotFound))
	assert.False(t, IsValidation(nil))
}

func TestIsInsufficientStock(t *testing.T) {
	err := &InsufficientStockError{ProductID: 1, Available: 3}
	assert.Equal(t, "Only 3 items available in stock", err.Error())
	assert.True(t, IsInsufficientStock(err))
	assert.True(t, IsInsufficientStock(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsInsufficientStock(ErrProductNotFound))
}
