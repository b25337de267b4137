package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("class sentinel matches any error of the same kind", func(t *testing.T) {
		err := NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
		assert.True(t, errors.Is(err, ErrValidation))
		assert.False(t, errors.Is(err, ErrNotFound))
	})

	t.Run("coded sentinel matches only the same code", func(t *testing.T) {
		err := NewConflictError("CONCURRENT_MODIFICATION", "Requisition was modified")
		assert.True(t, errors.Is(err, ErrConcurrencyConflict))
		assert.True(t, errors.Is(err, ErrConflict))

		other := NewConflictError("DUPLICATE_NUMBER", "Number already taken")
		assert.False(t, errors.Is(other, ErrConcurrencyConflict))
		assert.True(t, errors.Is(other, ErrConflict))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("saving requisition: %w", NewNotFoundError("REQUISITION_NOT_FOUND", "Requisition not found"))
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("does not match plain errors", func(t *testing.T) {
		err := NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
		assert.False(t, errors.Is(err, errors.New("some error")))
	})
}

func TestDomainError_Error(t *testing.T) {
	err := NewInvalidStateError("INVALID_STATE", "Cannot approve requisition in REJECTED status")
	assert.Equal(t, "Cannot approve requisition in REJECTED status", err.Error())
	assert.Equal(t, KindInvalidState, err.Kind)
	assert.Equal(t, "INVALID_STATE", err.Code)
}
