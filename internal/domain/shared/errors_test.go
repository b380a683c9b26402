package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("carry a domain code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading item: %w", ErrNotFound)

		var derr *DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, CodeNotFound, derr.Code)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("stay distinguishable from each other", func(t *testing.T) {
		assert.False(t, errors.Is(ErrNotFound, ErrConflict))
		assert.False(t, errors.Is(ErrAlreadyExists, ErrNotFound))
	})

	t.Run("codes match the taxonomy", func(t *testing.T) {
		assert.Equal(t, CodeAlreadyExists, ErrAlreadyExists.Code)
		assert.Equal(t, CodeInvalidInput, ErrInvalidInput.Code)
		assert.Equal(t, CodeInvalidState, ErrInvalidState.Code)
		assert.Equal(t, CodeInsufficientStock, ErrInsufficientStock.Code)
		assert.Equal(t, CodeConflict, ErrConflict.Code)
		assert.Equal(t, "INSUFFICIENT_BALANCE", ErrInsufficientBalance.Code)
	})
}
