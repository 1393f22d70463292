package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionError(t *testing.T) {
	err := NewActionError("set-total", "decode payload", ErrInvalidAction)

	assert.Equal(t, "action error [set-total]: decode payload: invalid action", err.Error())
	assert.True(t, Is(err, ErrInvalidAction))

	bare := NewActionError("noop", "skipped", nil)
	assert.Equal(t, "action error [noop]: skipped", bare.Error())
}

func TestValidationErrorUnwrapsToSentinel(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NewValidationError("engine.cache_capacity", 0, "must be positive"))

	assert.True(t, Is(wrapped, ErrInputValidation))
	var verr *ValidationError
	require.True(t, As(wrapped, &verr))
	assert.Equal(t, "engine.cache_capacity", verr.Field)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "id %d", 1))

	err := Wrapf(ErrPortfolioNotFound, "id %q", "p1")
	assert.Equal(t, `id "p1": portfolio not found`, err.Error())
	assert.True(t, Is(err, ErrPortfolioNotFound))
}
