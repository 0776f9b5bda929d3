package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("message_includes_code", func(t *testing.T) {
		err := ErrNotFound("video not found")
		assert.EqualError(t, err, "not_found: video not found")
	})

	t.Run("meta_is_rendered", func(t *testing.T) {
		err := ErrValidationMeta("invalid query param", map[string]string{"limit": "must be a non-negative integer"})
		assert.Contains(t, err.Error(), "validation_error")
		assert.Contains(t, err.Error(), "limit")
	})

	t.Run("errors_as_unwraps_to_app_error", func(t *testing.T) {
		var ae *AppError
		assert.True(t, errors.As(ErrUnavailable("scoring down"), &ae))
		assert.Equal(t, CodeUnavailable, ae.Code)
	})
}
