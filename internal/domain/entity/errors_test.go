package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "required field error",
			field:    "title",
			message:  "is required",
			expected: "validation error on field 'title': is required",
		},
		{
			name:     "not found reference",
			field:    "categoryId",
			message:  "category not found",
			expected: "validation error on field 'categoryId': category not found",
		},
		{
			name:     "empty message",
			field:    "excerpt",
			message:  "",
			expected: "validation error on field 'excerpt': ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{
				Field:   tt.field,
				Message: tt.message,
			}

			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("post not found")
	err := fmt.Errorf("update post: %w", &ValidationError{Field: "id", Message: "post not found", Err: cause})

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotConfigured))

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "id", vErr.Field)
}

func TestConfigurationError(t *testing.T) {
	err := fmt.Errorf("list posts: %w", &ConfigurationError{Message: "no backend"})

	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Contains(t, err.Error(), "configuration error: no backend")
}

func TestStorageCapacityError(t *testing.T) {
	err := &StorageCapacityError{Collection: "blog_posts", Size: 6000000, Limit: 5242880}

	assert.True(t, errors.Is(err, ErrStorageCapacity))
	assert.Contains(t, err.Error(), "blog_posts")
	assert.Contains(t, err.Error(), "reduce the content or featured image size")
}

func TestBackendQueryError(t *testing.T) {
	driverErr := errors.New("connection reset")
	err := fmt.Errorf("get post: %w", &BackendQueryError{Op: "select blog_posts", Err: driverErr})

	assert.True(t, errors.Is(err, ErrBackendQuery))
	assert.True(t, errors.Is(err, driverErr))
	assert.Equal(t, "get post: select blog_posts: connection reset", err.Error())
}
