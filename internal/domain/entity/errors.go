package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")

	// ErrNotConfigured indicates that no content backend is available
	ErrNotConfigured = errors.New("content backend not configured")

	// ErrStorageCapacity indicates that a local write exceeded the storage quota
	ErrStorageCapacity = errors.New("storage capacity exceeded")

	// ErrBackendQuery indicates that a storage backend rejected or failed an operation
	ErrBackendQuery = errors.New("backend query failed")

	// ErrConflict indicates that an entity with the same identity already exists
	ErrConflict = errors.New("entity already exists")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
// Err optionally carries a more specific cause (for example a not-found sentinel).
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// Unwrap returns the specific cause, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConfigurationError is returned when the remote backend is not configured
// and local fallback is not permitted.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// Is makes every ConfigurationError match ErrNotConfigured.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrNotConfigured
}

// StorageCapacityError is returned when a local collection write would exceed the quota.
type StorageCapacityError struct {
	Collection string
	Size       int
	Limit      int
}

func (e *StorageCapacityError) Error() string {
	return fmt.Sprintf(
		"storage quota exceeded writing %s (%d bytes, limit %d): reduce the content or featured image size and try again",
		e.Collection, e.Size, e.Limit)
}

// Is makes every StorageCapacityError match ErrStorageCapacity.
func (e *StorageCapacityError) Is(target error) bool {
	return target == ErrStorageCapacity
}

// BackendQueryError wraps a failure reported by a storage backend: a remote
// query, or a read or write of the local key-value store.
type BackendQueryError struct {
	Op  string
	Err error
}

func (e *BackendQueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Is makes every BackendQueryError match ErrBackendQuery.
func (e *BackendQueryError) Is(target error) bool {
	return target == ErrBackendQuery
}

// Unwrap returns the underlying backend error.
func (e *BackendQueryError) Unwrap() error {
	return e.Err
}
