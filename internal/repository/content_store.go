// Package repository defines the storage capabilities the content use cases depend on.
// Each backend (remote relational store, local key-value store) implements ContentStore
// in full so the facade never branches on which one it holds.
package repository

import "context"

// ContentStore is the single storage capability selected once at composition time.
type ContentStore interface {
	PostRepository
	CategoryRepository
	TagRepository
	AuthorRepository

	// Initialize seeds reference data that is absent. Calling it again is a no-op.
	Initialize(ctx context.Context) error
	// Backend names the implementation for logs and metrics ("postgres", "local", ...).
	Backend() string
	// Close releases the underlying connection or database handle.
	Close() error
}
