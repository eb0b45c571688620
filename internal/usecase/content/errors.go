// Package content provides the content repository facade: the single entry
// point for listing, reading, creating, updating and deleting blog posts and
// for reading categories and tags, independent of the backend in use.
package content

import "errors"

// Sentinel errors for content use case operations.
var (
	// ErrPostNotFound indicates that a mutation targeted a post that does not exist.
	// It is returned wrapped in an *entity.ValidationError on field "id".
	ErrPostNotFound = errors.New("post not found")

	// ErrCategoryNotFound indicates that the referenced category does not exist.
	// It is returned wrapped in an *entity.ValidationError on field "categoryId".
	ErrCategoryNotFound = errors.New("category not found")

	// ErrSlugTaken indicates that another post already has the slug a title derives.
	// It is returned wrapped in an *entity.ValidationError on field "title".
	ErrSlugTaken = errors.New("slug already in use")
)
