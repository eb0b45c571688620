package repository

import (
	"context"

	"blog-content/internal/domain/entity"
)

// PostFilter contains optional constraints for listing posts.
// A zero value field means "no constraint on that field".
type PostFilter struct {
	Status     entity.Status // Optional: exact status match
	Search     string        // Optional: case-insensitive substring over title, excerpt, content and tag names
	CategoryID string        // Optional: exact category match
	TagIDs     []string      // Optional: post matches if it carries any of these tags
	AuthorID   string        // Optional: exact author match
	Offset     int           // Rows to skip after filtering and ordering
	Limit      int           // Maximum rows to return; 0 means unlimited
}

// PostRepository persists posts together with their tag associations.
type PostRepository interface {
	// ListPosts returns posts matching the filter.
	// Remote stores order newest first by creation time; local stores keep insertion order.
	// Returns an empty slice (not nil) when nothing matches.
	ListPosts(ctx context.Context, filter PostFilter) ([]*entity.Post, error)
	// GetPost returns (nil, nil) if the post does not exist.
	GetPost(ctx context.Context, id string) (*entity.Post, error)
	// GetPostBySlug returns (nil, nil) if no post has the slug.
	GetPostBySlug(ctx context.Context, slug string) (*entity.Post, error)
	// CreatePost stores a fully hydrated post, including its tag associations.
	CreatePost(ctx context.Context, post *entity.Post) error
	// UpdatePost replaces the stored post and its full tag association set.
	UpdatePost(ctx context.Context, post *entity.Post) error
	// DeletePost removes the post and its tag associations.
	DeletePost(ctx context.Context, id string) error
}
