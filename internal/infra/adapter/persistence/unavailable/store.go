// Package unavailable provides the content store used when no backend may be used.
// Every operation fails with *entity.ConfigurationError.
package unavailable

import (
	"context"

	"blog-content/internal/domain/entity"
	"blog-content/internal/repository"
)

// BackendName identifies this store in logs and metrics.
const BackendName = "unavailable"

// DefaultMessage explains why nothing works.
const DefaultMessage = "remote backend is not configured (set DATABASE_URL) and local fallback is disabled (set CONTENT_LOCAL_FALLBACK=true)"

// Store rejects every call.
type Store struct {
	message string
}

var _ repository.ContentStore = (*Store)(nil)

// New returns a store whose errors carry message, or DefaultMessage when empty.
func New(message string) *Store {
	if message == "" {
		message = DefaultMessage
	}
	return &Store{message: message}
}

func (s *Store) err() error {
	return &entity.ConfigurationError{Message: s.message}
}

func (s *Store) Backend() string { return BackendName }

func (s *Store) Close() error { return nil }

func (s *Store) Initialize(ctx context.Context) error { return s.err() }

func (s *Store) ListPosts(ctx context.Context, filter repository.PostFilter) ([]*entity.Post, error) {
	return nil, s.err()
}

func (s *Store) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	return nil, s.err()
}

func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	return nil, s.err()
}

func (s *Store) CreatePost(ctx context.Context, post *entity.Post) error { return s.err() }

func (s *Store) UpdatePost(ctx context.Context, post *entity.Post) error { return s.err() }

func (s *Store) DeletePost(ctx context.Context, id string) error { return s.err() }

func (s *Store) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	return nil, s.err()
}

func (s *Store) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	return nil, s.err()
}

func (s *Store) ListTags(ctx context.Context) ([]*entity.Tag, error) {
	return nil, s.err()
}

func (s *Store) GetTagsByIDs(ctx context.Context, ids []string) ([]*entity.Tag, error) {
	return nil, s.err()
}

func (s *Store) GetAuthor(ctx context.Context, id string) (*entity.Author, error) {
	return nil, s.err()
}
