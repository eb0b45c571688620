// Package instrumented decorates a content store with metrics and tracing.
package instrumented

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"blog-content/internal/domain/entity"
	"blog-content/internal/observability/metrics"
	"blog-content/internal/observability/tracing"
	"blog-content/internal/repository"
)

// Store forwards every call to the wrapped store, recording
// content_store_* metrics and one span per call.
type Store struct {
	next repository.ContentStore
}

var _ repository.ContentStore = (*Store)(nil)

// Wrap decorates next.
func Wrap(next repository.ContentStore) *Store {
	return &Store{next: next}
}

// Unwrap returns the decorated store.
func (s *Store) Unwrap() repository.ContentStore { return s.next }

func (s *Store) Backend() string { return s.next.Backend() }

func (s *Store) Close() error { return s.next.Close() }

// observe starts a span for op and returns the function that ends it.
func (s *Store) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	backend := s.next.Backend()
	attrs = append(attrs, attribute.String("content.backend", backend))
	ctx, span := tracing.StartSpan(ctx, "content.store."+op, attrs...)
	start := time.Now()

	return ctx, func(err error) {
		metrics.RecordStoreOperation(backend, op, time.Since(start), err)
		tracing.RecordError(span, err)
		span.End()
	}
}

func (s *Store) Initialize(ctx context.Context) (err error) {
	ctx, done := s.observe(ctx, "initialize")
	defer func() { done(err) }()
	return s.next.Initialize(ctx)
}

func (s *Store) ListPosts(ctx context.Context, filter repository.PostFilter) (posts []*entity.Post, err error) {
	ctx, done := s.observe(ctx, "list_posts",
		attribute.String("filter.status", string(filter.Status)),
		attribute.Int("filter.offset", filter.Offset),
		attribute.Int("filter.limit", filter.Limit))
	defer func() { done(err) }()
	return s.next.ListPosts(ctx, filter)
}

func (s *Store) GetPost(ctx context.Context, id string) (post *entity.Post, err error) {
	ctx, done := s.observe(ctx, "get_post", attribute.String("post.id", id))
	defer func() { done(err) }()
	return s.next.GetPost(ctx, id)
}

func (s *Store) GetPostBySlug(ctx context.Context, slug string) (post *entity.Post, err error) {
	ctx, done := s.observe(ctx, "get_post_by_slug", attribute.String("post.slug", slug))
	defer func() { done(err) }()
	return s.next.GetPostBySlug(ctx, slug)
}

func (s *Store) CreatePost(ctx context.Context, post *entity.Post) (err error) {
	ctx, done := s.observe(ctx, "create_post", attribute.String("post.id", post.ID))
	defer func() { done(err) }()
	return s.next.CreatePost(ctx, post)
}

func (s *Store) UpdatePost(ctx context.Context, post *entity.Post) (err error) {
	ctx, done := s.observe(ctx, "update_post", attribute.String("post.id", post.ID))
	defer func() { done(err) }()
	return s.next.UpdatePost(ctx, post)
}

func (s *Store) DeletePost(ctx context.Context, id string) (err error) {
	ctx, done := s.observe(ctx, "delete_post", attribute.String("post.id", id))
	defer func() { done(err) }()
	return s.next.DeletePost(ctx, id)
}

func (s *Store) ListCategories(ctx context.Context) (categories []*entity.Category, err error) {
	ctx, done := s.observe(ctx, "list_categories")
	defer func() { done(err) }()
	return s.next.ListCategories(ctx)
}

func (s *Store) GetCategory(ctx context.Context, id string) (category *entity.Category, err error) {
	ctx, done := s.observe(ctx, "get_category", attribute.String("category.id", id))
	defer func() { done(err) }()
	return s.next.GetCategory(ctx, id)
}

func (s *Store) ListTags(ctx context.Context) (tags []*entity.Tag, err error) {
	ctx, done := s.observe(ctx, "list_tags")
	defer func() { done(err) }()
	return s.next.ListTags(ctx)
}

func (s *Store) GetTagsByIDs(ctx context.Context, ids []string) (tags []*entity.Tag, err error) {
	ctx, done := s.observe(ctx, "get_tags", attribute.StringSlice("tag.ids", ids))
	defer func() { done(err) }()
	return s.next.GetTagsByIDs(ctx, ids)
}

func (s *Store) GetAuthor(ctx context.Context, id string) (author *entity.Author, err error) {
	ctx, done := s.observe(ctx, "get_author", attribute.String("author.id", id))
	defer func() { done(err) }()
	return s.next.GetAuthor(ctx, id)
}
