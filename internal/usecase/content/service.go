package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"blog-content/internal/common/pagination"
	"blog-content/internal/domain/entity"
	"blog-content/internal/repository"
)

// Options configures a Service. Zero values pick sensible defaults.
type Options struct {
	// AuthorID is attached to new posts. Default: "1"
	AuthorID string
	// FallbackAuthor is used when the store has no record for AuthorID.
	FallbackAuthor *entity.Author
	// Pagination supplies page/limit defaults.
	Pagination pagination.Config
	// Clock returns the current time. Default: time.Now
	// Readings are truncated to microseconds, the precision Postgres stores.
	Clock func() time.Time
	// NewID generates post ids. Default: random UUIDs
	NewID func() string
	Logger *slog.Logger
}

// Service is the content repository facade. It holds exactly one store,
// chosen at composition time, and never branches on which one it is.
type Service struct {
	store      repository.ContentStore
	authorID   string
	fallback   *entity.Author
	pagination pagination.Config
	now        func() time.Time
	newID      func() string
	logger     *slog.Logger

	initMu sync.Mutex
	inited bool
}

// NewService creates a Service backed by store.
func NewService(store repository.ContentStore, opts Options) *Service {
	s := &Service{
		store:      store,
		authorID:   opts.AuthorID,
		fallback:   opts.FallbackAuthor,
		pagination: opts.Pagination,
		newID:      opts.NewID,
		logger:     opts.Logger,
	}
	if s.authorID == "" {
		s.authorID = "1"
	}
	if s.pagination == (pagination.Config{}) {
		s.pagination = pagination.DefaultConfig()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	s.now = func() time.Time { return clock().Truncate(time.Microsecond) }
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Backend names the store in use.
func (s *Service) Backend() string {
	return s.store.Backend()
}

// Initialize seeds absent reference data. After one success further calls
// return immediately; after a failure the next call tries again.
func (s *Service) Initialize(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.inited {
		return nil
	}
	if err := s.store.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize content store: %w", err)
	}
	s.inited = true
	s.logger.Info("content store initialized", slog.String("backend", s.store.Backend()))
	return nil
}

/* ───────── reads ───────── */

// ListPosts returns the posts matching opts. Without page and limit every
// match is returned. An empty result is an empty slice, not an error.
func (s *Service) ListPosts(ctx context.Context, opts ListOptions) ([]*entity.Post, error) {
	filter, err := s.buildFilter(opts)
	if err != nil {
		return nil, err
	}

	posts, err := s.store.ListPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *Service) buildFilter(opts ListOptions) (repository.PostFilter, error) {
	filter := repository.PostFilter{
		Status:     opts.Status,
		Search:     opts.Search,
		CategoryID: opts.CategoryID,
		TagIDs:     opts.TagIDs,
		AuthorID:   opts.AuthorID,
	}

	if opts.Status != "" && !opts.Status.Valid() {
		return filter, &entity.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("must be one of draft, published, scheduled (got %q)", opts.Status),
		}
	}

	var params pagination.Params
	if opts.Page != nil {
		if *opts.Page < 1 {
			return filter, &entity.ValidationError{Field: "page", Message: "must be a positive integer"}
		}
		params.Page = *opts.Page
	}
	if opts.Limit != nil {
		if *opts.Limit < 1 {
			return filter, &entity.ValidationError{Field: "limit", Message: "must be a positive integer"}
		}
		params.Limit = *opts.Limit
	}

	filter.Offset, filter.Limit = params.Window(s.pagination)
	return filter, nil
}

// GetPost returns the post with id, or (nil, nil) when there is none.
func (s *Service) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// GetPostBySlug returns the post with slug, or (nil, nil) when there is none.
func (s *Service) GetPostBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	post, err := s.store.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	return post, nil
}

// ListCategories returns every category.
func (s *Service) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListTags returns every tag.
func (s *Service) ListTags(ctx context.Context) ([]*entity.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

/* ───────── writes ───────── */

// CreatePost validates the form data, resolves references, derives slug and
// read time, persists the post and returns it fully hydrated.
func (s *Service) CreatePost(ctx context.Context, in CreateInput) (*entity.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	status, err := entity.ParseStatus(string(in.Status))
	if err != nil {
		return nil, err
	}
	if err := entity.ValidateFeaturedImage(in.FeaturedImage); err != nil {
		return nil, err
	}
	if status == entity.StatusScheduled && in.PublishedAt == nil {
		return nil, &entity.ValidationError{Field: "publishedAt", Message: "is required for scheduled posts"}
	}

	slug := entity.GenerateSlug(in.Title)
	if err := s.ensureSlugFree(ctx, slug, ""); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	author, err := s.resolveAuthor(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &entity.Post{
		ID:            s.newID(),
		Title:         in.Title,
		Slug:          slug,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		Author:        *author,
		Category:      *category,
		Tags:          tags,
		Status:        status,
		FeaturedImage: in.FeaturedImage,
		ReadTime:      entity.CalculateReadTime(in.Content),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	applyPublishedAt(post, "", in.PublishedAt, now)

	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("slug", post.Slug),
		slog.String("status", string(post.Status)))
	return post, nil
}

// UpdatePost applies the fields present in in to the post with id.
// Slug is re-derived only when the title changes and read time only when
// content is supplied. Category and tags are re-resolved only when supplied.
func (s *Service) UpdatePost(ctx context.Context, id string, in UpdateInput) (*entity.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	existing, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if existing == nil {
		return nil, postNotFound(id)
	}

	post := existing.Clone()

	if in.Title != nil && *in.Title != post.Title {
		post.Title = *in.Title
		post.Slug = entity.GenerateSlug(post.Title)
		if post.Slug != existing.Slug {
			if err := s.ensureSlugFree(ctx, post.Slug, post.ID); err != nil {
				return nil, err
			}
		}
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		post.Content = *in.Content
		post.ReadTime = entity.CalculateReadTime(post.Content)
	}
	if in.CategoryID != nil {
		category, err := s.resolveCategory(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		post.Category = *category
	}
	if in.TagIDs != nil {
		tags, err := s.resolveTags(ctx, in.TagIDs)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}
	if in.FeaturedImage != nil {
		if err := entity.ValidateFeaturedImage(*in.FeaturedImage); err != nil {
			return nil, err
		}
		post.FeaturedImage = *in.FeaturedImage
	}
	if in.Status != nil {
		status, err := entity.ParseStatus(string(*in.Status))
		if err != nil {
			return nil, err
		}
		post.Status = status
	}

	now := s.now()
	applyPublishedAt(post, existing.Status, in.PublishedAt, now)
	if post.Status == entity.StatusScheduled && post.PublishedAt == nil {
		return nil, &entity.ValidationError{Field: "publishedAt", Message: "is required for scheduled posts"}
	}
	post.UpdatedAt = now

	if err := s.store.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, postNotFound(id)
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.logger.Info("post updated",
		slog.String("id", post.ID),
		slog.String("status", string(post.Status)))
	return post, nil
}

// DeletePost removes the post with id and its tag associations.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	existing, err := s.store.GetPost(ctx, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if existing == nil {
		return postNotFound(id)
	}

	if err := s.store.DeletePost(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return postNotFound(id)
		}
		return fmt.Errorf("delete post: %w", err)
	}

	s.logger.Info("post deleted", slog.String("id", id))
	return nil
}

/* ───────── helpers ───────── */

// applyPublishedAt sets post.PublishedAt according to its (new) status.
// prev is the status before the change, empty for a new post.
//
//   - published: set once. Input (or now) is used only while the post has no
//     timestamp, or when a scheduled post is published ahead of its planned
//     time. Every other timestamp is kept, even one in the future.
//   - scheduled: input, when given, is the planned publish time.
//   - draft: untouched. PublishedAt is never cleared.
func applyPublishedAt(post *entity.Post, prev entity.Status, input *time.Time, now time.Time) {
	switch post.Status {
	case entity.StatusPublished:
		early := prev == entity.StatusScheduled && post.PublishedAt != nil && post.PublishedAt.After(now)
		if post.PublishedAt != nil && !early {
			return
		}
		at := now
		if input != nil {
			at = input.Truncate(time.Microsecond)
		}
		post.PublishedAt = &at
	case entity.StatusScheduled:
		if input != nil {
			at := input.Truncate(time.Microsecond)
			post.PublishedAt = &at
		}
	}
}

// ensureSlugFree fails when a post other than id already uses slug.
func (s *Service) ensureSlugFree(ctx context.Context, slug, id string) error {
	other, err := s.store.GetPostBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if other != nil && other.ID != id {
		return &entity.ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("slug %q is already used by post %q", slug, other.ID),
			Err:     ErrSlugTaken,
		}
	}
	return nil
}

func postNotFound(id string) error {
	return &entity.ValidationError{
		Field:   "id",
		Message: fmt.Sprintf("post %q not found", id),
		Err:     ErrPostNotFound,
	}
}

func (s *Service) resolveCategory(ctx context.Context, id string) (*entity.Category, error) {
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve category: %w", err)
	}
	if category == nil {
		return nil, &entity.ValidationError{
			Field:   "categoryId",
			Message: fmt.Sprintf("category %q not found", id),
			Err:     ErrCategoryNotFound,
		}
	}
	return category, nil
}

// resolveTags returns the known tags sorted by name. Unknown ids are dropped.
func (s *Service) resolveTags(ctx context.Context, ids []string) ([]entity.Tag, error) {
	if len(ids) == 0 {
		return []entity.Tag{}, nil
	}
	known, err := s.store.GetTagsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	tags := entity.ResolveTags(known, ids)
	if dropped := len(ids) - len(tags); dropped > 0 {
		s.logger.Debug("unknown or duplicate tag ids dropped", slog.Int("dropped", dropped))
	}
	return tags, nil
}

func (s *Service) resolveAuthor(ctx context.Context) (*entity.Author, error) {
	author, err := s.store.GetAuthor(ctx, s.authorID)
	if err != nil {
		return nil, fmt.Errorf("resolve author: %w", err)
	}
	if author != nil {
		return author, nil
	}
	if s.fallback != nil {
		a := *s.fallback
		return &a, nil
	}
	return &entity.Author{ID: s.authorID}, nil
}
