// Package publish promotes scheduled posts whose planned publish time has passed.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blog-content/internal/domain/entity"
	"blog-content/internal/observability/metrics"
	"blog-content/internal/usecase/content"
)

// pageSize is the limit asked for per listing query while collecting
// scheduled posts. The facade may cap it lower.
const pageSize = 100

// Posts is the subset of the content facade the publisher needs.
type Posts interface {
	ListPosts(ctx context.Context, opts content.ListOptions) ([]*entity.Post, error)
	UpdatePost(ctx context.Context, id string, in content.UpdateInput) (*entity.Post, error)
}

// Result summarises one publishing pass.
type Result struct {
	Scanned   int
	Published []*entity.Post
	Failed    int
}

// Service runs publishing passes.
type Service struct {
	posts  Posts
	logger *slog.Logger
}

// NewService creates a publisher over posts.
func NewService(posts Posts, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{posts: posts, logger: logger}
}

// PublishDue switches every scheduled post with PublishedAt <= now to published.
// A failure on one post does not stop the others; all failures are joined.
func (s *Service) PublishDue(ctx context.Context, now time.Time) (Result, error) {
	var res Result

	scheduled, err := s.collectScheduled(ctx)
	if err != nil {
		return res, err
	}
	res.Scanned = len(scheduled)

	var errs []error
	status := entity.StatusPublished
	for _, p := range scheduled {
		if !isDue(p, now) {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		updated, err := s.posts.UpdatePost(ctx, p.ID, content.UpdateInput{Status: &status})
		if err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("publish %s: %w", p.ID, err))
			s.logger.Warn("scheduled post not published",
				slog.String("id", p.ID),
				slog.Any("error", err))
			continue
		}
		res.Published = append(res.Published, updated)
		s.logger.Info("scheduled post published",
			slog.String("id", updated.ID),
			slog.String("slug", updated.Slug),
			slog.Time("published_at", *updated.PublishedAt))
	}

	metrics.RecordPublishRun(len(res.Published), res.Failed)
	return res, errors.Join(errs...)
}

// collectScheduled reads every scheduled post before any is modified, so
// promotions cannot shift later pages. It stops at the first empty page: a
// short page does not mean the end when the facade capped the limit.
func (s *Service) collectScheduled(ctx context.Context) ([]*entity.Post, error) {
	var all []*entity.Post
	limit := pageSize
	for page := 1; ; page++ {
		p := page
		batch, err := s.posts.ListPosts(ctx, content.ListOptions{
			Status: entity.StatusScheduled,
			Page:   &p,
			Limit:  &limit,
		})
		if err != nil {
			return nil, fmt.Errorf("list scheduled posts: %w", err)
		}
		if len(batch) == 0 {
			return all, nil
		}
		all = append(all, batch...)
	}
}

func isDue(p *entity.Post, now time.Time) bool {
	return p.Status == entity.StatusScheduled && p.PublishedAt != nil && !p.PublishedAt.After(now)
}
