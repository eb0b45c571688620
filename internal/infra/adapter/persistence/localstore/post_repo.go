package localstore

import (
	"context"
	"fmt"
	"strings"

	"blog-content/internal/common/pagination"
	"blog-content/internal/domain/entity"
	"blog-content/internal/repository"
)

func (s *Store) loadPosts() ([]*entity.Post, error) {
	posts := make([]*entity.Post, 0)
	if _, err := s.get(KeyPosts, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPosts implements repository.PostRepository. Posts keep insertion order.
func (s *Store) ListPosts(ctx context.Context, filter repository.PostFilter) ([]*entity.Post, error) {
	posts, err := s.loadPosts()
	if err != nil {
		return nil, err
	}

	matched := make([]*entity.Post, 0, len(posts))
	search := strings.ToLower(filter.Search)
	for _, p := range posts {
		if matchesFilter(p, filter, search) {
			matched = append(matched, p)
		}
	}

	start, end := pagination.Bounds(len(matched), filter.Offset, filter.Limit)
	result := make([]*entity.Post, 0, end-start)
	for _, p := range matched[start:end] {
		result = append(result, p.Clone())
	}
	return result, nil
}

// matchesFilter applies every set constraint. search must already be lowercased.
func matchesFilter(p *entity.Post, f repository.PostFilter, search string) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if search != "" && !matchesSearch(p, search) {
		return false
	}
	if f.CategoryID != "" && p.Category.ID != f.CategoryID {
		return false
	}
	if len(f.TagIDs) > 0 && !p.HasAnyTag(f.TagIDs) {
		return false
	}
	if f.AuthorID != "" && p.Author.ID != f.AuthorID {
		return false
	}
	return true
}

func matchesSearch(p *entity.Post, search string) bool {
	if strings.Contains(strings.ToLower(p.Title), search) ||
		strings.Contains(strings.ToLower(p.Excerpt), search) ||
		strings.Contains(strings.ToLower(p.Content), search) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t.Name), search) {
			return true
		}
	}
	return false
}

// GetPost implements repository.PostRepository.
func (s *Store) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	return s.findPost(func(p *entity.Post) bool { return p.ID == id })
}

// GetPostBySlug implements repository.PostRepository.
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	return s.findPost(func(p *entity.Post) bool { return p.Slug == slug })
}

func (s *Store) findPost(match func(*entity.Post) bool) (*entity.Post, error) {
	posts, err := s.loadPosts()
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if match(p) {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

// CreatePost appends the post to the collection.
func (s *Store) CreatePost(ctx context.Context, post *entity.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.loadPosts()
	if err != nil {
		return err
	}
	for _, p := range posts {
		if p.ID == post.ID {
			return s.backendError("create post", fmt.Errorf("id %s: %w", post.ID, entity.ErrConflict))
		}
	}
	if err := s.checkSlugFree(posts, post); err != nil {
		return s.backendError("create post", err)
	}

	return s.put(KeyPosts, append(posts, post.Clone()))
}

// UpdatePost replaces the stored post in place, keeping its position.
func (s *Store) UpdatePost(ctx context.Context, post *entity.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.loadPosts()
	if err != nil {
		return err
	}
	i := indexOf(posts, post.ID)
	if i < 0 {
		return fmt.Errorf("update post %s: %w", post.ID, entity.ErrNotFound)
	}
	if err := s.checkSlugFree(posts, post); err != nil {
		return s.backendError("update post", err)
	}
	posts[i] = post.Clone()

	return s.put(KeyPosts, posts)
}

// DeletePost removes the post. Tag associations live on the post and go with it.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.loadPosts()
	if err != nil {
		return err
	}
	i := indexOf(posts, id)
	if i < 0 {
		return fmt.Errorf("delete post %s: %w", id, entity.ErrNotFound)
	}

	return s.put(KeyPosts, append(posts[:i], posts[i+1:]...))
}

func indexOf(posts []*entity.Post, id string) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// checkSlugFree fails when a post other than post already uses its slug.
func (s *Store) checkSlugFree(posts []*entity.Post, post *entity.Post) error {
	for _, p := range posts {
		if p.Slug == post.Slug && p.ID != post.ID {
			return fmt.Errorf("slug %q used by post %s: %w", post.Slug, p.ID, entity.ErrConflict)
		}
	}
	return nil
}
