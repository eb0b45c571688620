package localstore

import (
	"context"

	"blog-content/internal/domain/entity"
)

// ListCategories implements repository.CategoryRepository.
// A collection that was never written reads as the seed categories.
func (s *Store) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	var stored []entity.Category
	found, err := s.get(KeyCategories, &stored)
	if err != nil {
		return nil, err
	}
	if !found {
		stored = s.seed.Categories
	}

	out := make([]*entity.Category, 0, len(stored))
	for i := range stored {
		c := stored[i]
		out = append(out, &c)
	}
	return out, nil
}

// GetCategory implements repository.CategoryRepository.
func (s *Store) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

// ListTags implements repository.TagRepository.
// A collection that was never written reads as the seed tags.
func (s *Store) ListTags(ctx context.Context) ([]*entity.Tag, error) {
	var stored []entity.Tag
	found, err := s.get(KeyTags, &stored)
	if err != nil {
		return nil, err
	}
	if !found {
		stored = s.seed.Tags
	}

	out := make([]*entity.Tag, 0, len(stored))
	for i := range stored {
		t := stored[i]
		out = append(out, &t)
	}
	return out, nil
}

// GetTagsByIDs implements repository.TagRepository. Stored order is kept.
func (s *Store) GetTagsByIDs(ctx context.Context, ids []string) ([]*entity.Tag, error) {
	if len(ids) == 0 {
		return []*entity.Tag{}, nil
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]*entity.Tag, 0, len(ids))
	for _, t := range tags {
		if want[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetAuthor implements repository.AuthorRepository.
func (s *Store) GetAuthor(ctx context.Context, id string) (*entity.Author, error) {
	var stored []entity.Author
	found, err := s.get(KeyAuthors, &stored)
	if err != nil {
		return nil, err
	}
	if !found {
		stored = s.seed.Authors
	}

	for i := range stored {
		if stored[i].ID == id {
			a := stored[i]
			return &a, nil
		}
	}
	return nil, nil
}
