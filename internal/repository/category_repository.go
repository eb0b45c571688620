package repository

import (
	"context"

	"blog-content/internal/domain/entity"
)

// CategoryRepository reads category reference data.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	// GetCategory returns (nil, nil) if the category does not exist.
	GetCategory(ctx context.Context, id string) (*entity.Category, error)
}

// TagRepository reads tag reference data.
type TagRepository interface {
	ListTags(ctx context.Context) ([]*entity.Tag, error)
	// GetTagsByIDs returns the known tags among ids. Unknown ids are skipped.
	GetTagsByIDs(ctx context.Context, ids []string) ([]*entity.Tag, error)
}

// AuthorRepository reads author records.
type AuthorRepository interface {
	// GetAuthor returns (nil, nil) if the author does not exist.
	GetAuthor(ctx context.Context, id string) (*entity.Author, error)
}
