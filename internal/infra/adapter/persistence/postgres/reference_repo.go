package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"blog-content/internal/domain/entity"
)

// ListCategories implements repository.CategoryRepository. Ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category
	err := s.read(ctx, "list categories", func(ctx context.Context) error {
		query, args, err := psql.Select("id", "name", "slug", "description").
			From("categories").
			OrderBy("name").
			ToSql()
		if err != nil {
			return fmt.Errorf("ListCategories: build: %w", err)
		}
		categories = make([]*entity.Category, 0, 16)
		return sqlx.SelectContext(ctx, s.db, &categories, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategory implements repository.CategoryRepository.
func (s *Store) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	var category *entity.Category
	err := s.read(ctx, "get category", func(ctx context.Context) error {
		query, args, err := psql.Select("id", "name", "slug", "description").
			From("categories").
			Where(sq.Eq{"id": id}).
			Limit(1).
			ToSql()
		if err != nil {
			return fmt.Errorf("GetCategory: build: %w", err)
		}

		var c entity.Category
		err = sqlx.GetContext(ctx, s.db, &c, query, args...)
		if errors.Is(err, sql.ErrNoRows) {
			category = nil
			return nil
		}
		if err != nil {
			return err
		}
		category = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// ListTags implements repository.TagRepository. Ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*entity.Tag, error) {
	var tags []*entity.Tag
	err := s.read(ctx, "list tags", func(ctx context.Context) error {
		query, args, err := psql.Select("id", "name", "slug").
			From("tags").
			OrderBy("name").
			ToSql()
		if err != nil {
			return fmt.Errorf("ListTags: build: %w", err)
		}
		tags = make([]*entity.Tag, 0, 32)
		return sqlx.SelectContext(ctx, s.db, &tags, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTagsByIDs implements repository.TagRepository.
func (s *Store) GetTagsByIDs(ctx context.Context, ids []string) ([]*entity.Tag, error) {
	if len(ids) == 0 {
		return []*entity.Tag{}, nil
	}

	var tags []*entity.Tag
	err := s.read(ctx, "get tags", func(ctx context.Context) error {
		query, args, err := psql.Select("id", "name", "slug").
			From("tags").
			Where(sq.Eq{"id": ids}).
			ToSql()
		if err != nil {
			return fmt.Errorf("GetTagsByIDs: build: %w", err)
		}
		tags = make([]*entity.Tag, 0, len(ids))
		return sqlx.SelectContext(ctx, s.db, &tags, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

type authorRow struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Avatar string `db:"avatar"`
	Bio    string `db:"bio"`
}

// GetAuthor implements repository.AuthorRepository.
func (s *Store) GetAuthor(ctx context.Context, id string) (*entity.Author, error) {
	var author *entity.Author
	err := s.read(ctx, "get author", func(ctx context.Context) error {
		query, args, err := psql.Select("id", "name", "avatar", "bio").
			From("authors").
			Where(sq.Eq{"id": id}).
			Limit(1).
			ToSql()
		if err != nil {
			return fmt.Errorf("GetAuthor: build: %w", err)
		}

		var row authorRow
		err = sqlx.GetContext(ctx, s.db, &row, query, args...)
		if errors.Is(err, sql.ErrNoRows) {
			author = nil
			return nil
		}
		if err != nil {
			return err
		}
		author = &entity.Author{ID: row.ID, Name: row.Name, Avatar: row.Avatar, Bio: row.Bio}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return author, nil
}
