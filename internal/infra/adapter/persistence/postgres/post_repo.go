package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"blog-content/internal/domain/entity"
	"blog-content/internal/repository"
)

type postRow struct {
	ID                  string       `db:"id"`
	Title               string       `db:"title"`
	Slug                string       `db:"slug"`
	Excerpt             string       `db:"excerpt"`
	Content             string       `db:"content"`
	Status              string       `db:"status"`
	FeaturedImage       string       `db:"featured_image"`
	ReadTime            int          `db:"read_time"`
	PublishedAt         sql.NullTime `db:"published_at"`
	CreatedAt           time.Time    `db:"created_at"`
	UpdatedAt           time.Time    `db:"updated_at"`
	AuthorID            string       `db:"author_id"`
	AuthorName          string       `db:"author_name"`
	AuthorAvatar        string       `db:"author_avatar"`
	AuthorBio           string       `db:"author_bio"`
	CategoryID          string       `db:"category_id"`
	CategoryName        string       `db:"category_name"`
	CategorySlug        string       `db:"category_slug"`
	CategoryDescription string       `db:"category_description"`
}

func (r *postRow) toEntity() *entity.Post {
	post := &entity.Post{
		ID:            r.ID,
		Title:         r.Title,
		Slug:          r.Slug,
		Excerpt:       r.Excerpt,
		Content:       r.Content,
		Status:        entity.Status(r.Status),
		FeaturedImage: r.FeaturedImage,
		ReadTime:      r.ReadTime,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Author: entity.Author{
			ID:     r.AuthorID,
			Name:   r.AuthorName,
			Avatar: r.AuthorAvatar,
			Bio:    r.AuthorBio,
		},
		Category: entity.Category{
			ID:          r.CategoryID,
			Name:        r.CategoryName,
			Slug:        r.CategorySlug,
			Description: r.CategoryDescription,
		},
		Tags: []entity.Tag{},
	}
	if r.PublishedAt.Valid {
		t := r.PublishedAt.Time
		post.PublishedAt = &t
	}
	return post
}

type postTagRow struct {
	PostID string `db:"post_id"`
	ID     string `db:"id"`
	Name   string `db:"name"`
	Slug   string `db:"slug"`
}

// ListPosts implements repository.PostRepository.
func (s *Store) ListPosts(ctx context.Context, filter repository.PostFilter) ([]*entity.Post, error) {
	var posts []*entity.Post
	err := s.read(ctx, "list posts", func(ctx context.Context) error {
		query, args, err := buildListQuery(filter).ToSql()
		if err != nil {
			return fmt.Errorf("ListPosts: build: %w", err)
		}

		var rows []postRow
		if err := sqlx.SelectContext(ctx, s.db, &rows, query, args...); err != nil {
			return fmt.Errorf("ListPosts: %w", err)
		}

		posts = make([]*entity.Post, 0, len(rows))
		for i := range rows {
			posts = append(posts, rows[i].toEntity())
		}
		return s.attachTags(ctx, posts)
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost implements repository.PostRepository.
func (s *Store) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	return s.getOne(ctx, "get post", sq.Eq{"p.id": id})
}

// GetPostBySlug implements repository.PostRepository.
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	return s.getOne(ctx, "get post by slug", sq.Eq{"p.slug": slug})
}

func (s *Store) getOne(ctx context.Context, op string, where sq.Eq) (*entity.Post, error) {
	var post *entity.Post
	err := s.read(ctx, op, func(ctx context.Context) error {
		query, args, err := selectPosts().Where(where).OrderBy("p.created_at DESC").Limit(1).ToSql()
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}

		var row postRow
		err = sqlx.GetContext(ctx, s.db, &row, query, args...)
		if errors.Is(err, sql.ErrNoRows) {
			post = nil
			return nil
		}
		if err != nil {
			return err
		}

		post = row.toEntity()
		return s.attachTags(ctx, []*entity.Post{post})
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// attachTags fills Tags of every post with a single second query.
func (s *Store) attachTags(ctx context.Context, posts []*entity.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, 0, len(posts))
	byID := make(map[string]*entity.Post, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	query, args, err := buildTagQuery(ids).ToSql()
	if err != nil {
		return fmt.Errorf("attachTags: build: %w", err)
	}

	var rows []postTagRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, args...); err != nil {
		return fmt.Errorf("attachTags: %w", err)
	}

	for _, r := range rows {
		if p, ok := byID[r.PostID]; ok {
			p.Tags = append(p.Tags, entity.Tag{ID: r.ID, Name: r.Name, Slug: r.Slug})
		}
	}
	return nil
}

// CreatePost inserts the post row and its tag associations in one transaction.
func (s *Store) CreatePost(ctx context.Context, post *entity.Post) error {
	return s.write(ctx, "create post", func(ctx context.Context) error {
		return s.inTx(ctx, func(tx *sqlx.Tx) error {
			_, err := psql.Insert("blog_posts").
				Columns("id", "title", "slug", "excerpt", "content", "author_id", "category_id",
					"status", "featured_image", "read_time", "published_at", "created_at", "updated_at").
				Values(post.ID, post.Title, post.Slug, post.Excerpt, post.Content, post.Author.ID,
					post.Category.ID, string(post.Status), post.FeaturedImage, post.ReadTime,
					post.PublishedAt, post.CreatedAt, post.UpdatedAt).
				RunWith(tx).
				ExecContext(ctx)
			if err != nil {
				return fmt.Errorf("CreatePost: %w", err)
			}
			return insertPostTags(ctx, tx, post.ID, post.TagIDs())
		})
	})
}

// UpdatePost rewrites the post row and replaces its tag set in one transaction.
func (s *Store) UpdatePost(ctx context.Context, post *entity.Post) error {
	return s.write(ctx, "update post", func(ctx context.Context) error {
		return s.inTx(ctx, func(tx *sqlx.Tx) error {
			res, err := psql.Update("blog_posts").
				SetMap(map[string]interface{}{
					"title":          post.Title,
					"slug":           post.Slug,
					"excerpt":        post.Excerpt,
					"content":        post.Content,
					"category_id":    post.Category.ID,
					"status":         string(post.Status),
					"featured_image": post.FeaturedImage,
					"read_time":      post.ReadTime,
					"published_at":   post.PublishedAt,
					"updated_at":     post.UpdatedAt,
				}).
				Where(sq.Eq{"id": post.ID}).
				RunWith(tx).
				ExecContext(ctx)
			if err != nil {
				return fmt.Errorf("UpdatePost: %w", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("UpdatePost: post %s: %w", post.ID, entity.ErrNotFound)
			}

			if _, err := psql.Delete("blog_post_tags").
				Where(sq.Eq{"post_id": post.ID}).
				RunWith(tx).
				ExecContext(ctx); err != nil {
				return fmt.Errorf("UpdatePost: clear tags: %w", err)
			}
			return insertPostTags(ctx, tx, post.ID, post.TagIDs())
		})
	})
}

// DeletePost removes the post and its tag associations in one transaction.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	return s.write(ctx, "delete post", func(ctx context.Context) error {
		return s.inTx(ctx, func(tx *sqlx.Tx) error {
			if _, err := psql.Delete("blog_post_tags").
				Where(sq.Eq{"post_id": id}).
				RunWith(tx).
				ExecContext(ctx); err != nil {
				return fmt.Errorf("DeletePost: tags: %w", err)
			}

			res, err := psql.Delete("blog_posts").
				Where(sq.Eq{"id": id}).
				RunWith(tx).
				ExecContext(ctx)
			if err != nil {
				return fmt.Errorf("DeletePost: %w", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("DeletePost: post %s: %w", id, entity.ErrNotFound)
			}
			return nil
		})
	})
}

func insertPostTags(ctx context.Context, tx *sqlx.Tx, postID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	q := psql.Insert("blog_post_tags").Columns("post_id", "tag_id")
	for _, tagID := range tagIDs {
		q = q.Values(postID, tagID)
	}
	if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert post tags: %w", err)
	}
	return nil
}
