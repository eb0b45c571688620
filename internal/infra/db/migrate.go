package db

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"blog-content/internal/infra/seed"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS authors (
    id     TEXT PRIMARY KEY,
    name   TEXT NOT NULL,
    avatar TEXT NOT NULL DEFAULT '',
    bio    TEXT NOT NULL DEFAULT ''
)`,
	`CREATE TABLE IF NOT EXISTS categories (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    slug        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT ''
)`,
	`CREATE TABLE IF NOT EXISTS tags (
    id   TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE
)`,
	`CREATE TABLE IF NOT EXISTS blog_posts (
    id             TEXT PRIMARY KEY,
    title          TEXT NOT NULL,
    slug           TEXT NOT NULL,
    excerpt        TEXT NOT NULL,
    content        TEXT NOT NULL,
    author_id      TEXT NOT NULL REFERENCES authors(id),
    category_id    TEXT NOT NULL REFERENCES categories(id),
    status         TEXT NOT NULL DEFAULT 'draft'
                   CHECK (status IN ('draft', 'published', 'scheduled')),
    featured_image TEXT NOT NULL DEFAULT '',
    read_time      INTEGER NOT NULL DEFAULT 1,
    published_at   TIMESTAMPTZ,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS blog_post_tags (
    post_id TEXT NOT NULL REFERENCES blog_posts(id) ON DELETE CASCADE,
    tag_id  TEXT NOT NULL REFERENCES tags(id),
    PRIMARY KEY (post_id, tag_id)
)`,
}

var indexes = []string{
	// ORDER BY created_at DESC on every listing
	`CREATE INDEX IF NOT EXISTS idx_blog_posts_created_at ON blog_posts(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_blog_posts_status ON blog_posts(status)`,
	`CREATE INDEX IF NOT EXISTS idx_blog_posts_category_id ON blog_posts(category_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_blog_posts_slug ON blog_posts(slug)`,
	// tag filter: EXISTS (... WHERE tag_id IN ...)
	`CREATE INDEX IF NOT EXISTS idx_blog_post_tags_tag_id ON blog_post_tags(tag_id)`,
}

// ILIKE search over title/excerpt/content. Needs pg_trgm, which hosted
// tiers may not allow; failures are ignored.
var searchIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_blog_posts_title_gin ON blog_posts USING gin(title gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_blog_posts_excerpt_gin ON blog_posts USING gin(excerpt gin_trgm_ops)`,
}

// MigrateUp creates the content schema. It is safe to run repeatedly.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}

	_, _ = db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	for _, idx := range searchIndexes {
		_, _ = db.ExecContext(ctx, idx)
	}

	return nil
}

// MigrateDown drops the content schema in reverse dependency order.
// Use with caution: this deletes every post, category, tag and author.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS blog_post_tags`,
		`DROP TABLE IF EXISTS blog_posts`,
		`DROP TABLE IF EXISTS tags`,
		`DROP TABLE IF EXISTS categories`,
		`DROP TABLE IF EXISTS authors`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

// Seed inserts reference data in one transaction. Rows whose id already
// exists are left untouched, so Seed never overwrites edited content.
func Seed(ctx context.Context, db *sql.DB, data *seed.Data) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(tx)

	if len(data.Authors) > 0 {
		q := psql.Insert("authors").Columns("id", "name", "avatar", "bio")
		for _, a := range data.Authors {
			q = q.Values(a.ID, a.Name, a.Avatar, a.Bio)
		}
		if _, err = q.Suffix("ON CONFLICT (id) DO NOTHING").ExecContext(ctx); err != nil {
			return fmt.Errorf("seed authors: %w", err)
		}
	}

	if len(data.Categories) > 0 {
		q := psql.Insert("categories").Columns("id", "name", "slug", "description")
		for _, c := range data.Categories {
			q = q.Values(c.ID, c.Name, c.Slug, c.Description)
		}
		if _, err = q.Suffix("ON CONFLICT (id) DO NOTHING").ExecContext(ctx); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	}

	if len(data.Tags) > 0 {
		q := psql.Insert("tags").Columns("id", "name", "slug")
		for _, t := range data.Tags {
			q = q.Values(t.ID, t.Name, t.Slug)
		}
		if _, err = q.Suffix("ON CONFLICT (id) DO NOTHING").ExecContext(ctx); err != nil {
			return fmt.Errorf("seed tags: %w", err)
		}
	}

	for _, p := range data.Posts {
		_, err = psql.Insert("blog_posts").
			Columns("id", "title", "slug", "excerpt", "content", "author_id", "category_id",
				"status", "featured_image", "read_time", "published_at", "created_at", "updated_at").
			Values(p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.Author.ID, p.Category.ID,
				string(p.Status), p.FeaturedImage, p.ReadTime, p.PublishedAt, p.CreatedAt, p.UpdatedAt).
			Suffix("ON CONFLICT (id) DO NOTHING").
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("seed post %s: %w", p.ID, err)
		}
		if len(p.Tags) == 0 {
			continue
		}
		q := psql.Insert("blog_post_tags").Columns("post_id", "tag_id")
		for _, t := range p.Tags {
			q = q.Values(p.ID, t.ID)
		}
		if _, err = q.Suffix("ON CONFLICT DO NOTHING").ExecContext(ctx); err != nil {
			return fmt.Errorf("seed post %s tags: %w", p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	return nil
}
