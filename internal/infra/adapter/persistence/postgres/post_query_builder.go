package postgres

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"blog-content/internal/repository"
)

// postColumns selects a post with its author and category joined in.
var postColumns = []string{
	"p.id", "p.title", "p.slug", "p.excerpt", "p.content", "p.status",
	"p.featured_image", "p.read_time", "p.published_at", "p.created_at", "p.updated_at",
	"a.id AS author_id", "a.name AS author_name", "a.avatar AS author_avatar", "a.bio AS author_bio",
	"c.id AS category_id", "c.name AS category_name", "c.slug AS category_slug",
	"c.description AS category_description",
}

// ilikeEscaper escapes the LIKE wildcards and the escape character itself.
var ilikeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns an ILIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + ilikeEscaper.Replace(s) + "%"
}

func selectPosts() sq.SelectBuilder {
	return psql.Select(postColumns...).
		From("blog_posts p").
		Join("authors a ON a.id = p.author_id").
		Join("categories c ON c.id = p.category_id")
}

// buildListQuery translates a filter into one post query, newest first.
// Subqueries use ? placeholders; the outer builder renumbers them.
func buildListQuery(filter repository.PostFilter) sq.SelectBuilder {
	q := selectPosts()

	if filter.Status != "" {
		q = q.Where(sq.Eq{"p.status": string(filter.Status)})
	}

	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		tagMatch := sq.Select("1").
			From("blog_post_tags pt").
			Join("tags t ON t.id = pt.tag_id").
			Where("pt.post_id = p.id").
			Where(sq.ILike{"t.name": pattern})
		q = q.Where(sq.Or{
			sq.ILike{"p.title": pattern},
			sq.ILike{"p.excerpt": pattern},
			sq.ILike{"p.content": pattern},
			sq.Expr("EXISTS (?)", tagMatch),
		})
	}

	if filter.CategoryID != "" {
		q = q.Where(sq.Eq{"p.category_id": filter.CategoryID})
	}

	if len(filter.TagIDs) > 0 {
		anyTag := sq.Select("1").
			From("blog_post_tags pt").
			Where("pt.post_id = p.id").
			Where(sq.Eq{"pt.tag_id": filter.TagIDs})
		q = q.Where(sq.Expr("EXISTS (?)", anyTag))
	}

	if filter.AuthorID != "" {
		q = q.Where(sq.Eq{"p.author_id": filter.AuthorID})
	}

	q = q.OrderBy("p.created_at DESC", "p.id")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	return q
}

// buildTagQuery loads the tags of several posts in one round trip, each
// post's tags ordered the way entity.ResolveTags orders them.
func buildTagQuery(postIDs []string) sq.SelectBuilder {
	return psql.Select("pt.post_id", "t.id", "t.name", "t.slug").
		From("blog_post_tags pt").
		Join("tags t ON t.id = pt.tag_id").
		Where(sq.Eq{"pt.post_id": postIDs}).
		OrderBy("pt.post_id", `t.name COLLATE "C"`, "t.id")
}
