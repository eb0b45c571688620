package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"blog-content/internal/di"
	"blog-content/internal/domain/entity"
	"blog-content/internal/infra/db"
	"blog-content/internal/infra/seed"
	"blog-content/internal/usecase/content"
)

func runInit(ctx context.Context, e *env, args []string) error {
	if err := parseFlags(newFlagSet(e, "init"), args); err != nil {
		return err
	}
	// Initialize already ran before dispatch.
	fmt.Fprintf(e.stdout, "content store ready (backend: %s)\n", e.svc.Backend())
	return nil
}

func runMigrate(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "migrate")
	down := fs.Bool("down", false, "drop the schema instead of creating it")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	store, err := di.Store(e.injector)
	if err != nil {
		return err
	}
	if store.DB == nil {
		return fmt.Errorf("migrate needs the remote backend (set DATABASE_URL); current backend is %s", store.Backend())
	}

	if *down {
		if err := db.MigrateDown(ctx, store.DB); err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, "schema dropped")
		return nil
	}

	if err := db.MigrateUp(ctx, store.DB); err != nil {
		return err
	}
	svc, err := di.ContentService(e.injector)
	if err != nil {
		return err
	}
	if err := svc.Initialize(ctx); err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, "schema up to date")
	return nil
}

func runList(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "list")
	status := fs.String("status", "", "draft, published or scheduled")
	search := fs.String("search", "", "case-insensitive match on title and excerpt")
	category := fs.String("category", "", "category id")
	tags := fs.String("tag", "", "comma-separated tag ids (any match)")
	author := fs.String("author", "", "author id")
	page := fs.Int("page", 0, "page number, starting at 1")
	limit := fs.Int("limit", 0, "posts per page")
	output := fs.String("output", "text", "output format: text or json")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := checkFormat(*output, "text", "json"); err != nil {
		return err
	}

	opts := content.ListOptions{
		Status:     entity.Status(*status),
		Search:     *search,
		CategoryID: *category,
		TagIDs:     splitList(*tags),
		AuthorID:   *author,
	}
	// Only flags the operator passed become paging options, so that -page 0 is still rejected.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "page":
			opts.Page = page
		case "limit":
			opts.Limit = limit
		}
	})

	posts, err := e.svc.ListPosts(ctx, opts)
	if err != nil {
		return err
	}
	if *output == "json" {
		return writeJSON(e.stdout, posts)
	}
	return writePostTable(e.stdout, posts)
}

func runGet(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "get")
	id := fs.String("id", "", "post id")
	slug := fs.String("slug", "", "post slug")
	output := fs.String("output", "text", "output format: text or json")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if (*id == "") == (*slug == "") {
		return usagef("get: exactly one of -id or -slug is required")
	}
	if err := checkFormat(*output, "text", "json"); err != nil {
		return err
	}

	var (
		post *entity.Post
		err  error
	)
	if *id != "" {
		post, err = e.svc.GetPost(ctx, *id)
	} else {
		post, err = e.svc.GetPostBySlug(ctx, *slug)
	}
	if err != nil {
		return err
	}
	if post == nil {
		return errors.New("post not found")
	}

	if *output == "json" {
		return writeJSON(e.stdout, post)
	}
	return writePostDetail(e.stdout, post)
}

// postFlags are the form fields shared by create and update.
type postFlags struct {
	title, excerpt, body, bodyFile string
	category, tags, image, status  string
	publishedAt                    string
}

func (p *postFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.title, "title", "", "post title")
	fs.StringVar(&p.excerpt, "excerpt", "", "short summary")
	fs.StringVar(&p.body, "content", "", "post body")
	fs.StringVar(&p.bodyFile, "content-file", "", "read the post body from a file")
	fs.StringVar(&p.category, "category", "", "category id")
	fs.StringVar(&p.tags, "tags", "", "comma-separated tag ids")
	fs.StringVar(&p.image, "image", "", "featured image URL or data URL")
	fs.StringVar(&p.status, "status", "", "draft, published or scheduled")
	fs.StringVar(&p.publishedAt, "published-at", "", "publication time (RFC 3339)")
}

// readBody resolves -content and -content-file, which are mutually exclusive.
func (p *postFlags) readBody() (string, error) {
	if p.bodyFile == "" {
		return p.body, nil
	}
	if p.body != "" {
		return "", usagef("-content and -content-file are mutually exclusive")
	}
	// #nosec G304 -- path is chosen by the operator
	raw, err := os.ReadFile(p.bodyFile)
	if err != nil {
		return "", fmt.Errorf("read content file: %w", err)
	}
	return string(raw), nil
}

func (p *postFlags) publishTime() (*time.Time, error) {
	if p.publishedAt == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, p.publishedAt)
	if err != nil {
		return nil, usagef("-published-at: %v", err)
	}
	return &t, nil
}

func runCreate(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "create")
	var pf postFlags
	pf.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	body, err := pf.readBody()
	if err != nil {
		return err
	}
	publishedAt, err := pf.publishTime()
	if err != nil {
		return err
	}

	post, err := e.svc.CreatePost(ctx, content.CreateInput{
		Title:         pf.title,
		Excerpt:       pf.excerpt,
		Content:       body,
		CategoryID:    pf.category,
		TagIDs:        splitList(pf.tags),
		FeaturedImage: pf.image,
		Status:        entity.Status(pf.status),
		PublishedAt:   publishedAt,
	})
	if err != nil {
		return err
	}

	e.logger.Info("post created", slog.String("id", post.ID), slog.String("slug", post.Slug))
	fmt.Fprintln(e.stdout, post.ID)
	return nil
}

func runUpdate(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "update")
	id := fs.String("id", "", "post id")
	var pf postFlags
	pf.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usagef("update: -id is required")
	}

	// Unset flags leave their field unchanged; "-tags=" clears the tags.
	var (
		in     content.UpdateInput
		setErr error
	)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			in.Title = &pf.title
		case "excerpt":
			in.Excerpt = &pf.excerpt
		case "content", "content-file":
			body, err := pf.readBody()
			if err != nil {
				setErr = err
				return
			}
			in.Content = &body
		case "category":
			in.CategoryID = &pf.category
		case "tags":
			in.TagIDs = splitList(pf.tags)
			if in.TagIDs == nil {
				in.TagIDs = []string{}
			}
		case "image":
			in.FeaturedImage = &pf.image
		case "status":
			s := entity.Status(pf.status)
			in.Status = &s
		case "published-at":
			t, err := pf.publishTime()
			if err != nil {
				setErr = err
				return
			}
			in.PublishedAt = t
		}
	})
	if setErr != nil {
		return setErr
	}

	post, err := e.svc.UpdatePost(ctx, *id, in)
	if err != nil {
		return err
	}
	e.logger.Info("post updated", slog.String("id", post.ID))
	return writePostDetail(e.stdout, post)
}

func runDelete(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "delete")
	id := fs.String("id", "", "post id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usagef("delete: -id is required")
	}

	if err := e.svc.DeletePost(ctx, *id); err != nil {
		return err
	}
	e.logger.Info("post deleted", slog.String("id", *id))
	return nil
}

func runCategories(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "categories")
	output := fs.String("output", "text", "output format: text or json")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := checkFormat(*output, "text", "json"); err != nil {
		return err
	}

	categories, err := e.svc.ListCategories(ctx)
	if err != nil {
		return err
	}
	if *output == "json" {
		return writeJSON(e.stdout, categories)
	}
	return writeCategoryTable(e.stdout, categories)
}

func runTags(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "tags")
	output := fs.String("output", "text", "output format: text or json")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := checkFormat(*output, "text", "json"); err != nil {
		return err
	}

	tags, err := e.svc.ListTags(ctx)
	if err != nil {
		return err
	}
	if *output == "json" {
		return writeJSON(e.stdout, tags)
	}
	return writeTagTable(e.stdout, tags)
}

// runExport writes everything as a seed document, so the output can be fed
// back through CONTENT_SEED_FILE to populate another backend.
func runExport(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "export")
	format := fs.String("format", "yaml", "output format: yaml or json")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := checkFormat(*format, "yaml", "json"); err != nil {
		return err
	}

	var (
		posts      []*entity.Post
		categories []*entity.Category
		tags       []*entity.Tag
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		posts, err = e.svc.ListPosts(gctx, content.ListOptions{})
		return err
	})
	g.Go(func() (err error) {
		categories, err = e.svc.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		tags, err = e.svc.ListTags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	doc := buildSeed(posts, categories, tags)
	e.logger.Info("content exported",
		slog.Int("posts", len(doc.Posts)),
		slog.Int("categories", len(doc.Categories)),
		slog.Int("tags", len(doc.Tags)),
		slog.Int("authors", len(doc.Authors)))

	if *format == "json" {
		return writeJSON(e.stdout, doc)
	}
	return writeYAML(e.stdout, doc)
}

// buildSeed assembles a seed document. Authors are collected from the posts
// in order of first appearance; posts keep newest-first order.
func buildSeed(posts []*entity.Post, categories []*entity.Category, tags []*entity.Tag) *seed.Data {
	doc := &seed.Data{
		Authors:    []entity.Author{},
		Categories: make([]entity.Category, 0, len(categories)),
		Tags:       make([]entity.Tag, 0, len(tags)),
		Posts:      make([]entity.Post, 0, len(posts)),
	}
	for _, c := range categories {
		doc.Categories = append(doc.Categories, *c)
	}
	for _, t := range tags {
		doc.Tags = append(doc.Tags, *t)
	}

	seen := make(map[string]bool)
	for _, p := range posts {
		if !seen[p.Author.ID] {
			seen[p.Author.ID] = true
			doc.Authors = append(doc.Authors, p.Author)
		}
		doc.Posts = append(doc.Posts, *p)
	}
	return doc
}

func runPublishDue(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "publish-due")
	at := fs.String("now", "", "treat this RFC 3339 time as now (default: current time)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	now := time.Now()
	if *at != "" {
		t, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return usagef("-now: %v", err)
		}
		now = t
	}

	publisher, err := di.Publisher(e.injector)
	if err != nil {
		return err
	}
	res, err := publisher.PublishDue(ctx, now)
	for _, p := range res.Published {
		fmt.Fprintf(e.stdout, "published %s\t%s\n", p.ID, p.Title)
	}
	fmt.Fprintf(e.stdout, "%d scheduled, %d published, %d failed\n", res.Scanned, len(res.Published), res.Failed)
	return err
}

// splitList splits a comma-separated flag value, dropping blanks.
// It returns nil for an empty value.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return usagef("unsupported format %q (want %s)", format, strings.Join(allowed, " or "))
}
