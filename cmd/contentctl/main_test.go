package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-content/internal/domain/entity"
	"blog-content/internal/infra/seed"
)

// useLocalStore points the CLI at an on-disk local store in a fresh temp dir,
// so state survives between invocations of run within one test.
func useLocalStore(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONTENT_LOCAL_FALLBACK", "true")
	t.Setenv("LOCAL_STORE_PATH", filepath.Join(t.TempDir(), "content"))
	t.Setenv("LOCAL_STORE_IN_MEMORY", "false")
	t.Setenv("CONTENT_SEED_FILE", "")
	t.Setenv("CONTENT_AUTHOR_ID", "")
	t.Setenv("LOG_LEVEL", "error")
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func createPost(t *testing.T, args ...string) string {
	t.Helper()
	base := []string{"create", "-title", "Hello, World!", "-excerpt", "First", "-content", "Some words", "-category", "1"}
	code, stdout, stderr := runCLI(t, append(base, args...)...)
	require.Equal(t, exitOK, code, stderr)
	return strings.TrimSpace(stdout)
}

/* ───────── dispatch ───────── */

func TestRun_NoArgs(t *testing.T) {
	code, _, stderr := runCLI(t)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Usage: contentctl")
	assert.Contains(t, stderr, "publish-due")
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI(t, "help")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "Commands:")
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "frobnicate")

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)
}

func TestRun_NotConfigured(t *testing.T) {
	useLocalStore(t)
	t.Setenv("CONTENT_LOCAL_FALLBACK", "false")

	code, stdout, stderr := runCLI(t, "list")

	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "configuration error")
	assert.Contains(t, stderr, "CONTENT_LOCAL_FALLBACK")
}

func TestRun_InvalidConfiguration(t *testing.T) {
	useLocalStore(t)
	t.Setenv("LOCAL_STORE_QUOTA_BYTES", "-5")

	code, _, stderr := runCLI(t, "init")

	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "LOCAL_STORE_QUOTA_BYTES")
}

func TestRun_BadFlag(t *testing.T) {
	useLocalStore(t)

	code, _, stderr := runCLI(t, "list", "-colour", "red")

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "colour")
}

/* ───────── commands ───────── */

func TestRun_Init(t *testing.T) {
	useLocalStore(t)

	code, stdout, _ := runCLI(t, "init")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "backend: localstore")
}

func TestRun_ReferenceData(t *testing.T) {
	useLocalStore(t)

	code, stdout, _ := runCLI(t, "categories")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "technology")
	assert.Contains(t, stdout, "Business")

	code, stdout, _ = runCLI(t, "tags", "-output", "json")
	require.Equal(t, exitOK, code)
	var tags []entity.Tag
	require.NoError(t, json.Unmarshal([]byte(stdout), &tags))
	assert.Len(t, tags, 5)
}

func TestRun_PostLifecycle(t *testing.T) {
	useLocalStore(t)

	id := createPost(t, "-tags", "4,1", "-status", "published")
	require.NotEmpty(t, id)

	code, stdout, _ := runCLI(t, "get", "-slug", "hello-world", "-output", "json")
	require.Equal(t, exitOK, code)
	var post entity.Post
	require.NoError(t, json.Unmarshal([]byte(stdout), &post))
	assert.Equal(t, id, post.ID)
	assert.Equal(t, entity.StatusPublished, post.Status)
	assert.Equal(t, []string{"1", "4"}, post.TagIDs(), "tags come back sorted by name")
	assert.Equal(t, "Demo Author", post.Author.Name)

	code, stdout, stderr := runCLI(t, "update", "-id", id, "-title", "Second Take", "-tags=")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "second-take")

	code, stdout, _ = runCLI(t, "get", "-id", id, "-output", "json")
	require.Equal(t, exitOK, code)
	post = entity.Post{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &post))
	assert.Equal(t, "Second Take", post.Title)
	assert.Equal(t, "First", post.Excerpt, "unset flags leave fields unchanged")
	assert.Empty(t, post.Tags)

	code, _, _ = runCLI(t, "delete", "-id", id)
	require.Equal(t, exitOK, code)

	code, _, stderr = runCLI(t, "get", "-id", id)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "post not found")
}

func TestRun_CreateFromFile(t *testing.T) {
	useLocalStore(t)
	path := filepath.Join(t.TempDir(), "post.md")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("word ", 401)), 0o600))

	code, stdout, stderr := runCLI(t, "create", "-title", "Long Read", "-excerpt", "e", "-content-file", path, "-category", "2")
	require.Equal(t, exitOK, code, stderr)
	id := strings.TrimSpace(stdout)

	code, stdout, _ = runCLI(t, "get", "-id", id)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "3 min")
	assert.Contains(t, stdout, "Design")
}

func TestRun_CreateRejected(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing title",
			args:     []string{"create", "-excerpt", "e", "-content", "c", "-category", "1"},
			wantCode: exitError,
			wantErr:  "title",
		},
		{
			name:     "unknown category",
			args:     []string{"create", "-title", "t", "-excerpt", "e", "-content", "c", "-category", "99"},
			wantCode: exitError,
			wantErr:  "categoryId",
		},
		{
			name:     "bad publish time",
			args:     []string{"create", "-title", "t", "-excerpt", "e", "-content", "c", "-category", "1", "-published-at", "tomorrow"},
			wantCode: exitUsage,
			wantErr:  "-published-at",
		},
		{
			name:     "content and content file",
			args:     []string{"create", "-title", "t", "-excerpt", "e", "-content", "c", "-content-file", "x.md", "-category", "1"},
			wantCode: exitUsage,
			wantErr:  "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useLocalStore(t)

			code, stdout, stderr := runCLI(t, tt.args...)

			assert.Equal(t, tt.wantCode, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestRun_CreateDuplicateTitle(t *testing.T) {
	useLocalStore(t)
	createPost(t)

	code, stdout, stderr := runCLI(t, "create", "-title", "Hello, World!", "-excerpt", "e", "-content", "c", "-category", "1")

	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `slug "hello-world" is already used`)
}

func TestRun_ListFilters(t *testing.T) {
	useLocalStore(t)
	createPost(t, "-status", "published", "-tags", "1")
	createPost(t, "-title", "Draft Notes")

	code, stdout, _ := runCLI(t, "list", "-status", "draft", "-output", "json")
	require.Equal(t, exitOK, code)
	var posts []entity.Post
	require.NoError(t, json.Unmarshal([]byte(stdout), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "Draft Notes", posts[0].Title)

	code, stdout, _ = runCLI(t, "list", "-tag", "1,3")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Hello, World!")
	assert.NotContains(t, stdout, "Draft Notes")

	code, stdout, _ = runCLI(t, "list", "-search", "nothing like this")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "No posts found.")
}

func TestRun_ListRejectsExplicitZeroPage(t *testing.T) {
	useLocalStore(t)

	code, _, stderr := runCLI(t, "list", "-page", "0")

	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "page")
}

func TestRun_GetNeedsExactlyOneKey(t *testing.T) {
	useLocalStore(t)

	code, _, stderr := runCLI(t, "get", "-id", "a", "-slug", "b")

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "exactly one of -id or -slug")
}

func TestRun_ExportRoundTrip(t *testing.T) {
	useLocalStore(t)
	createPost(t, "-status", "published", "-tags", "2,5")

	code, stdout, stderr := runCLI(t, "export")
	require.Equal(t, exitOK, code, stderr)

	doc, err := seed.Parse([]byte(stdout))
	require.NoError(t, err, "export output is a valid seed document")
	assert.Len(t, doc.Categories, 3)
	assert.Len(t, doc.Tags, 5)
	require.Len(t, doc.Posts, 1)
	assert.Equal(t, "hello-world", doc.Posts[0].Slug)
	require.Len(t, doc.Authors, 1)
	assert.Equal(t, "1", doc.Authors[0].ID)
}

func TestRun_ExportRejectsFormat(t *testing.T) {
	useLocalStore(t)

	code, _, stderr := runCLI(t, "export", "-format", "xml")

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, `unsupported format "xml"`)
}

func TestRun_PublishDue(t *testing.T) {
	useLocalStore(t)
	createPost(t, "-title", "Due", "-status", "scheduled", "-published-at", "2024-03-01T08:00:00Z")
	createPost(t, "-title", "Later", "-status", "scheduled", "-published-at", "2030-01-01T00:00:00Z")

	code, stdout, stderr := runCLI(t, "publish-due", "-now", "2025-01-01T00:00:00Z")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Due")
	assert.Contains(t, stdout, "2 scheduled, 1 published, 0 failed")

	code, stdout, _ = runCLI(t, "list", "-status", "scheduled")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Later")
	assert.NotContains(t, stdout, "Due")
}

func TestRun_MigrateNeedsRemote(t *testing.T) {
	useLocalStore(t)

	code, _, stderr := runCLI(t, "migrate")

	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "DATABASE_URL")
}

/* ───────── helpers ───────── */

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , "))
	assert.Equal(t, []string{"4", "1", "4"}, splitList("4, 1,,4"))
}

func TestBuildSeed_AuthorsInFirstAppearanceOrder(t *testing.T) {
	ann := entity.Author{ID: "a", Name: "Ann"}
	bo := entity.Author{ID: "b", Name: "Bo"}
	posts := []*entity.Post{
		{ID: "3", Author: bo},
		{ID: "2", Author: ann},
		{ID: "1", Author: bo},
	}

	doc := buildSeed(posts, nil, nil)

	assert.Equal(t, []entity.Author{bo, ann}, doc.Authors)
	assert.Len(t, doc.Posts, 3)
	assert.Equal(t, "3", doc.Posts[0].ID)
	assert.NotNil(t, doc.Categories)
}
