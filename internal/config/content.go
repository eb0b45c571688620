// Package config loads and validates the content repository configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	"blog-content/internal/common/pagination"
	pkgconfig "blog-content/pkg/config"
)

const (
	// DefaultLocalQuotaBytes mirrors the 5 MiB per-origin quota browsers give localStorage.
	DefaultLocalQuotaBytes = 5 * 1024 * 1024

	// DefaultAuthorID is the author attached to new posts when none is configured.
	DefaultAuthorID = "1"
)

// ContentConfig holds configuration for the content repository and its backends.
type ContentConfig struct {
	// DatabaseURL is the connection string of the remote Postgres backend.
	// The remote backend counts as configured iff this is non-empty.
	DatabaseURL string

	// LocalFallback permits the local store when the remote backend is not configured.
	// Default: false
	LocalFallback bool

	// AuthorID is the author attached to newly created posts.
	// Default: "1"
	AuthorID string

	// SeedFile optionally overrides the embedded seed data (YAML).
	SeedFile string

	// Local configures the embedded key-value store.
	Local LocalStoreConfig

	// Remote configures client-side protection of the hosted database.
	Remote RemoteConfig

	// Pagination configures page/limit defaults for post listings.
	Pagination pagination.Config
}

// LocalStoreConfig holds settings for the local persistence adapter.
type LocalStoreConfig struct {
	// Path is the directory of the key-value database. Default: "./data/content"
	Path string
	// InMemory keeps everything in memory and ignores Path. Default: false
	InMemory bool
	// QuotaBytes caps the total serialised size of all collections. Default: 5 MiB
	QuotaBytes int
}

// RemoteConfig holds client-side limits for the remote adapter.
type RemoteConfig struct {
	// RateLimit is the sustained number of queries per second. Default: 20
	RateLimit int
	// RateBurst is the token bucket size. Default: 40
	RateBurst int
	// QueryTimeout bounds a single remote operation. Default: 10s
	QueryTimeout time.Duration
}

// LoadContentConfig loads content configuration from environment variables.
// Unparseable values fall back to their defaults with a logged warning;
// values that parse but make no sense are rejected by Validate.
func LoadContentConfig() (*ContentConfig, error) {
	cfg := &ContentConfig{
		DatabaseURL:   pkgconfig.GetEnvString("DATABASE_URL", ""),
		LocalFallback: pkgconfig.GetEnvBool("CONTENT_LOCAL_FALLBACK", false),
		AuthorID:      pkgconfig.GetEnvString("CONTENT_AUTHOR_ID", DefaultAuthorID),
		SeedFile:      pkgconfig.GetEnvString("CONTENT_SEED_FILE", ""),
		Local: LocalStoreConfig{
			Path:       pkgconfig.GetEnvString("LOCAL_STORE_PATH", "./data/content"),
			InMemory:   pkgconfig.GetEnvBool("LOCAL_STORE_IN_MEMORY", false),
			QuotaBytes: pkgconfig.GetEnvInt("LOCAL_STORE_QUOTA_BYTES", DefaultLocalQuotaBytes),
		},
		Remote: RemoteConfig{
			RateLimit:    pkgconfig.GetEnvInt("REMOTE_RATE_LIMIT", 20),
			RateBurst:    pkgconfig.GetEnvInt("REMOTE_RATE_BURST", 40),
			QueryTimeout: pkgconfig.GetEnvDuration("REMOTE_QUERY_TIMEOUT", 10*time.Second),
		},
		Pagination: pagination.LoadFromEnv(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content configuration: %w", err)
	}

	return cfg, nil
}

// IsBackendConfigured reports whether the remote backend has connection settings.
func (c *ContentConfig) IsBackendConfigured() bool {
	return c.DatabaseURL != ""
}

// Validate checks configuration correctness. All problems are reported together.
func (c *ContentConfig) Validate() error {
	var errs []error

	if c.AuthorID == "" {
		errs = append(errs, errors.New("CONTENT_AUTHOR_ID cannot be empty"))
	}

	if !c.Local.InMemory && c.Local.Path == "" {
		errs = append(errs, errors.New("LOCAL_STORE_PATH cannot be empty unless LOCAL_STORE_IN_MEMORY is set"))
	}

	if c.Local.QuotaBytes <= 0 {
		errs = append(errs, errors.New("LOCAL_STORE_QUOTA_BYTES must be positive"))
	}

	if c.Remote.RateLimit <= 0 {
		errs = append(errs, errors.New("REMOTE_RATE_LIMIT must be positive"))
	}

	if c.Remote.RateBurst < c.Remote.RateLimit {
		errs = append(errs, errors.New("REMOTE_RATE_BURST must be at least REMOTE_RATE_LIMIT"))
	}

	if err := pkgconfig.ValidatePositiveDuration(c.Remote.QueryTimeout); err != nil {
		errs = append(errs, fmt.Errorf("REMOTE_QUERY_TIMEOUT: %w", err))
	}

	if c.Pagination.DefaultLimit <= 0 || c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		errs = append(errs, errors.New("PAGINATION_DEFAULT_LIMIT must be between 1 and PAGINATION_MAX_LIMIT"))
	}

	if c.Pagination.DefaultPage <= 0 {
		errs = append(errs, errors.New("PAGINATION_DEFAULT_PAGE must be positive"))
	}

	return errors.Join(errs...)
}
