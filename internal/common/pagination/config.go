// Package pagination provides page/limit helpers shared by every content store.
package pagination

import pkgconfig "blog-content/pkg/config"

// Config holds listing defaults.
type Config struct {
	DefaultPage  int // page used when only a limit is given
	DefaultLimit int // limit used when only a page is given
	MaxLimit     int // larger limits are capped to this
}

// DefaultConfig returns page=1, limit=10, max=100.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 10,
		MaxLimit:     100,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_PAGE, PAGINATION_DEFAULT_LIMIT and
// PAGINATION_MAX_LIMIT, using DefaultConfig for anything unset or unparseable.
// Range checks belong to the caller.
func LoadFromEnv() Config {
	def := DefaultConfig()
	return Config{
		DefaultPage:  pkgconfig.GetEnvInt("PAGINATION_DEFAULT_PAGE", def.DefaultPage),
		DefaultLimit: pkgconfig.GetEnvInt("PAGINATION_DEFAULT_LIMIT", def.DefaultLimit),
		MaxLimit:     pkgconfig.GetEnvInt("PAGINATION_MAX_LIMIT", def.MaxLimit),
	}
}
