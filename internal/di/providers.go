package di

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"

	"blog-content/internal/config"
	"blog-content/internal/domain/entity"
	"blog-content/internal/infra/adapter/persistence/instrumented"
	"blog-content/internal/infra/adapter/persistence/localstore"
	"blog-content/internal/infra/adapter/persistence/postgres"
	"blog-content/internal/infra/adapter/persistence/unavailable"
	"blog-content/internal/infra/db"
	"blog-content/internal/infra/seed"
	"blog-content/internal/repository"
	"blog-content/internal/usecase/content"
	"blog-content/internal/usecase/publish"
)

// StoreHandle owns the selected content store.
type StoreHandle struct {
	repository.ContentStore

	// DB is the remote connection pool, nil unless the postgres backend was selected.
	DB *sql.DB
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideSeed loads the seed data (CONTENT_SEED_FILE or the embedded default).
func ProvideSeed(i do.Injector) (*seed.Data, error) {
	cfg := do.MustInvoke[*config.ContentConfig](i)
	return seed.Load(cfg.SeedFile)
}

// ProvideStore selects the backend:
//   - postgres when DATABASE_URL is set
//   - the local store when CONTENT_LOCAL_FALLBACK permits it
//   - otherwise a store that fails every call with a configuration error
//
// Whatever is selected is wrapped with metrics and tracing.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.ContentConfig](i)
	log := do.MustInvoke[*slog.Logger](i)
	data := do.MustInvoke[*seed.Data](i)

	var (
		store repository.ContentStore
		conn  *sql.DB
	)

	switch {
	case cfg.IsBackendConfigured():
		var err error
		conn, err = db.Open(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("remote content backend: %w", err)
		}
		opts := postgres.DefaultOptions()
		opts.RateLimit = cfg.Remote.RateLimit
		opts.RateBurst = cfg.Remote.RateBurst
		opts.QueryTimeout = cfg.Remote.QueryTimeout
		store = postgres.NewStore(conn, data, opts, log)

	case cfg.LocalFallback:
		local, err := localstore.Open(localstore.Options{
			Path:       cfg.Local.Path,
			InMemory:   cfg.Local.InMemory,
			QuotaBytes: cfg.Local.QuotaBytes,
		}, data, log)
		if err != nil {
			return nil, fmt.Errorf("local content backend: %w", err)
		}
		store = local

	default:
		store = unavailable.New(unavailable.DefaultMessage)
		log.Warn("no content backend configured",
			slog.String("hint", unavailable.DefaultMessage))
	}

	log.Info("content backend selected", slog.String("backend", store.Backend()))
	return &StoreHandle{ContentStore: instrumented.Wrap(store), DB: conn}, nil
}

// ProvideContentService provides the content facade.
func ProvideContentService(i do.Injector) (*content.Service, error) {
	cfg := do.MustInvoke[*config.ContentConfig](i)
	log := do.MustInvoke[*slog.Logger](i)
	data := do.MustInvoke[*seed.Data](i)
	store := do.MustInvoke[*StoreHandle](i)

	var fallback *entity.Author
	if a, ok := data.Author(cfg.AuthorID); ok {
		fallback = &a
	}

	return content.NewService(store, content.Options{
		AuthorID:       cfg.AuthorID,
		FallbackAuthor: fallback,
		Pagination:     cfg.Pagination,
		Logger:         log,
	}), nil
}

// ProvidePublisher provides the scheduled-post publisher.
func ProvidePublisher(i do.Injector) (*publish.Service, error) {
	svc := do.MustInvoke[*content.Service](i)
	log := do.MustInvoke[*slog.Logger](i)
	return publish.NewService(svc, log), nil
}
