// Package di wires the content repository together. The backend is chosen
// exactly once, when the store is first resolved.
package di

import (
	"log/slog"

	"github.com/samber/do/v2"

	"blog-content/internal/config"
	"blog-content/internal/usecase/content"
	"blog-content/internal/usecase/publish"
)

// NewContainer creates the DI container for cfg. Providers are lazy: nothing
// is opened until the first Invoke.
func NewContainer(cfg *config.ContentConfig, logger *slog.Logger) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.Provide(injector, ProvideSeed)

	// Storage
	do.Provide(injector, ProvideStore)

	// Use cases
	do.Provide(injector, ProvideContentService)
	do.Provide(injector, ProvidePublisher)

	return injector
}

// ContentService resolves the content facade.
func ContentService(injector do.Injector) (*content.Service, error) {
	return do.Invoke[*content.Service](injector)
}

// Publisher resolves the scheduled-post publisher.
func Publisher(injector do.Injector) (*publish.Service, error) {
	return do.Invoke[*publish.Service](injector)
}

// Store resolves the selected store handle.
func Store(injector do.Injector) (*StoreHandle, error) {
	return do.Invoke[*StoreHandle](injector)
}
