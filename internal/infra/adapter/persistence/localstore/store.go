// Package localstore implements the content store on an embedded badger database.
//
// Every collection (posts, categories, tags, authors) lives under one fixed key
// as a single JSON array. Reads decode the whole array and writes replace it.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"blog-content/internal/domain/entity"
	"blog-content/internal/infra/seed"
	"blog-content/internal/observability/metrics"
	"blog-content/internal/repository"
)

// BackendName identifies this store in logs and metrics.
const BackendName = "local"

// Collection keys.
const (
	KeyPosts      = "blog_posts"
	KeyCategories = "blog_categories"
	KeyTags       = "blog_tags"
	KeyAuthors    = "blog_authors"
)

var collectionKeys = []string{KeyPosts, KeyCategories, KeyTags, KeyAuthors}

// DefaultQuotaBytes is the capacity used when Options.QuotaBytes is not set.
const DefaultQuotaBytes = 5 * 1024 * 1024

// Options configures the embedded database.
type Options struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps all data in memory.
	InMemory bool
	// QuotaBytes caps keys plus serialised values across all collections.
	QuotaBytes int
}

// Store is the local content store.
type Store struct {
	db     *badger.DB
	seed   *seed.Data
	quota  int
	logger *slog.Logger

	// serialises read-modify-write cycles on a collection
	mu sync.Mutex
}

var _ repository.ContentStore = (*Store)(nil)

// Open opens (or creates) the database. data provides the content written by
// Initialize and returned for collections that were never written.
func Open(opts Options, data *seed.Data, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("backend", BackendName))

	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts = bopts.WithLogger(badgerLogger{logger})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	quota := opts.QuotaBytes
	if quota <= 0 {
		quota = DefaultQuotaBytes
	}
	if data == nil {
		data = &seed.Data{}
	}

	return &Store{db: db, seed: data, quota: quota, logger: logger}, nil
}

// Backend implements repository.ContentStore.
func (s *Store) Backend() string { return BackendName }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Initialize writes seed data for every collection key that is absent.
// Present keys are left alone, even when they hold an empty array.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := map[string]interface{}{
		KeyPosts:      nonNil(s.seed.Posts),
		KeyCategories: nonNil(s.seed.Categories),
		KeyTags:       nonNil(s.seed.Tags),
		KeyAuthors:    nonNil(s.seed.Authors),
	}

	for _, key := range collectionKeys {
		if err := ctx.Err(); err != nil {
			return err
		}
		present, err := s.exists(key)
		if err != nil {
			return err
		}
		if present {
			continue
		}
		if err := s.put(key, defaults[key]); err != nil {
			return fmt.Errorf("seed %s: %w", key, err)
		}
		s.logger.Info("seeded local collection", slog.String("collection", key))
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (s *Store) exists(key string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, s.backendError("read "+key, err)
	}
	return true, nil
}

// get decodes the collection stored under key into dst.
// It reports false, leaving dst untouched, when the key is absent.
func (s *Store) get(key string, dst interface{}) (bool, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, s.backendError("read "+key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, s.backendError("decode "+key, err)
	}
	return true, nil
}

// put serialises v and replaces the collection stored under key.
// Writes that would take the store over quota fail with *entity.StorageCapacityError.
func (s *Store) put(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return s.backendError("encode "+key, err)
	}

	var capErr *entity.StorageCapacityError
	err = s.db.Update(func(txn *badger.Txn) error {
		used := len(key) + len(raw)
		for _, other := range collectionKeys {
			if other == key {
				continue
			}
			item, err := txn.Get([]byte(other))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			used += len(other) + int(item.ValueSize())
		}

		if used > s.quota {
			capErr = &entity.StorageCapacityError{Collection: key, Size: used, Limit: s.quota}
			return capErr
		}
		return txn.Set([]byte(key), raw)
	})

	switch {
	case err == nil:
		metrics.RecordLocalCollectionSize(key, len(raw))
		return nil
	case capErr != nil:
	case errors.Is(err, badger.ErrTxnTooBig):
		capErr = &entity.StorageCapacityError{Collection: key, Size: len(raw), Limit: s.quota}
	default:
		return s.backendError("write "+key, err)
	}

	s.logger.Warn("local write rejected",
		slog.String("collection", key),
		slog.Int("size", capErr.Size),
		slog.Int("limit", capErr.Limit))
	return capErr
}

// backendError logs a failed local operation and wraps it for the caller.
func (s *Store) backendError(op string, err error) error {
	s.logger.Error("local store operation failed",
		slog.String("op", op),
		slog.Any("error", err))
	return &entity.BackendQueryError{Op: op, Err: err}
}

// badgerLogger routes badger's own logging through slog.
// Badger is chatty at info level, so info goes to debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
