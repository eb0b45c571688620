// Package postgres implements the content store on a hosted PostgreSQL database
// (for example the Postgres instance behind a Supabase project).
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"golang.org/x/time/rate"

	"blog-content/internal/domain/entity"
	"blog-content/internal/infra/db"
	"blog-content/internal/infra/seed"
	"blog-content/internal/repository"
	"blog-content/internal/resilience/circuitbreaker"
	"blog-content/internal/resilience/retry"
)

// BackendName identifies this store in logs and metrics.
const BackendName = "postgres"

// psql builds statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Options tunes client-side protection of the hosted database.
type Options struct {
	// RateLimit is the sustained number of calls per second. <= 0 disables limiting.
	RateLimit int
	// RateBurst is the token bucket size.
	RateBurst int
	// QueryTimeout bounds one store call including retries. <= 0 disables the bound.
	QueryTimeout time.Duration
	// Retry applies to reads only. Writes are never retried.
	Retry retry.Config
	// Breaker wraps every call.
	Breaker circuitbreaker.Config
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		RateLimit:    20,
		RateBurst:    40,
		QueryTimeout: 10 * time.Second,
		Retry:        retry.DBConfig(),
		Breaker:      circuitbreaker.DBConfig(),
	}
}

// Store is the remote content store.
type Store struct {
	db      *sqlx.DB
	seed    *seed.Data
	limiter *rate.Limiter
	breaker *circuitbreaker.CircuitBreaker
	opts    Options
	logger  *slog.Logger
}

var _ repository.ContentStore = (*Store)(nil)

// NewStore wraps an open database handle. data is written by Initialize.
func NewStore(conn *sql.DB, data *seed.Data, opts Options, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.RateBurst
	if burst < 1 {
		burst = 1
	}
	if opts.Retry.MaxAttempts < 1 {
		opts.Retry.MaxAttempts = 1
	}

	// A vanished row is the caller's problem, not the database's.
	isSuccessful := opts.Breaker.IsSuccessful
	opts.Breaker.IsSuccessful = func(err error) bool {
		if errors.Is(err, entity.ErrNotFound) {
			return true
		}
		if isSuccessful == nil {
			return err == nil
		}
		return isSuccessful(err)
	}

	return &Store{
		db:      sqlx.NewDb(conn, db.DriverName),
		seed:    data,
		limiter: rate.NewLimiter(limit, burst),
		breaker: circuitbreaker.New(opts.Breaker),
		opts:    opts,
		logger:  logger.With(slog.String("backend", BackendName)),
	}
}

// Backend implements repository.ContentStore.
func (s *Store) Backend() string { return BackendName }

// Close closes the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Initialize inserts seed rows that are absent. Existing rows are never touched,
// so repeated calls are harmless.
func (s *Store) Initialize(ctx context.Context) error {
	if s.seed == nil {
		return nil
	}
	return s.write(ctx, "initialize", func(ctx context.Context) error {
		return db.Seed(ctx, s.db.DB, s.seed)
	})
}

// read runs an idempotent call with retry on transient failures.
func (s *Store) read(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return s.call(ctx, op, true, fn)
}

// write runs a call exactly once.
func (s *Store) write(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return s.call(ctx, op, false, fn)
}

func (s *Store) call(ctx context.Context, op string, retryable bool, fn func(ctx context.Context) error) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return &entity.BackendQueryError{Op: op, Err: err}
	}

	if s.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.QueryTimeout)
		defer cancel()
	}

	attempt := func() error {
		return s.breaker.Do(func() error { return fn(ctx) })
	}

	var err error
	if retryable {
		err = retry.WithBackoff(ctx, s.opts.Retry, attempt)
	} else {
		err = attempt()
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, entity.ErrNotFound) {
		return err
	}

	s.logger.Error("remote content query failed",
		slog.String("op", op),
		slog.Any("error", err))
	return &entity.BackendQueryError{Op: op, Err: err}
}

// inTx runs fn in a transaction, rolling back when fn fails.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
