package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"blog-content/internal/config"
	"blog-content/internal/di"
	"blog-content/internal/infra/db"
	workerPkg "blog-content/internal/infra/worker"
	"blog-content/internal/observability/logging"
	"blog-content/internal/usecase/content"
	"blog-content/internal/usecase/publish"
	pkgconfig "blog-content/pkg/config"
)

func main() {
	if err := pkgconfig.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("publish_timeout", workerConfig.PublishTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	// Content configuration is not fail-open: a worker without a store has nothing to do.
	contentConfig, err := config.LoadContentConfig()
	if err != nil {
		logger.Error("failed to load content configuration", slog.Any("error", err))
		os.Exit(1)
	}

	injector := di.NewContainer(contentConfig, logger)
	defer func() {
		if err := injector.Shutdown(); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	store, err := di.Store(injector)
	if err != nil {
		logger.Error("failed to open content store", slog.Any("error", err))
		os.Exit(1)
	}
	svc, err := di.ContentService(injector)
	if err != nil {
		logger.Error("failed to create content service", slog.Any("error", err))
		os.Exit(1)
	}
	publisher, err := di.Publisher(injector)
	if err != nil {
		logger.Error("failed to create publisher", slog.Any("error", err))
		os.Exit(1)
	}

	if store.DB != nil {
		go db.ReportPoolStats(ctx, store.DB, 15*time.Second)
	}

	// Start metrics HTTP server
	startMetricsServer(ctx, logger, store)

	// Start health check server
	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, store.Backend(), readinessCheck(svc), logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	if err := svc.Initialize(ctx); err != nil {
		// Not fatal: the store may come up later, and readiness reports it meanwhile.
		logger.Error("content store initialization failed", slog.Any("error", err))
	}

	runCronWorker(ctx, logger, publisher, svc, workerConfig, workerMetrics, healthServer)
}

// readinessCheck reports the store ready once reference data can be read.
func readinessCheck(svc *content.Service) workerPkg.ReadinessCheck {
	return func(ctx context.Context) error {
		if err := svc.Initialize(ctx); err != nil {
			return err
		}
		_, err := svc.ListCategories(ctx)
		return err
	}
}

// runCronWorker schedules publishing passes and blocks until ctx is done.
func runCronWorker(ctx context.Context, logger *slog.Logger, publisher *publish.Service, svc *content.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	c := cron.New(cron.WithLocation(cfg.Location()))

	_, err := c.AddFunc(cfg.CronSchedule, func() {
		runPublishJob(ctx, logger, publisher, svc, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Location().String()),
		slog.String("backend", svc.Backend()))

	<-ctx.Done()
	logger.Info("shutdown signal received, waiting for running pass")
	healthServer.SetReady(false)
	<-c.Stop().Done()
	logger.Info("worker stopped")
}

// runPublishJob executes a single publishing pass with timeout and error handling.
func runPublishJob(ctx context.Context, logger *slog.Logger, publisher *publish.Service, svc *content.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	start := time.Now()
	metrics.RecordJobRun(workerPkg.JobStarted)

	ctx, cancel := context.WithTimeout(ctx, cfg.PublishTimeout)
	defer cancel()

	if err := svc.Initialize(ctx); err != nil {
		logger.Error("publish pass skipped: store not initialized", slog.Any("error", err))
		metrics.ObserveRun(start, 0, err)
		return
	}

	res, err := publisher.PublishDue(ctx, start)
	metrics.ObserveRun(start, res.Scanned, err)
	if err != nil {
		logger.Error("publish pass failed",
			slog.Int("scanned", res.Scanned),
			slog.Int("published", len(res.Published)),
			slog.Int("failed", res.Failed),
			slog.Any("error", err))
		return
	}

	logger.Info("publish pass completed",
		slog.Int("scanned", res.Scanned),
		slog.Int("published", len(res.Published)),
		slog.Duration("duration", time.Since(start)))
}
