package worker

import (
	"fmt"
	"log/slog"
	"time"

	"blog-content/internal/pkg/config"
)

// WorkerConfig holds the configuration of the scheduled-publishing worker.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//
// Invalid environment values never stop the worker: each one falls back to
// its default, is logged and is counted in the config metrics.
type WorkerConfig struct {
	// CronSchedule is the cron expression of the publishing pass.
	// Format: "minute hour day month weekday"
	// Default: "* * * * *" (every minute)
	CronSchedule string

	// Timezone is the IANA timezone the schedule is interpreted in.
	// Default: "UTC"
	Timezone string

	// PublishTimeout bounds a single publishing pass.
	// Range: 10s-30m
	// Default: 2 minutes
	PublishTimeout time.Duration

	// HealthPort is the port of the liveness/readiness server.
	// Range: 1024-65535
	// Default: 9091
	HealthPort int
}

// DefaultConfig returns a WorkerConfig with default values.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:   "* * * * *",
		Timezone:       "UTC",
		PublishTimeout: 2 * time.Minute,
		HealthPort:     9091,
	}
}

// Validate checks every field and reports all problems together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}

	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}

	if err := config.ValidateDuration(c.PublishTimeout, 10*time.Second, 30*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("publish timeout: %w", err))
	}

	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// Location resolves Timezone, falling back to UTC.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv loads the worker configuration from environment variables.
// It never returns an error: an invalid value is replaced by its default.
//
// Environment variables:
//   - PUBLISH_CRON: cron expression (default: "* * * * *")
//   - PUBLISH_TIMEZONE: IANA timezone name (default: "UTC")
//   - PUBLISH_TIMEOUT: duration, e.g. "90s" (default: 2m)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	track := func(field, metricField string, fallback bool, warning string) {
		if !fallback {
			return
		}
		fallbackApplied = true
		metrics.RecordValidationError(metricField)
		metrics.RecordFallback(metricField)
		logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	cron := config.LoadEnvString("PUBLISH_CRON", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = cron.Value
	track("CronSchedule", "cron_schedule", cron.FallbackApplied, cron.Warning)

	tz := config.LoadEnvString("PUBLISH_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	track("Timezone", "timezone", tz.FallbackApplied, tz.Warning)

	timeout := config.LoadEnvDuration("PUBLISH_TIMEOUT", cfg.PublishTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 10*time.Second, 30*time.Minute)
	})
	cfg.PublishTimeout = timeout.Value
	track("PublishTimeout", "publish_timeout", timeout.FallbackApplied, timeout.Warning)

	port := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = port.Value
	track("HealthPort", "health_port", port.FallbackApplied, port.Warning)

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
