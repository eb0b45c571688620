package worker

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// globalTestMetrics is shared by every test in the package. Metrics are
// registered with the default Prometheus registry and may only be created once.
var globalTestMetrics = NewWorkerMetrics()

var workerEnvKeys = []string{"PUBLISH_CRON", "PUBLISH_TIMEZONE", "PUBLISH_TIMEOUT", "WORKER_HEALTH_PORT"}

func clearWorkerEnv(t *testing.T) {
	t.Helper()
	for _, key := range workerEnvKeys {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.CronSchedule != "* * * * *" {
		t.Errorf("Expected CronSchedule '* * * * *', got '%s'", config.CronSchedule)
	}
	if config.Timezone != "UTC" {
		t.Errorf("Expected Timezone 'UTC', got '%s'", config.Timezone)
	}
	if config.PublishTimeout != 2*time.Minute {
		t.Errorf("Expected PublishTimeout 2m, got %v", config.PublishTimeout)
	}
	if config.HealthPort != 9091 {
		t.Errorf("Expected HealthPort 9091, got %d", config.HealthPort)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid, got: %v", err)
	}
}

func TestDefaultConfig_Immutability(t *testing.T) {
	config1 := DefaultConfig()
	config2 := DefaultConfig()

	config1.CronSchedule = "0 6 * * *"

	if config2.CronSchedule != "* * * * *" {
		t.Error("DefaultConfig returned a shared instance instead of a new one")
	}
}

func TestWorkerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *WorkerConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(c *WorkerConfig) {}},
		{name: "custom valid", mutate: func(c *WorkerConfig) {
			c.CronSchedule = "*/5 * * * *"
			c.Timezone = "Europe/Berlin"
			c.PublishTimeout = 30 * time.Minute
			c.HealthPort = 65535
		}},
		{name: "invalid cron", mutate: func(c *WorkerConfig) { c.CronSchedule = "every minute" }, wantErr: "cron schedule"},
		{name: "empty cron", mutate: func(c *WorkerConfig) { c.CronSchedule = "" }, wantErr: "cron schedule"},
		{name: "six-field cron", mutate: func(c *WorkerConfig) { c.CronSchedule = "0 * * * * *" }, wantErr: "cron schedule"},
		{name: "invalid timezone", mutate: func(c *WorkerConfig) { c.Timezone = "Mars/Olympus" }, wantErr: "timezone"},
		{name: "timeout too short", mutate: func(c *WorkerConfig) { c.PublishTimeout = time.Second }, wantErr: "publish timeout"},
		{name: "timeout too long", mutate: func(c *WorkerConfig) { c.PublishTimeout = time.Hour }, wantErr: "publish timeout"},
		{name: "privileged port", mutate: func(c *WorkerConfig) { c.HealthPort = 80 }, wantErr: "health port"},
		{name: "port too high", mutate: func(c *WorkerConfig) { c.HealthPort = 70000 }, wantErr: "health port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestWorkerConfig_Validate_MultipleErrors(t *testing.T) {
	config := WorkerConfig{
		CronSchedule:   "invalid",
		Timezone:       "Invalid/Zone",
		PublishTimeout: 0,
		HealthPort:     100,
	}

	err := config.Validate()
	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}
	for _, want := range []string{"cron schedule", "timezone", "publish timeout", "health port"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %q, got: %v", want, err)
		}
	}
}

func TestWorkerConfig_Location(t *testing.T) {
	config := DefaultConfig()
	config.Timezone = "Asia/Tokyo"
	if got := config.Location().String(); got != "Asia/Tokyo" {
		t.Errorf("Expected Asia/Tokyo, got %s", got)
	}

	config.Timezone = "Nowhere/Special"
	if got := config.Location(); got != time.UTC {
		t.Errorf("Expected UTC fallback, got %s", got)
	}
}

func TestLoadConfigFromEnv_AllEnvVarsValid(t *testing.T) {
	clearWorkerEnv(t)
	t.Setenv("PUBLISH_CRON", "*/10 * * * *")
	t.Setenv("PUBLISH_TIMEZONE", "Europe/London")
	t.Setenv("PUBLISH_TIMEOUT", "90s")
	t.Setenv("WORKER_HEALTH_PORT", "8081")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	config, err := LoadConfigFromEnv(logger, globalTestMetrics)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.CronSchedule != "*/10 * * * *" {
		t.Errorf("Expected CronSchedule '*/10 * * * *', got '%s'", config.CronSchedule)
	}
	if config.Timezone != "Europe/London" {
		t.Errorf("Expected Timezone 'Europe/London', got '%s'", config.Timezone)
	}
	if config.PublishTimeout != 90*time.Second {
		t.Errorf("Expected PublishTimeout 90s, got %v", config.PublishTimeout)
	}
	if config.HealthPort != 8081 {
		t.Errorf("Expected HealthPort 8081, got %d", config.HealthPort)
	}
	if buf.Len() > 0 {
		t.Errorf("Expected no warnings, got: %s", buf.String())
	}
	if got := testutil.ToFloat64(globalTestMetrics.FallbackActive); got != 0 {
		t.Errorf("Expected fallback_active 0, got %f", got)
	}
}

func TestLoadConfigFromEnv_MissingEnvVars(t *testing.T) {
	clearWorkerEnv(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	config, err := LoadConfigFromEnv(logger, globalTestMetrics)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if *config != DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", *config)
	}
	if buf.Len() > 0 {
		t.Errorf("Expected no warnings, got: %s", buf.String())
	}
}

func TestLoadConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		field  string
		metric string
		check  func(c *WorkerConfig) bool
	}{
		{
			name: "cron", key: "PUBLISH_CRON", value: "invalid cron",
			field: "CronSchedule", metric: "cron_schedule",
			check: func(c *WorkerConfig) bool { return c.CronSchedule == "* * * * *" },
		},
		{
			name: "timezone", key: "PUBLISH_TIMEZONE", value: "Invalid/Zone",
			field: "Timezone", metric: "timezone",
			check: func(c *WorkerConfig) bool { return c.Timezone == "UTC" },
		},
		{
			name: "timeout unparseable", key: "PUBLISH_TIMEOUT", value: "soon",
			field: "PublishTimeout", metric: "publish_timeout",
			check: func(c *WorkerConfig) bool { return c.PublishTimeout == 2*time.Minute },
		},
		{
			name: "timeout out of range", key: "PUBLISH_TIMEOUT", value: "2h",
			field: "PublishTimeout", metric: "publish_timeout",
			check: func(c *WorkerConfig) bool { return c.PublishTimeout == 2*time.Minute },
		},
		{
			name: "health port", key: "WORKER_HEALTH_PORT", value: "80",
			field: "HealthPort", metric: "health_port",
			check: func(c *WorkerConfig) bool { return c.HealthPort == 9091 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearWorkerEnv(t)
			t.Setenv(tt.key, tt.value)

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			before := testutil.ToFloat64(globalTestMetrics.FallbacksTotal.WithLabelValues(tt.metric))

			config, err := LoadConfigFromEnv(logger, globalTestMetrics)
			if err != nil {
				t.Fatalf("Expected no error (fail-open), got: %v", err)
			}
			if !tt.check(config) {
				t.Errorf("Expected default for %s, got %+v", tt.field, *config)
			}

			logOutput := buf.String()
			if !strings.Contains(logOutput, "Configuration fallback applied") {
				t.Errorf("Expected fallback warning, got: %s", logOutput)
			}
			if !strings.Contains(logOutput, tt.field) {
				t.Errorf("Expected warning to name %s, got: %s", tt.field, logOutput)
			}

			after := testutil.ToFloat64(globalTestMetrics.FallbacksTotal.WithLabelValues(tt.metric))
			if after != before+1 {
				t.Errorf("Expected fallback counter to grow by 1, got %f -> %f", before, after)
			}
			if got := testutil.ToFloat64(globalTestMetrics.FallbackActive); got != 1 {
				t.Errorf("Expected fallback_active 1, got %f", got)
			}
		})
	}
}

func TestLoadConfigFromEnv_PartiallyValid(t *testing.T) {
	clearWorkerEnv(t)
	t.Setenv("PUBLISH_CRON", "0 * * * *")
	t.Setenv("PUBLISH_TIMEZONE", "Invalid/Zone")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	config, _ := LoadConfigFromEnv(logger, globalTestMetrics)

	if config.CronSchedule != "0 * * * *" {
		t.Errorf("Expected valid CronSchedule to be kept, got '%s'", config.CronSchedule)
	}
	if config.Timezone != "UTC" {
		t.Errorf("Expected Timezone fallback to UTC, got '%s'", config.Timezone)
	}
}
