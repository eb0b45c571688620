package worker

import (
	"time"

	"blog-content/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job run statuses recorded in worker_cron_job_runs_total.
const (
	JobStarted = "started"
	JobSuccess = "success"
	JobFailure = "failure"
)

// WorkerMetrics provides Prometheus metrics for the publishing worker.
// It embeds the standard ConfigMetrics for configuration monitoring.
//
// Worker-specific metrics:
//   - worker_cron_job_runs_total: publishing passes by status
//   - worker_cron_job_duration_seconds: duration of a publishing pass
//   - worker_cron_job_posts_scanned_total: scheduled posts inspected
//   - worker_cron_job_last_success_timestamp: Unix time of the last clean pass
//
// Per-post promotion counts live in the content_posts_published_total and
// content_publish_failures_total business metrics.
type WorkerMetrics struct {
	*config.ConfigMetrics

	CronJobRunsTotal            *prometheus.CounterVec
	CronJobDurationSeconds      prometheus.Histogram
	CronJobPostsScannedTotal    prometheus.Counter
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates and registers the worker metrics.
// Call it once per process: promauto panics on duplicate registration.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		CronJobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of publishing passes by status (started/success/failure)",
		}, []string{"status"}),

		CronJobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of a publishing pass in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 30, 120},
		}),

		CronJobPostsScannedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_posts_scanned_total",
			Help: "Total number of scheduled posts inspected across all publishing passes",
		}),

		CronJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last publishing pass without failures",
		}),
	}
}

// RecordJobRun increments the run counter for status.
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes a pass duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordPostsScanned adds count to the scanned posts counter.
func (m *WorkerMetrics) RecordPostsScanned(count int) {
	m.CronJobPostsScannedTotal.Add(float64(count))
}

// RecordLastSuccess stamps the current time as the last clean pass.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}

// ObserveRun records the outcome of one pass that started at start.
func (m *WorkerMetrics) ObserveRun(start time.Time, scanned int, err error) {
	m.RecordJobDuration(time.Since(start).Seconds())
	m.RecordPostsScanned(scanned)
	if err != nil {
		m.RecordJobRun(JobFailure)
		return
	}
	m.RecordJobRun(JobSuccess)
	m.RecordLastSuccess()
}
