// Package observability provides the observability infrastructure of the
// content repository: structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry span helpers
//
// Example usage:
//
//	import (
//	    "blog-content/internal/observability/logging"
//	    "blog-content/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("worker started")
//
//	    metrics.RecordPublishRun(2, 0)
//	}
package observability
