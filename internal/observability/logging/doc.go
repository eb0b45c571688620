// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON output for long-running services, text output for the CLI
//   - Trace ID correlation with OpenTelemetry spans
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	import "blog-content/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("worker started", slog.String("schedule", "* * * * *"))
//	}
//
//	func createPost(ctx context.Context) {
//	    logger := logging.WithTrace(ctx, logging.FromContext(ctx))
//	    logger.Info("creating post")
//	}
package logging
