// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - Content store operation counts and latency, per backend
//   - Scheduled publishing results
//   - Remote database connection pool state
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the worker's /metrics endpoint.
//
// Example usage:
//
//	import "blog-content/internal/observability/metrics"
//
//	func (s *Store) ListPosts(ctx context.Context, f repository.PostFilter) ([]*entity.Post, error) {
//	    start := time.Now()
//	    posts, err := s.next.ListPosts(ctx, f)
//	    metrics.RecordStoreOperation(s.Backend(), "list_posts", time.Since(start), err)
//	    return posts, err
//	}
package metrics
