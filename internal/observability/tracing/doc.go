// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created through the globally registered TracerProvider, so
// without an SDK provider installed every span is a no-op.
//
// Example usage:
//
//	import "blog-content/internal/observability/tracing"
//
//	func (s *Store) GetPost(ctx context.Context, id string) (*entity.Post, error) {
//	    ctx, span := tracing.StartSpan(ctx, "content.GetPost",
//	        attribute.String("post.id", id))
//	    defer span.End()
//
//	    post, err := s.next.GetPost(ctx, id)
//	    tracing.RecordError(span, err)
//	    return post, err
//	}
package tracing
