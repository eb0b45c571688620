// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Content store metrics track every repository call, labelled by backend.
var (
	// StoreOperationsTotal counts store operations by backend, operation and result
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_store_operations_total",
			Help: "Total number of content store operations",
		},
		[]string{"backend", "op", "result"},
	)

	// StoreOperationDuration measures store operation duration in seconds
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_store_operation_duration_seconds",
			Help:    "Content store operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"backend", "op"},
	)

	// LocalStoreBytes tracks the serialised size of each local collection
	LocalStoreBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "content_local_store_bytes",
			Help: "Serialised size of each local store collection in bytes",
		},
		[]string{"collection"},
	)
)

// Publishing metrics track scheduled post promotion
var (
	// PostsPublishedTotal counts scheduled posts promoted to published
	PostsPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_posts_published_total",
			Help: "Total number of scheduled posts promoted to published",
		},
	)

	// PublishFailuresTotal counts scheduled posts that could not be promoted
	PublishFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_publish_failures_total",
			Help: "Total number of scheduled posts that failed to publish",
		},
	)
)

// Database metrics track the remote connection pool
var (
	// CircuitBreakerState reports each breaker's state: 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "content_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"circuit"},
	)

	// DBConnectionsActive tracks in-use database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)
