package metrics

import (
	"database/sql"
	"errors"
	"time"

	"blog-content/internal/domain/entity"
)

// Result labels used by StoreOperationsTotal.
const (
	ResultSuccess    = "success"
	ResultValidation = "validation"
	ResultCapacity   = "capacity"
	ResultConfig     = "not_configured"
	ResultError      = "error"
)

// ClassifyResult maps an operation error onto a low-cardinality result label.
func ClassifyResult(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, entity.ErrValidationFailed):
		return ResultValidation
	case errors.Is(err, entity.ErrStorageCapacity):
		return ResultCapacity
	case errors.Is(err, entity.ErrNotConfigured):
		return ResultConfig
	default:
		return ResultError
	}
}

// RecordStoreOperation records the outcome and latency of one store call.
func RecordStoreOperation(backend, op string, duration time.Duration, err error) {
	StoreOperationsTotal.WithLabelValues(backend, op, ClassifyResult(err)).Inc()
	StoreOperationDuration.WithLabelValues(backend, op).Observe(duration.Seconds())
}

// RecordLocalCollectionSize records the serialised size of a local collection.
func RecordLocalCollectionSize(collection string, size int) {
	LocalStoreBytes.WithLabelValues(collection).Set(float64(size))
}

// RecordPublishRun records the outcome of one scheduled publishing pass.
func RecordPublishRun(published, failed int) {
	PostsPublishedTotal.Add(float64(published))
	PublishFailuresTotal.Add(float64(failed))
}

// UpdateDBPoolStats copies connection pool statistics into the pool gauges.
func UpdateDBPoolStats(stats sql.DBStats) {
	DBConnectionsActive.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))
}

// RecordCircuitState records a breaker state transition. state follows
// gobreaker's numbering: 0 closed, 1 half-open, 2 open.
func RecordCircuitState(circuit string, state int) {
	CircuitBreakerState.WithLabelValues(circuit).Set(float64(state))
}
