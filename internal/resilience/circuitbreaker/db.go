package circuitbreaker

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// DBConfig returns configuration optimized for the remote content database.
// Opens after 5 consecutive failures, 30 second timeout.
//
// Missing rows and caller cancellations are not infrastructure failures,
// so they never trip the circuit.
func DBConfig() Config {
	return Config{
		Name:             "content-database",
		MaxRequests:      3, // Allow 3 test requests in half-open state
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0, // Open on 100% failure (5+ consecutive failures)
		MinRequests:      5,   // Require 5 failures before tripping
		IsSuccessful:     IsDBSuccess,
	}
}

// IsDBSuccess reports whether err should count as a healthy database round trip.
func IsDBSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, context.Canceled)
}
