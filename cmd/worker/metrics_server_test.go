package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMux_Health(t *testing.T) {
	mux := newMetricsMux("localstore", nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestMetricsMux_StoreWithoutPool(t *testing.T) {
	mux := newMetricsMux("localstore", nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/store", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"backend":"localstore"}`, rec.Body.String())
}

func TestMetricsMux_StoreWithPool(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mux := newMetricsMux("postgres", db)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/store", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp StoreHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "postgres", resp.Backend)
	require.NotNil(t, resp.Pool)
	assert.Equal(t, "0s", resp.Pool.WaitDuration)
}

func TestMetricsMux_Metrics(t *testing.T) {
	mux := newMetricsMux("localstore", nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestGetMetricsPort(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: "", want: 9090},
		{raw: "9100", want: 9100},
		{raw: "0", want: 9090},
		{raw: "70000", want: 9090},
		{raw: "metrics", want: 9090},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("METRICS_PORT", tt.raw)
			assert.Equal(t, tt.want, getMetricsPort())
		})
	}
}
