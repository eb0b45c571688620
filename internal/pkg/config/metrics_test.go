package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newConfigMetrics(promauto.With(reg), "publisher")

	m.RecordValidationError("timezone")
	m.RecordValidationError("timezone")
	m.RecordFallback("timezone")
	m.SetFallbackActive(true)
	m.RecordLoadTimestamp()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("timezone")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("timezone")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackActive))
	assert.Greater(t, testutil.ToFloat64(m.LoadTimestamp), 0.0)

	m.SetFallbackActive(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FallbackActive))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.ElementsMatch(t, []string{
		"publisher_config_load_timestamp",
		"publisher_config_validation_errors_total",
		"publisher_config_fallbacks_total",
		"publisher_config_fallback_active",
	}, names)
}

func TestNewConfigMetrics_DuplicatePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	newConfigMetrics(promauto.With(reg), "dup")

	assert.Panics(t, func() { newConfigMetrics(promauto.With(reg), "dup") })
}
