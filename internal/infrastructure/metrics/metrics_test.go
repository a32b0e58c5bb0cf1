package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := New(prometheus.NewRegistry(), Config{Service: "test", Environment: "test"})
	require.NoError(t, err)
	return m
}

func TestObserveCommit(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveCommit(3, decimal.RequireFromString("5250"))
	m.ObserveCommit(1, decimal.RequireFromString("1000"))
	m.ObserveCommitFailure()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.commits.WithLabelValues(resultOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.commits.WithLabelValues(resultError)))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.committedEntries))
	assert.Equal(t, float64(6250), testutil.ToFloat64(m.committedAmount))
}

func TestObservePreview(t *testing.T) {
	m := newTestMetrics(t)

	m.ObservePreview(4)
	m.ObservePreview(0)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.previews))
	assert.Equal(t, 1, testutil.CollectAndCount(m.previewCells))
}

func TestObserveRequest(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveRequest("GET", "/api/items", 200, 15*time.Millisecond)
	m.ObserveRequest("GET", "/api/items", 200, 5*time.Millisecond)
	m.ObserveRequest("GET", "/api/items", 401, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/items", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/items", "401")))
}

func TestNew_RegistroDuplicadoFalla(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, Config{})
	require.NoError(t, err)

	_, err = New(reg, Config{})
	assert.Error(t, err)
}
