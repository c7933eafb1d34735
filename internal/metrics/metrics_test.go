package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Boltcalc/internal/apperr"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "validation", Outcome(apperr.Validation("op", "bad")))
	assert.Equal(t, "exhausted", Outcome(fmt.Errorf("wrap: %w", apperr.Exhausted("op", "gone"))))
	assert.Equal(t, "error", Outcome(fmt.Errorf("plain")))
}

func TestObserveSizing(t *testing.T) {
	m := New(nil)
	m.ObserveSizing("ISO 2341", 3, nil, time.Millisecond)
	m.ObserveSizing("ISO 2341", 0, apperr.Exhausted("op", "gone"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SizingRuns.WithLabelValues("ISO 2341", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SizingRuns.WithLabelValues("ISO 2341", "exhausted")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSizing("x", 1, nil, 0)
		m.ObserveRequest("/x", 200)
	})
}

func TestHandler(t *testing.T) {
	m := New(nil)
	m.ObserveRequest("/api/user/tools/pin/calc", http.StatusOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `boltcalc_http_requests_total{route="/api/user/tools/pin/calc",status="200"} 1`))
}
