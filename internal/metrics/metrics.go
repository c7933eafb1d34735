// Package metrics provides Prometheus metrics for sizing runs and HTTP
// requests.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"Boltcalc/internal/apperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	SizingRuns     *prometheus.CounterVec
	SizingPasses   *prometheus.HistogramVec
	SizingDuration *prometheus.HistogramVec
	Requests       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		SizingRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boltcalc_sizing_runs_total",
				Help: "Total number of sizing runs by standard and outcome",
			},
			[]string{"standard", "outcome"},
		),
		SizingPasses: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "boltcalc_sizing_passes",
				Help:    "Verification passes needed per successful run",
				Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16, 32, 64},
			},
			[]string{"standard"},
		),
		SizingDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "boltcalc_sizing_duration_seconds",
				Help:    "Time taken by a sizing run",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"standard"},
		),
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boltcalc_http_requests_total",
				Help: "Total number of API requests by route and status",
			},
			[]string{"route", "status"},
		),
		gatherer: reg,
	}
}

// Outcome names the error kind of err for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrValidation):
		return "validation"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrExhausted):
		return "exhausted"
	case errors.Is(err, apperr.ErrFormat):
		return "format"
	}
	return "error"
}

// ObserveSizing records one run. A nil receiver is a no-op.
func (m *Metrics) ObserveSizing(standard string, passes int, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SizingRuns.WithLabelValues(standard, Outcome(err)).Inc()
	m.SizingDuration.WithLabelValues(standard).Observe(elapsed.Seconds())
	if err == nil {
		m.SizingPasses.WithLabelValues(standard).Observe(float64(passes))
	}
}

func (m *Metrics) ObserveRequest(route string, status int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
