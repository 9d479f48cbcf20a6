// Package apimetrics exposes upstream API call metrics for Prometheus
// scraping. Counters are labelled by resource and outcome so operators
// can tell an auth regression (status errors) from a flaky network
// (network errors) even though the tool layer collapses both to the
// same friendly message.
package apimetrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome classifies an upstream call for the requests counter.
const (
	OutcomeOK      = "ok"
	OutcomeStatus  = "status"  // non-2xx response
	OutcomeNetwork = "network" // transport failure
	OutcomeDecode  = "decode"  // JSON parse failure
)

// Metrics holds the upstream API instruments on a private registry so
// the default registry stays unpolluted.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal  *prometheus.CounterVec
	requestSeconds *prometheus.HistogramVec
}

// New creates and registers all upstream API metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onsec_mcp_upstream_requests_total",
				Help: "Total upstream OnSecurity API requests by resource and outcome",
			},
			[]string{"resource", "outcome"},
		),
		requestSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "onsec_mcp_upstream_request_seconds",
				Help:    "Upstream request latency distribution in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"resource"},
		),
	}

	registry.MustRegister(m.requestsTotal, m.requestSeconds)
	return m
}

// Observe records one upstream call.
func (m *Metrics) Observe(resource, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(resource, outcome).Inc()
	m.requestSeconds.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
