// Package observability provides Prometheus metrics for the flow service.
//
// Metrics cover graph and tree builds, rows dropped during ingestion,
// upstream fetch latency and HTTP requests. Each Metrics owns its registry
// so tests can create as many as they need.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "datacapflow"

// Metrics holds every collector of the service. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// BuildsTotal counts pipeline runs.
	// Labels: kind (flow, audits, summary), expanded (section or "none")
	BuildsTotal *prometheus.CounterVec

	// RowsDroppedTotal counts upstream rows rejected by validation.
	RowsDroppedTotal prometheus.Counter

	// UpstreamFetchSeconds measures upstream request latency.
	// Labels: source (allocators, audits), status (success, error)
	UpstreamFetchSeconds *prometheus.HistogramVec

	// HTTPRequestsTotal counts served requests.
	// Labels: method, route, code
	HTTPRequestsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a registry holding the service collectors plus the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		BuildsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "builds_total",
				Help:      "Total pipeline builds by kind and expanded section",
			},
			[]string{"kind", "expanded"},
		),

		RowsDroppedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "rows_dropped_total",
				Help:      "Total upstream allocator rows dropped by validation",
			},
		),

		UpstreamFetchSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "upstream",
				Name:      "fetch_seconds",
				Help:      "Upstream fetch latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"source", "status"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),

		registry: reg,
	}
}

func (m *Metrics) ObserveBuild(kind, expanded string) {
	if m == nil {
		return
	}
	if expanded == "" {
		expanded = "none"
	}
	m.BuildsTotal.WithLabelValues(kind, expanded).Inc()
}

func (m *Metrics) ObserveDropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsDroppedTotal.Add(float64(n))
}

func (m *Metrics) ObserveFetch(source string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.UpstreamFetchSeconds.WithLabelValues(source, status).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRequest(method, route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
