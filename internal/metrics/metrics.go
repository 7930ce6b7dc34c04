package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for tool invocation. It implements
// toolcall.Metrics.
type Metrics struct {
	registry *prometheus.Registry

	ToolCallDuration       *prometheus.HistogramVec
	ToolCallErrorsTotal    *prometheus.CounterVec
	ToolCallCacheHitsTotal *prometheus.CounterVec
}

// New creates and registers all metrics on a private registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		ToolCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tool_call_duration_seconds",
				Help:    "Duration of tool call attempts in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool", "outcome"},
		),
		ToolCallErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_call_errors_total",
				Help: "Total number of tool call errors by reason",
			},
			[]string{"tool", "reason"},
		),
		ToolCallCacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_call_cache_hits_total",
				Help: "Total number of tool call cache hits",
			},
			[]string{"tool"},
		),
	}

	m.registerMetrics()

	return m
}

// registerMetrics registers all metrics with the registry
func (m *Metrics) registerMetrics() {
	m.registry.MustRegister(m.ToolCallDuration)
	m.registry.MustRegister(m.ToolCallErrorsTotal)
	m.registry.MustRegister(m.ToolCallCacheHitsTotal)
}

// RecordLatency implements toolcall.Metrics
func (m *Metrics) RecordLatency(tool, outcome string, latency time.Duration) {
	m.ToolCallDuration.WithLabelValues(tool, outcome).Observe(latency.Seconds())
}

// IncError implements toolcall.Metrics
func (m *Metrics) IncError(tool, reason string) {
	m.ToolCallErrorsTotal.WithLabelValues(tool, reason).Inc()
}

// IncCacheHit implements toolcall.Metrics
func (m *Metrics) IncCacheHit(tool string) {
	m.ToolCallCacheHitsTotal.WithLabelValues(tool).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
