package services

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	apiRequests      *prometheus.CounterVec
	apiDuration      *prometheus.HistogramVec
	tableLoads       *prometheus.CounterVec
	rowsRendered     prometheus.Gauge
	filterReloads    *prometheus.CounterVec
	mutations        *prometheus.CounterVec
	backendRequests  *prometheus.CounterVec
	backendRateLimit prometheus.Counter
	backendAPIErrors *prometheus.CounterVec
}

// NewPrometheusMetrics registers the collectors with reg. A nil reg uses the default registerer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		apiRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_api_requests_total",
				Help: "Total number of transactions API requests by outcome",
			},
			[]string{"operation", "status"},
		),
		apiDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transactions_api_request_duration_seconds",
				Help:    "Transactions API round trip duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		tableLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transaction_table_loads_total",
				Help: "Total number of table loads by resulting state",
			},
			[]string{"state"},
		),
		rowsRendered: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "transaction_table_rows",
				Help: "Number of rows in the most recent render",
			},
		),
		filterReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transaction_filter_reloads_total",
				Help: "Total number of reloads triggered by filter changes",
			},
			[]string{"trigger"},
		),
		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transaction_mutations_total",
				Help: "Total number of edit and delete submissions by outcome",
			},
			[]string{"operation", "status"},
		),
		backendRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stub_backend_requests_total",
				Help: "Total number of requests served by the stand-in backend",
			},
			[]string{"endpoint", "status"},
		),
		backendRateLimit: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "stub_backend_rate_limited_total",
				Help: "Total number of requests rejected by the stand-in backend rate limiter",
			},
		),
		backendAPIErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budget_buddy_api_errors_total",
				Help: "Total number of transactions API errors by code, endpoint, and status",
			},
			[]string{"code", "endpoint", "status"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	operation := tags["operation"]
	status := tags["status"]

	switch name {
	case "api.request":
		m.apiRequests.WithLabelValues(operation, status).Inc()
	case "table.load":
		m.tableLoads.WithLabelValues(tags["state"]).Inc()
	case "filters.reload":
		m.filterReloads.WithLabelValues(tags["trigger"]).Inc()
	case "mutation":
		m.mutations.WithLabelValues(operation, status).Inc()
	case "backend.request":
		m.backendRequests.WithLabelValues(tags["endpoint"], status).Inc()
	case "backend.rate_limited":
		m.backendRateLimit.Inc()
	case "backend.api_error":
		m.backendAPIErrors.WithLabelValues(tags["code"], tags["endpoint"], status).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	if operation, ok := strings.CutPrefix(name, "api."); ok {
		m.apiDuration.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "table.rows":
		m.rowsRendered.Set(value)
	}
}

// NoopMetrics discards everything
type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (NoopMetrics) IncrementCounter(string, map[string]string)     {}
func (NoopMetrics) RecordProcessingTime(string, time.Duration)     {}
func (NoopMetrics) RecordGauge(string, float64, map[string]string) {}
