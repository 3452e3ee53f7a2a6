// Package observability owns the prometheus collectors for dataset
// loads and HTTP traffic. All recording methods are safe on a nil
// *Metrics so callers without metrics wired pay nothing.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	loadDuration *prometheus.HistogramVec
	rowsLoaded   *prometheus.GaugeVec
	invalidRows  *prometheus.GaugeVec
	reloads      *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		loadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecdash",
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent loading a dataset from disk.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"dataset"}),
		rowsLoaded: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ecdash",
			Name:      "dataset_rows_loaded",
			Help:      "Rows currently loaded per dataset and school.",
		}, []string{"dataset", "school"}),
		invalidRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ecdash",
			Name:      "dataset_invalid_rows",
			Help:      "Rows outside physical plausibility ranges per school.",
		}, []string{"school"}),
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecdash",
			Name:      "dataset_reloads_total",
			Help:      "Dataset reload attempts by outcome.",
		}, []string{"outcome"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecdash",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path pattern and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecdash",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// ObserveLoad records the duration of one dataset load.
func (m *Metrics) ObserveLoad(dataset string, d time.Duration) {
	if m == nil {
		return
	}
	m.loadDuration.WithLabelValues(dataset).Observe(d.Seconds())
}

// SetRowsLoaded records the loaded row count for a school's table.
func (m *Metrics) SetRowsLoaded(dataset, school string, rows int) {
	if m == nil {
		return
	}
	m.rowsLoaded.WithLabelValues(dataset, school).Set(float64(rows))
}

// SetInvalidRows records the invalid-row count for a school.
func (m *Metrics) SetInvalidRows(school string, rows int) {
	if m == nil {
		return
	}
	m.invalidRows.WithLabelValues(school).Set(float64(rows))
}

// CountReload records a reload attempt outcome ("success" or "failure").
func (m *Metrics) CountReload(outcome string) {
	if m == nil {
		return
	}
	m.reloads.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
