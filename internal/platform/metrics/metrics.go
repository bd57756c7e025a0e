// Package metrics holds the process wide Prometheus collectors
// Collectors register on the default registry at init, so callers share them
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lorebook_http_requests_total",
			Help: "Total HTTP requests by method, route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lorebook_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Catalog

	// CatalogResolutions counts read operations by outcome (ok, not_found, error)
	CatalogResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lorebook_catalog_resolutions_total",
			Help: "Catalog read resolutions by kind, operation and outcome",
		},
		[]string{"kind", "op", "outcome"},
	)

	// CatalogMisses counts NotFound results by cause (unknown_id, unknown_translation)
	CatalogMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lorebook_catalog_misses_total",
			Help: "Catalog NotFound results by kind and cause",
		},
		[]string{"kind", "cause"},
	)

	// CatalogListExcluded counts listed ids left out for lacking the requested translation
	CatalogListExcluded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lorebook_catalog_list_excluded_total",
			Help: "Listed resources excluded for lacking a translation",
		},
		[]string{"kind"},
	)

	// CatalogFilterDropped counts filter values dropped as invalid for their field type
	CatalogFilterDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lorebook_catalog_filter_values_dropped_total",
			Help: "Filter values dropped because they did not parse for the field type",
		},
		[]string{"kind"},
	)

	// Store breaker

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lorebook_store_breaker_state",
			Help: "Store circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	BreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lorebook_store_breaker_requests_total",
			Help: "Store calls through the circuit breaker by result",
		},
		[]string{"name", "result"},
	)

	BreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lorebook_store_breaker_transitions_total",
			Help: "Store circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler { return promhttp.Handler() }

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordResolution records the outcome of a catalog read
func RecordResolution(kind, op, outcome string) {
	CatalogResolutions.WithLabelValues(kind, op, outcome).Inc()
}

// RecordMiss records a NotFound with its internal cause
func RecordMiss(kind, cause string) {
	CatalogMisses.WithLabelValues(kind, cause).Inc()
}

// RecordListExcluded records n ids excluded from one listing page
func RecordListExcluded(kind string, n int) {
	if n > 0 {
		CatalogListExcluded.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordFilterDropped records n dropped filter values
func RecordFilterDropped(kind string, n int) {
	if n > 0 {
		CatalogFilterDropped.WithLabelValues(kind).Add(float64(n))
	}
}
