// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts façade reads by result ("hit" or "miss").
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelist_cache_lookups_total",
			Help: "Catalog cache lookups by result",
		},
		[]string{"result"},
	)

	// CacheErrors counts store failures swallowed by the façade.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelist_cache_errors_total",
			Help: "Cache store errors treated as a miss or a no-op",
		},
		[]string{"op"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelist_upstream_requests_total",
			Help: "Outbound requests to catalog providers",
		},
		[]string{"provider", "operation", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinelist_upstream_request_duration_seconds",
			Help:    "Duration of outbound requests to catalog providers",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelist_http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinelist_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)
)
