package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Geolocation Metrics
	GeoLookupsTotal   *prometheus.CounterVec
	GeoLookupErrors   *prometheus.CounterVec
	GeoLookupDuration *prometheus.HistogramVec

	// Datastore Metrics (local geolocation backends)
	DatastoreQueriesTotal  *prometheus.CounterVec
	DatastoreQueryDuration *prometheus.HistogramVec

	// Application Metrics
	LanguageNegotiations *prometheus.CounterVec
}

// New creates all Prometheus metrics and registers them with reg
// Pass prometheus.DefaultRegisterer in production, a fresh registry in tests
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint"},
		),

		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint", "status"},
		),

		// Geolocation Metrics
		GeoLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geo_lookups_total",
				Help: "Total number of geolocation lookups by outcome",
			},
			[]string{"backend", "result"},
		),

		GeoLookupErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geo_lookup_errors_total",
				Help: "Total number of geolocation lookups degraded to not found by a failure",
			},
			[]string{"backend", "error_type"},
		),

		GeoLookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "geo_lookup_duration_seconds",
				Help:    "Geolocation lookup latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),

		// Datastore Metrics
		DatastoreQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datastore_queries_total",
				Help: "Total number of datastore queries",
			},
			[]string{"datastore", "operation", "status"},
		),

		DatastoreQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datastore_query_duration_seconds",
				Help:    "Datastore query latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"datastore", "operation"},
		),

		// Application Metrics
		LanguageNegotiations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "language_negotiations_total",
				Help: "Total number of Accept-Language negotiations by outcome",
			},
			[]string{"result"},
		),
	}
}
