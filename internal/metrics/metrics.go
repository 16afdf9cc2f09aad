// ================================
// internal/metrics/metrics.go - Self-monitoring for EVITALAB-CORE
// ================================

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evitalab_core_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evitalab_core_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// gRPC client metrics (calls to evitaDB servers)
	GRPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evitalab_core_grpc_requests_total",
			Help: "Total number of gRPC requests to evitaDB servers",
		},
		[]string{"service", "method", "status"},
	)

	GRPCRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evitalab_core_grpc_request_duration_seconds",
			Help:    "gRPC request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method"},
	)

	// GraphQL client metrics
	GraphQLRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evitalab_core_graphql_requests_total",
			Help: "Total number of GraphQL requests to evitaDB servers",
		},
		[]string{"status"},
	)

	// Schema cache and connection store metrics
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evitalab_core_cache_requests_total",
			Help: "Total number of cache requests",
		},
		[]string{"cache", "result"}, // schema/driver/connections, hit/miss/error
	)

	CacheRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evitalab_core_cache_request_duration_seconds",
			Help:    "Cache request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"operation"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evitalab_core_connections_active",
			Help: "Number of registered evitaDB connections",
		},
	)

	// Query processing metrics
	QueryExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evitalab_core_query_execution_duration_seconds",
			Help:    "Query execution duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"language"}, // evitaql, graphql
	)

	QueryExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evitalab_core_query_executions_total",
			Help: "Total number of executed queries",
		},
		[]string{"language", "result"},
	)

	DriverResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evitalab_core_driver_resolutions_total",
			Help: "Total number of driver resolutions against server versions",
		},
		[]string{"driver", "result"},
	)

	TrafficRecordsVisualised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evitalab_core_traffic_records_visualised_total",
			Help: "Total number of traffic records processed by the visualisation",
		},
		[]string{"type"},
	)
)
