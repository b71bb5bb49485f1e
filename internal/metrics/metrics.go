// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package metrics holds the Prometheus collectors exported on /metrics.
//
// Collectors are registered with the default registry through promauto.
// Callers use the Record* helpers rather than touching the vectors, so label
// sets stay consistent.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeNoMatch  = "no_match"
	OutcomeFiltered = "filtered"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
	OutcomeBusy     = "busy"
)

var (
	// Recommendation query metrics
	RecommendQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviematch_recommend_queries_total",
			Help: "Total number of recommendation queries by outcome",
		},
		[]string{"outcome"},
	)

	RecommendQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviematch_recommend_query_duration_seconds",
			Help:    "Time spent resolving a recommendation query",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// Engine build metrics
	EngineBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviematch_engine_builds_total",
			Help: "Total number of engine builds by result",
		},
		[]string{"result"}, // "success", "failure"
	)

	EngineBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviematch_engine_build_duration_seconds",
			Help:    "Time spent loading the corpus and building the engine",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	EngineVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviematch_engine_version",
			Help: "Version number of the engine currently serving queries",
		},
	)

	EngineLastBuildTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviematch_engine_last_build_timestamp_seconds",
			Help: "Unix time of the last successful engine build",
		},
	)

	MatrixShape = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moviematch_matrix_shape",
			Help: "Shape of the serving rating matrix",
		},
		[]string{"dimension"}, // "rows", "cols", "nnz"
	)

	// Result cache metrics
	ResultCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moviematch_result_cache_hits_total",
			Help: "Total number of recommendation result cache hits",
		},
	)

	ResultCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moviematch_result_cache_misses_total",
			Help: "Total number of recommendation result cache misses",
		},
	)

	// Dispatcher metrics
	DispatchQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviematch_dispatch_queue_depth",
			Help: "Number of queries waiting for a dispatcher worker",
		},
	)

	DispatchInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviematch_dispatch_in_flight",
			Help: "Number of queries currently running on dispatcher workers",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures seen by the circuit breaker",
		},
		[]string{"name"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordRecommendQuery records one resolved query.
func RecordRecommendQuery(outcome string, duration time.Duration) {
	RecommendQueriesTotal.WithLabelValues(outcome).Inc()
	RecommendQueryDuration.Observe(duration.Seconds())
}

// RecordEngineBuild records a build attempt. On success the shape gauges
// and version describe the engine that was just published.
func RecordEngineBuild(duration time.Duration, err error) {
	EngineBuildDuration.Observe(duration.Seconds())
	if err != nil {
		EngineBuildsTotal.WithLabelValues("failure").Inc()
		return
	}
	EngineBuildsTotal.WithLabelValues("success").Inc()
	EngineLastBuildTimestamp.SetToCurrentTime()
}

// SetServingEngine publishes the shape of the engine now answering queries.
func SetServingEngine(version uint64, rows, cols, nnz int) {
	EngineVersion.Set(float64(version))
	MatrixShape.WithLabelValues("rows").Set(float64(rows))
	MatrixShape.WithLabelValues("cols").Set(float64(cols))
	MatrixShape.WithLabelValues("nnz").Set(float64(nnz))
}

// RecordResultCache records a result cache lookup.
func RecordResultCache(hit bool) {
	if hit {
		ResultCacheHits.Inc()
		return
	}
	ResultCacheMisses.Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
