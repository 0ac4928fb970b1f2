// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

// Package metrics holds the Prometheus instrumentation for sync runs, Strava
// requests, the detail-lookup circuit breaker and the daemon HTTP API.
//
// Metrics are registered on the default registry via promauto. Daemon mode
// serves them on /metrics; one-shot mode writes them to a node-exporter
// textfile with WriteTextfile.
package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync run metrics
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pacekeeper_sync_duration_seconds",
			Help:    "Duration of sync runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pacekeeper_sync_runs_total",
			Help: "Total number of sync runs by result",
		},
		[]string{"result"}, // "success", "failure"
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pacekeeper_sync_errors_total",
			Help: "Total number of failed sync runs by error type",
		},
		[]string{"error_type"}, // "credential", "remote_fetch", "malformed_response", "storage", "other"
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pacekeeper_sync_last_success_timestamp",
			Help: "Unix timestamp of the last successful sync run",
		},
	)

	SyncRecordsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pacekeeper_sync_records_fetched_total",
			Help: "Total number of activity summaries fetched from Strava",
		},
	)

	SyncNewRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pacekeeper_sync_new_records_total",
			Help: "Total number of activities added to the cache for the first time",
		},
	)

	SyncCachedRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pacekeeper_sync_cached_records",
			Help: "Number of activities in the merged cache after the last run",
		},
	)

	SyncPagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pacekeeper_sync_pages_fetched_total",
			Help: "Total number of activity list pages fetched",
		},
	)

	SyncWatermark = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pacekeeper_sync_watermark_epoch_seconds",
			Help: "Resumption watermark persisted by the last successful run",
		},
	)

	DetailLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pacekeeper_detail_lookups_total",
			Help: "Total number of activity detail lookups by result",
		},
		[]string{"result"}, // "success", "failure", "breaker_open"
	)

	// Strava client metrics
	StravaRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pacekeeper_strava_requests_total",
			Help: "Total number of Strava API requests",
		},
		[]string{"endpoint", "status"},
	)

	StravaRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pacekeeper_strava_request_duration_seconds",
			Help:    "Duration of Strava API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	StravaRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pacekeeper_strava_rate_limit_wait_seconds",
			Help:    "Time spent waiting on the outbound rate limiter",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 5, 10, 30, 60},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pacekeeper_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pacekeeper_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pacekeeper_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pacekeeper_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Daemon HTTP API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pacekeeper_api_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pacekeeper_api_request_duration_seconds",
			Help:    "Duration of HTTP API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordSyncOperation records the outcome of a sync run. Errors that expose
// an ErrorType() string method are counted under that label.
func RecordSyncOperation(duration time.Duration, recordsFetched int, err error) {
	SyncDuration.Observe(duration.Seconds())
	SyncRecordsFetched.Add(float64(recordsFetched))

	if err != nil {
		SyncRuns.WithLabelValues("failure").Inc()
		SyncErrors.WithLabelValues(errorType(err)).Inc()
		return
	}

	SyncRuns.WithLabelValues("success").Inc()
	SyncLastSuccess.Set(float64(time.Now().Unix()))
}

func errorType(err error) string {
	var typed interface{ ErrorType() string }
	if errors.As(err, &typed) {
		return typed.ErrorType()
	}
	return "other"
}

// RecordStravaRequest records one Strava API call.
func RecordStravaRequest(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	StravaRequests.WithLabelValues(endpoint, label).Inc()
	StravaRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordAPIRequest records a daemon HTTP API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// WriteTextfile writes every registered metric to path in the text
// exposition format, for the node-exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
