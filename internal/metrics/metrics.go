// Package metrics defines Prometheus metrics for the marketplace binaries.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mkt"

// HTTP server metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last /healthz probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last /readyz probe succeeded, 0 otherwise.",
	})
)

// Listing service metrics.
var (
	ItemMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "item_mutations_total",
		Help:      "Total number of item mutations by operation and result.",
	}, []string{"op", "result"})

	ItemCacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "item_cache_lookups_total",
		Help:      "Total number of item list cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	ItemEventsPublishFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "item_events_publish_failures_total",
		Help:      "Total number of item change events that failed to publish.",
	})
)

// Items client metrics.
var (
	ClientRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_requests_total",
		Help:      "Total number of listing service calls by operation and outcome.",
	}, []string{"op", "outcome"})

	ClientRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "client_request_duration_seconds",
		Help:      "Duration of listing service calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	BoardRefreshFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "board_refresh_failures_total",
		Help:      "Total number of failed listing board refreshes.",
	})
)
