// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Package metrics defines the Prometheus collectors exposed at /metrics.
// All collectors are registered on the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequests counts handled HTTP requests by route and status class.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "persona_engine",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total HTTP requests handled, by route and status class.",
	}, []string{"route", "status"})

	// APIRequestDuration observes request latency by route.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "persona_engine",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds, by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// CacheHits counts metadata cache hits by namespace.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "persona_engine",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Cache hits, by key namespace.",
	}, []string{"namespace"})

	// CacheMisses counts metadata cache misses by namespace.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "persona_engine",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Cache misses, by key namespace.",
	}, []string{"namespace"})

	// CacheEvictions counts entries evicted to hold the size bound.
	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "persona_engine",
		Subsystem: "cache",
		Name:      "evictions_total",
		Help:      "Entries evicted because the cache reached its size bound.",
	})

	// CacheEntries gauges current cache occupancy.
	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "persona_engine",
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Current number of live cache entries.",
	})

	// StorageUploads counts gateway uploads by outcome.
	StorageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "persona_engine",
		Subsystem: "storage",
		Name:      "uploads_total",
		Help:      "Object gateway uploads, by outcome.",
	}, []string{"outcome"})

	// StorageDownloads counts gateway downloads by outcome.
	StorageDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "persona_engine",
		Subsystem: "storage",
		Name:      "downloads_total",
		Help:      "Object gateway downloads, by outcome.",
	}, []string{"outcome"})

	// StorageRequestDuration observes gateway round-trip latency by operation.
	StorageRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "persona_engine",
		Subsystem: "storage",
		Name:      "request_duration_seconds",
		Help:      "Object gateway round-trip latency in seconds, by operation.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"operation"})

	// BreakerState gauges the gateway circuit breaker state
	// (0 closed, 1 half-open, 2 open).
	BreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "persona_engine",
		Subsystem: "storage",
		Name:      "breaker_state",
		Help:      "Gateway circuit breaker state: 0 closed, 1 half-open, 2 open.",
	})

	// RateLimitRejections counts admissions rejected by the per-identity window.
	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "persona_engine",
		Subsystem: "ratelimit",
		Name:      "rejections_total",
		Help:      "Requests rejected by the per-identity rate window.",
	})

	// PersonasProcessed counts persona pipeline runs by outcome.
	PersonasProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "persona_engine",
		Subsystem: "persona",
		Name:      "processed_total",
		Help:      "Persona processing runs, by outcome.",
	}, []string{"outcome"})
)

// StatusClass buckets an HTTP status code into the label values used by
// APIRequests ("2xx", "4xx", "5xx", ...).
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
