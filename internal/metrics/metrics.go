// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

// Package metrics provides Prometheus instrumentation for AniRec.
//
// Exposed at GET /metrics. Covers:
//   - API endpoint latency and throughput
//   - MyAnimeList fetch behavior (pages, retries, outcomes)
//   - Personalization pipeline timing (incremental fit, scoring)
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics

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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// MyAnimeList upstream metrics

	MALPagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mal_pages_fetched_total",
			Help: "Total number of animelist pages fetched from MyAnimeList",
		},
	)

	MALFetchRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mal_fetch_retries_total",
			Help: "Total number of retried MyAnimeList requests",
		},
	)

	MALFetchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mal_fetch_outcomes_total",
			Help: "Terminal states of animelist fetches",
		},
		[]string{"state"}, // done, aborted_auth, aborted_timeout
	)

	// Personalization pipeline metrics

	FitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "personalize_fit_duration_seconds",
			Help:    "Duration of the incremental model fit in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ScoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "personalize_score_duration_seconds",
			Help:    "Duration of full-catalog scoring in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PersonalizeOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personalize_outcomes_total",
			Help: "Outcomes of personalization requests",
		},
		[]string{"outcome"}, // ok, empty_history, fetch_error, canceled
	)

	UnmappedEntities = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unmapped_entities_total",
			Help: "History entries or genres dropped because they are absent from the trained feature space",
		},
		[]string{"kind"}, // item, genre
	)
)

// ObserveAPIRequest records one completed HTTP request.
func ObserveAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
