// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package metrics defines the prometheus instrumentation for the
// training pipeline and its collaborator clients.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TrainingRunsStarted counts accepted training requests per
	// classifier type.
	TrainingRunsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_started_total",
			Help: "Total number of accepted training runs",
		},
		[]string{"classifier"},
	)

	// TrainingRunsCompleted counts finished runs per classifier type and
	// result ("success" or "failure").
	TrainingRunsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_completed_total",
			Help: "Total number of completed training runs",
		},
		[]string{"classifier", "result"},
	)

	// TrainingRunsRejected counts requests dropped by the single-flight
	// guard.
	TrainingRunsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_rejected_total",
			Help: "Total number of training requests dropped while a run was in flight",
		},
		[]string{"classifier"},
	)

	// TrainingDuration observes wall-clock run duration per classifier
	// type.
	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "training_run_duration_seconds",
			Help:    "Training run duration in seconds",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
		},
		[]string{"classifier"},
	)

	// RecordsSkipped counts records dropped from feature sets per
	// reason ("missing_title", "missing_label", "offer_unavailable").
	RecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feature_records_skipped_total",
			Help: "Total number of records excluded from feature sets",
		},
		[]string{"reason"},
	)

	// DatasetPoolSize reports the size of the most recently materialized
	// sample pool.
	DatasetPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_pool_size",
			Help: "Number of matching records in the cached train/test pool",
		},
	)

	// OfferCacheRequests counts offer-cache lookups by outcome
	// ("hit", "miss", "error").
	OfferCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offer_cache_requests_total",
			Help: "Total number of offer cache lookups",
		},
		[]string{"outcome"},
	)

	// OfferCacheRetries counts retried offer-cache requests.
	OfferCacheRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "offer_cache_retries_total",
			Help: "Total number of offer cache request retries",
		},
	)

	// MatchesStoreRetries counts retried matches-store requests.
	MatchesStoreRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matches_store_retries_total",
			Help: "Total number of matches store request retries",
		},
	)

	// CircuitBreakerState reports breaker state per client
	// (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"client"},
	)

	// ModelsPersisted counts persisted winning artifacts per classifier
	// type.
	ModelsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "models_persisted_total",
			Help: "Total number of persisted model artifacts",
		},
		[]string{"classifier"},
	)
)
