// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the analyzer.
//
// Metrics are exposed via the /metrics endpoint. All operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "mediasentry"

// AnalyzerMetrics holds the Prometheus metrics for the inference stage.
type AnalyzerMetrics struct {
	// ItemsAnalyzed counts /analyze requests by outcome status
	// (success, invalid, model_unavailable).
	ItemsAnalyzed *prometheus.CounterVec

	// DegradedScores counts consistency checks that substituted the
	// neutral default, by reason.
	DegradedScores *prometheus.CounterVec

	// ClaimsDetected counts items the detector flagged as claims.
	ClaimsDetected prometheus.Counter

	// AnalyzeDuration observes end-to-end /analyze latency.
	AnalyzeDuration prometheus.Histogram
}

// NewAnalyzerMetrics registers the analyzer metrics with the given
// registerer. Pass prometheus.DefaultRegisterer in main; tests pass a
// fresh registry to avoid duplicate registration.
func NewAnalyzerMetrics(reg prometheus.Registerer) *AnalyzerMetrics {
	factory := promauto.With(reg)
	return &AnalyzerMetrics{
		ItemsAnalyzed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "analyzer",
			Name:      "items_analyzed_total",
			Help:      "Items processed by the /analyze endpoint, by status.",
		}, []string{"status"}),
		DegradedScores: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "analyzer",
			Name:      "degraded_scores_total",
			Help:      "Consistency checks that fell back to the default score, by reason.",
		}, []string{"reason"}),
		ClaimsDetected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "analyzer",
			Name:      "claims_detected_total",
			Help:      "Items flagged as potential claims.",
		}),
		AnalyzeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "analyzer",
			Name:      "analyze_duration_seconds",
			Help:      "End-to-end /analyze latency.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
}
