// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the reasoner.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "mediasentry"

// ReasonerMetrics holds the Prometheus metrics for the decision stage.
type ReasonerMetrics struct {
	// Verdicts counts computed verdicts by label.
	Verdicts *prometheus.CounterVec

	// StoreFailures counts failed store writes by store name. A partial
	// dual-write increments exactly one of the two labels.
	StoreFailures *prometheus.CounterVec

	// ReasonDuration observes end-to-end /reason latency.
	ReasonDuration prometheus.Histogram
}

// NewReasonerMetrics registers the reasoner metrics with the given
// registerer.
func NewReasonerMetrics(reg prometheus.Registerer) *ReasonerMetrics {
	factory := promauto.With(reg)
	return &ReasonerMetrics{
		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "reasoner",
			Name:      "verdicts_total",
			Help:      "Verdicts computed, by label.",
		}, []string{"verdict"}),
		StoreFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "reasoner",
			Name:      "store_failures_total",
			Help:      "Failed store writes, by store.",
		}, []string{"store"}),
		ReasonDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "reasoner",
			Name:      "reason_duration_seconds",
			Help:      "End-to-end /reason latency.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
	}
}
