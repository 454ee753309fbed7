// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/mediasentry/pkg/records"
	"github.com/AleutianAI/mediasentry/services/analyzer/claim"
	"github.com/AleutianAI/mediasentry/services/analyzer/clip"
	"github.com/AleutianAI/mediasentry/services/analyzer/observability"
)

// ConsistencyScorer is the inference capability the handler needs.
// *clip.Scorer implements it; tests substitute a mock.
type ConsistencyScorer interface {
	Score(ctx context.Context, text, mediaURL string) clip.ScoreOutcome
}

// InferenceService holds the analyzer's long-lived dependencies: the model
// client singleton, the claim detector, and metrics. Constructed once at
// startup and shared read-only across requests.
//
// InitErr is the explicit model-lifecycle status: when model construction
// failed at startup it is non-nil, the service stays up, and every /analyze
// request is answered with 503 until a restart.
type InferenceService struct {
	Scorer   ConsistencyScorer
	Detector claim.Detector
	Metrics  *observability.AnalyzerMetrics
	InitErr  error
}

// Ready reports whether the inference model is usable.
func (s *InferenceService) Ready() bool {
	return s.InitErr == nil && s.Scorer != nil
}

// Analyze handles POST /analyze: score text/image consistency, run claim
// detection, and return the enriched payload.
func Analyze(svc *InferenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			svc.Metrics.AnalyzeDuration.Observe(time.Since(start).Seconds())
		}()

		if !svc.Ready() {
			slog.Error("cannot process request because the model is not loaded",
				"init_error", svc.InitErr)
			svc.Metrics.ItemsAnalyzed.WithLabelValues("model_unavailable").Inc()
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not loaded"})
			return
		}

		var rec records.PostRecord
		if err := c.BindJSON(&rec); err != nil {
			svc.Metrics.ItemsAnalyzed.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := rec.Validate(); err != nil {
			svc.Metrics.ItemsAnalyzed.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		slog.Info("analyzer received item", "id", rec.ID)
		text := rec.ContentText()

		outcome := svc.Scorer.Score(c.Request.Context(), text, rec.MediaURL)
		if outcome.Degraded {
			svc.Metrics.DegradedScores.WithLabelValues(outcome.Reason).Inc()
		}

		isClaim := svc.Detector.IsClaim(text)
		if isClaim {
			svc.Metrics.ClaimsDetected.Inc()
		}

		svc.Metrics.ItemsAnalyzed.WithLabelValues("success").Inc()
		c.JSON(http.StatusOK, records.EnrichedPayload{
			SourceData: rec,
			AnalysisResults: records.AnalysisResult{
				IsPotentialClaim:           isClaim,
				MultimodalConsistencyScore: outcome.Score,
				ScoreDegraded:              outcome.Degraded,
				ScoreDegradedReason:        outcome.Reason,
			},
		})
	}
}

// HealthCheck reports the model lifecycle status alongside liveness.
func HealthCheck(svc *InferenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ready"
		code := http.StatusOK
		if !svc.Ready() {
			status = "model_unavailable"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status})
	}
}
