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
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/mediasentry/pkg/records"
	"github.com/AleutianAI/mediasentry/services/reasoner/observability"
	"github.com/AleutianAI/mediasentry/services/reasoner/store"
)

// Persister is the dual-write capability the handler needs.
// *store.DualStore implements it; tests substitute a mock.
type Persister interface {
	Persist(ctx context.Context, report records.StoredReport) store.PersistOutcome
}

// ReportReader serves the live-view recency query.
type ReportReader interface {
	RecentClaims(ctx context.Context, limit int) ([]records.StoredReport, error)
}

// DecisionService holds the reasoner's long-lived dependencies.
type DecisionService struct {
	Persister Persister
	Reader    ReportReader
	Metrics   *observability.ReasonerMetrics
}

// Reason handles POST /reason: validate the enriched payload, apply the
// verdict rule, persist, and reply {status, id, verdict}.
//
// Store failures are non-fatal: the request still reports success because
// the item counts as processed. Partial writes show up in logs and the
// store_failures metric, not in the response.
func Reason(svc *DecisionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			svc.Metrics.ReasonDuration.Observe(time.Since(start).Seconds())
		}()

		var payload records.EnrichedPayload
		if err := c.BindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := payload.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rec := payload.SourceData
		slog.Info("reasoner received item", "id", rec.ID)

		verdict := records.Reason(
			payload.AnalysisResults.IsPotentialClaim,
			payload.AnalysisResults.MultimodalConsistencyScore,
		)
		svc.Metrics.Verdicts.WithLabelValues(string(verdict)).Inc()

		outcome := svc.Persister.Persist(c.Request.Context(), records.StoredReport{
			ID:       rec.ID,
			Text:     rec.ContentText(),
			Verdict:  verdict,
			Author:   rec.Author,
			URL:      rec.SourceURL,
			Platform: rec.Platform,
		})
		if outcome.VectorErr != nil {
			svc.Metrics.StoreFailures.WithLabelValues("vector").Inc()
		}
		if outcome.GraphErr != nil {
			svc.Metrics.StoreFailures.WithLabelValues("graph").Inc()
		}

		c.JSON(http.StatusOK, records.ReasonResponse{
			Status:  "success",
			ID:      rec.ID,
			Verdict: verdict,
		})
	}
}

// RecentReports handles GET /v1/reports/recent for the live view: the most
// recent claim-like reports, newest first. The count query parameter caps
// the result; it defaults to 50.
func RecentReports(svc *DecisionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if raw := c.Query("count"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "count must be a positive integer"})
				return
			}
			limit = parsed
		}

		reports, err := svc.Reader.RecentClaims(c.Request.Context(), limit)
		if err != nil {
			slog.Error("failed to query recent reports", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query reports"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"reports": reports})
	}
}

// HealthCheck is a plain liveness probe.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
