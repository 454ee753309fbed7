// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/mediasentry/pkg/logging"
	"github.com/AleutianAI/mediasentry/pkg/telemetry"
	"github.com/AleutianAI/mediasentry/services/analyzer/claim"
	"github.com/AleutianAI/mediasentry/services/analyzer/clip"
	"github.com/AleutianAI/mediasentry/services/analyzer/handlers"
	"github.com/AleutianAI/mediasentry/services/analyzer/observability"
	"github.com/AleutianAI/mediasentry/services/analyzer/routes"
)

func main() {
	port := os.Getenv("ANALYZER_PORT")
	if port == "" {
		port = "5001"
	}

	slog.SetDefault(logging.New(logging.Config{Service: "analyzer", JSON: true}))

	cleanup, err := telemetry.InitTracer("analyzer-service")
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	svc := &handlers.InferenceService{
		Detector: newDetectorFromEnv(),
		Metrics:  observability.NewAnalyzerMetrics(prometheus.DefaultRegisterer),
	}

	// Model client is a process-wide singleton, built once. A failure here
	// does not kill the service: /analyze answers 503 until a restart, and
	// /health exposes the state.
	modelClient, err := clip.NewClipServerClient()
	if err != nil {
		slog.Error("could not initialize the CLIP model client, serving degraded",
			"error", err)
		svc.InitErr = err
	} else {
		fetcher := clip.NewImageFetcher(clip.FetcherConfig{})
		svc.Scorer = clip.NewScorer(modelClient, fetcher, slog.Default())
		slog.Info("CLIP model client initialized")
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("analyzer-service"))
	routes.SetupRoutes(router, svc)

	slog.Info("starting the analyzer server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// newDetectorFromEnv builds the claim detector. CLAIM_MARKERS is a
// comma-separated override of the default marker list.
func newDetectorFromEnv() claim.Detector {
	raw := os.Getenv("CLAIM_MARKERS")
	if raw == "" {
		return claim.NewKeywordDetector()
	}
	return claim.NewKeywordDetector(strings.Split(raw, ",")...)
}
