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
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/mediasentry/pkg/logging"
	"github.com/AleutianAI/mediasentry/pkg/telemetry"
	"github.com/AleutianAI/mediasentry/services/reasoner/handlers"
	"github.com/AleutianAI/mediasentry/services/reasoner/observability"
	"github.com/AleutianAI/mediasentry/services/reasoner/routes"
	"github.com/AleutianAI/mediasentry/services/reasoner/store"
)

func main() {
	port := os.Getenv("REASONER_PORT")
	if port == "" {
		port = "5002"
	}

	slog.SetDefault(logging.New(logging.Config{Service: "reasoner", JSON: true}))

	cleanup, err := telemetry.InitTracer("reasoner-service")
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	ctx := context.Background()

	weaviateClient := newWeaviateClient()
	if weaviateClient == nil {
		log.Fatalf("a reachable Weaviate instance is required, set WEAVIATE_SERVICE_URL")
	}
	store.EnsureReportSchema(weaviateClient)

	embedder, err := store.NewEmbedderFromEnv()
	if err != nil {
		log.Fatalf("failed to initialize the embedder: %v", err)
	}

	graphStore, err := store.NewGraphStoreFromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to connect to Neo4j: %v", err)
	}
	defer graphStore.Close(ctx)

	vectorStore := store.NewVectorStore(weaviateClient, embedder)
	dual := store.NewDualStore(vectorStore, graphStore, slog.Default())

	svc := &handlers.DecisionService{
		Persister: dual,
		Reader:    graphStore,
		Metrics:   observability.NewReasonerMetrics(prometheus.DefaultRegisterer),
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("reasoner-service"))
	routes.SetupRoutes(router, svc)

	slog.Info("starting the reasoner server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// newWeaviateClient builds the Weaviate client from WEAVIATE_SERVICE_URL.
// Returns nil when the URL is missing or unparseable.
func newWeaviateClient() *weaviate.Client {
	// Trim quotes and whitespace in case the container runtime passes
	// them literally.
	rawURL := strings.Trim(os.Getenv("WEAVIATE_SERVICE_URL"), "\"' ")
	if rawURL == "" || !strings.Contains(rawURL, "http") {
		slog.Error("WEAVIATE_SERVICE_URL not set or missing a scheme", "url", rawURL)
		return nil
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		slog.Error("WEAVIATE_SERVICE_URL is invalid", "url", rawURL, "error", err)
		return nil
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   parsedURL.Host,
		Scheme: parsedURL.Scheme,
	})
	if err != nil {
		slog.Error("failed to create Weaviate client", "error", err)
		return nil
	}
	return client
}
