// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store persists verdict reports into the two stores: a Weaviate
// vector index for semantic search and a Neo4j graph for relational
// queries. The two writes are independent; neither rolls the other back.
package store

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"log/slog"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/AleutianAI/mediasentry/pkg/records"
)

// ReportClassName is the Weaviate class holding one object per report id.
const ReportClassName = "Report"

// GetReportSchema returns the Weaviate class definition for reports.
func GetReportSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       ReportClassName,
		Description: "A verified social-media report with its verdict.",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{
				Name:         "content",
				DataType:     []string{"text"},
				Description:  "The post text the verdict was computed from.",
				Tokenization: "word",
			},
			{
				Name:            "report_id",
				DataType:        []string{"text"},
				Description:     "The caller-assigned post id.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "verdict",
				DataType:        []string{"text"},
				Description:     "The verdict label for this report.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "source",
				DataType:        []string{"text"},
				Description:     "The original post URL.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "author",
				DataType:        []string{"text"},
				Description:     "The post author.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
		},
	}
}

// EnsureReportSchema creates the Report class when it does not exist yet.
// Failing to create the schema is fatal: the service cannot do its job
// without the index.
func EnsureReportSchema(client *weaviate.Client) {
	class := GetReportSchema()
	slog.Info("checking schema", "class", class.Class)

	_, err := client.Schema().ClassGetter().WithClassName(class.Class).Do(context.Background())
	if err != nil {
		slog.Info("schema not found, creating it", "class", class.Class)
		if err := client.Schema().ClassCreator().WithClass(class).Do(context.Background()); err != nil {
			log.Fatalf("Failed to create schema for class %s: %v", class.Class, err)
		}
		slog.Info("successfully created schema", "class", class.Class)
		return
	}
	slog.Info("schema already exists", "class", class.Class)
}

// VectorStore upserts reports into the Weaviate index.
type VectorStore struct {
	client   *weaviate.Client
	embedder Embedder
	retry    retryer
}

// NewVectorStore wires the index client with its embedding backend.
func NewVectorStore(client *weaviate.Client, embedder Embedder) *VectorStore {
	return &VectorStore{client: client, embedder: embedder, retry: defaultRetryer()}
}

// reportUUID derives the deterministic object id for a report id, so a
// second write to the same report id lands on the same object.
func reportUUID(id string) strfmt.UUID {
	hash := sha256.Sum256([]byte(id))
	docUUID, _ := uuid.FromBytes(hash[:16])
	return strfmt.UUID(docUUID.String())
}

// Upsert writes one report into the index, overwriting any existing entry
// for the same id. The vector comes from the embedding backend.
func (s *VectorStore) Upsert(ctx context.Context, report records.StoredReport) error {
	vector, err := s.embedder.Embed(ctx, report.Text)
	if err != nil {
		return fmt.Errorf("failed to embed report text: %w", err)
	}

	obj := &models.Object{
		Class:  ReportClassName,
		ID:     reportUUID(report.ID),
		Vector: vector,
		Properties: map[string]interface{}{
			"content":   report.Text,
			"report_id": report.ID,
			"verdict":   string(report.Verdict),
			"source":    report.URL,
			"author":    report.Author,
		},
	}

	// Batch writes replace existing objects with the same id, which is
	// exactly the upsert semantics the report contract needs.
	return s.retry.execute(ctx, func() error {
		resp, err := s.client.Batch().ObjectsBatcher().WithObjects(obj).Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to save the report to Weaviate: %w", err)
		}
		for _, item := range resp {
			if item.Result != nil && item.Result.Errors != nil &&
				len(item.Result.Errors.Error) > 0 {
				return fmt.Errorf("weaviate rejected report %s: %s",
					report.ID, item.Result.Errors.Error[0].Message)
			}
		}
		return nil
	})
}
