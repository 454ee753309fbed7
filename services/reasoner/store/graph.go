// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/AleutianAI/mediasentry/pkg/records"
)

// upsertReportCypher merges on the post id and overwrites the node's
// properties. The timestamp is stamped server-side at write time, so
// repeated writes to the same id bump recency rather than duplicate.
const upsertReportCypher = `
MERGE (p:Post {id: $id})
SET p.text = $text, p.verdict = $verdict, p.author = $author,
    p.url = $url, p.platform = $platform, p.timestamp = timestamp()`

// recentClaimsCypher feeds the live view: claim-like verdicts only,
// newest first.
const recentClaimsCypher = `
MATCH (p:Post)
WHERE p.verdict CONTAINS 'CLAIM' AND p.verdict <> 'NOT_A_CLAIM'
RETURN p.id AS id, p.platform AS platform, p.author AS author,
       p.text AS text, p.verdict AS verdict, p.url AS url,
       p.timestamp AS timestamp
ORDER BY p.timestamp DESC
LIMIT $limit`

// GraphStore upserts report nodes into Neo4j and serves the live-view
// recency query.
type GraphStore struct {
	driver neo4j.DriverWithContext
	retry  retryer
}

// NewGraphStoreFromEnv connects to Neo4j using NEO4J_URI, NEO4J_USER, and
// NEO4J_PASSWORD and verifies connectivity before returning.
func NewGraphStoreFromEnv(ctx context.Context) (*GraphStore, error) {
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		uri = "neo4j://localhost:7687"
	}
	user := os.Getenv("NEO4J_USER")
	if user == "" {
		user = "neo4j"
	}
	password := os.Getenv("NEO4J_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("NEO4J_PASSWORD environment variable not set")
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create the neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("neo4j is not reachable at %s: %w", uri, err)
	}
	return &GraphStore{driver: driver, retry: defaultRetryer()}, nil
}

// NewGraphStore wraps an existing driver; used by tests.
func NewGraphStore(driver neo4j.DriverWithContext) *GraphStore {
	return &GraphStore{driver: driver, retry: defaultRetryer()}
}

// Upsert merges the report node keyed by id and overwrites its properties.
func (g *GraphStore) Upsert(ctx context.Context, report records.StoredReport) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	return g.retry.execute(ctx, func() error {
		_, err := session.ExecuteWrite(ctx,
			func(tx neo4j.ManagedTransaction) (any, error) {
				_, err := tx.Run(ctx, upsertReportCypher, map[string]any{
					"id":       report.ID,
					"text":     report.Text,
					"verdict":  string(report.Verdict),
					"author":   report.Author,
					"url":      report.URL,
					"platform": report.Platform,
				})
				return nil, err
			})
		if err != nil {
			return fmt.Errorf("failed to merge report node %s: %w", report.ID, err)
		}
		return nil
	})
}

// RecentClaims returns the most recent claim-like reports, newest first,
// capped at limit. This is the graph store's only read surface; the live
// view polls it.
func (g *GraphStore) RecentClaims(ctx context.Context, limit int) ([]records.StoredReport, error) {
	if limit <= 0 {
		limit = 50
	}
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx,
		func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, recentClaimsCypher, map[string]any{"limit": limit})
			if err != nil {
				return nil, err
			}
			return res.Collect(ctx)
		})
	if err != nil {
		return nil, fmt.Errorf("failed to query recent claims: %w", err)
	}

	rows, ok := result.([]*neo4j.Record)
	if !ok {
		return nil, fmt.Errorf("unexpected neo4j result type %T", result)
	}

	reports := make([]records.StoredReport, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, recordToReport(row))
	}
	return reports, nil
}

// Close releases the underlying driver.
func (g *GraphStore) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

func recordToReport(row *neo4j.Record) records.StoredReport {
	report := records.StoredReport{
		ID:       stringValue(row, "id"),
		Platform: stringValue(row, "platform"),
		Author:   stringValue(row, "author"),
		Text:     stringValue(row, "text"),
		Verdict:  records.Verdict(stringValue(row, "verdict")),
		URL:      stringValue(row, "url"),
	}
	if raw, ok := row.Get("timestamp"); ok {
		if millis, ok := raw.(int64); ok {
			report.Timestamp = time.UnixMilli(millis)
		}
	}
	return report
}

func stringValue(row *neo4j.Record, key string) string {
	raw, ok := row.Get(key)
	if !ok || raw == nil {
		return ""
	}
	s, _ := raw.(string)
	return s
}
