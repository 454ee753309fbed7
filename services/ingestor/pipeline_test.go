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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/mediasentry/pkg/records"
)

// writeSource drops a JSON feed file into dir and returns its path.
func writeSource(t *testing.T, dir, name string, items []records.PostRecord) string {
	t.Helper()
	raw, err := json.Marshal(items)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

// stageServers runs fake analyzer and reasoner endpoints. failAnalyzeID
// makes the analyzer return a 500 for that item, simulating a stage
// failure mid-run.
type stageServers struct {
	analyzer *httptest.Server
	reasoner *httptest.Server

	mu            sync.Mutex
	analyzedIDs   []string
	reasonedIDs   []string
	failAnalyzeID string
}

func newStageServers(t *testing.T) *stageServers {
	t.Helper()
	s := &stageServers{}

	s.analyzer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var item records.PostRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&item))

		s.mu.Lock()
		fail := item.ID == s.failAnalyzeID
		if !fail {
			s.analyzedIDs = append(s.analyzedIDs, item.ID)
		}
		s.mu.Unlock()

		if fail {
			http.Error(w, "inference backend down", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(records.EnrichedPayload{
			SourceData: item,
			AnalysisResults: records.AnalysisResult{
				IsPotentialClaim: true,
			},
		})
	}))
	t.Cleanup(s.analyzer.Close)

	s.reasoner = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var enriched records.EnrichedPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&enriched))

		s.mu.Lock()
		s.reasonedIDs = append(s.reasonedIDs, enriched.SourceData.ID)
		s.mu.Unlock()

		json.NewEncoder(w).Encode(records.ReasonResponse{
			Status:  "success",
			ID:      enriched.SourceData.ID,
			Verdict: records.VerdictMisleadingMedia,
		})
	}))
	t.Cleanup(s.reasoner.Close)
	return s
}

func testConfig(servers *stageServers, sources ...string) *Config {
	return &Config{
		AnalyzerURL:        servers.analyzer.URL,
		ReasonerURL:        servers.reasoner.URL,
		Sources:            sources,
		PacingDelaySecs:    0.001, // keep tests fast
		AnalyzeTimeoutSecs: 2,
		ReasonTimeoutSecs:  2,
	}
}

func post(id string) records.PostRecord {
	return records.PostRecord{ID: id, Text: "BREAKING: item " + id, Platform: "reddit"}
}

func TestPipeline_ProcessesAllSourcesInOrder(t *testing.T) {
	servers := newStageServers(t)
	dir := t.TempDir()
	s1 := writeSource(t, dir, "reddit.json", []records.PostRecord{post("r1"), post("r2")})
	s2 := writeSource(t, dir, "youtube.json", []records.PostRecord{post("y1")})

	cfg := testConfig(servers, s1, s2)
	p := NewPipeline(NewStageClient(cfg), cfg, nil)
	result := p.Run(context.Background())

	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, StateDone, p.State())
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 0, result.SkippedSources)
	assert.Equal(t, []string{"r1", "r2", "y1"}, servers.analyzedIDs)
	assert.Equal(t, []string{"r1", "r2", "y1"}, servers.reasonedIDs)
}

func TestPipeline_StageFailureAbortsEverything(t *testing.T) {
	servers := newStageServers(t)
	servers.failAnalyzeID = "r2"
	dir := t.TempDir()
	s1 := writeSource(t, dir, "reddit.json",
		[]records.PostRecord{post("r1"), post("r2"), post("r3")})
	s2 := writeSource(t, dir, "youtube.json", []records.PostRecord{post("y1")})

	cfg := testConfig(servers, s1, s2)
	p := NewPipeline(NewStageClient(cfg), cfg, nil)
	result := p.Run(context.Background())

	// Item 1 went all the way through, item 2 failed, item 3 and the
	// whole second source were never sent.
	assert.Equal(t, StateAborted, result.State)
	assert.Equal(t, "r2", result.AbortedItem)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, []string{"r1"}, servers.reasonedIDs)
	assert.Equal(t, []string{"r1"}, servers.analyzedIDs)
}

func TestPipeline_UnreachableReasonerAborts(t *testing.T) {
	servers := newStageServers(t)
	deadURL := servers.reasoner.URL
	servers.reasoner.Close()

	dir := t.TempDir()
	s1 := writeSource(t, dir, "reddit.json", []records.PostRecord{post("r1")})

	cfg := testConfig(servers, s1)
	cfg.ReasonerURL = deadURL
	p := NewPipeline(NewStageClient(cfg), cfg, nil)
	result := p.Run(context.Background())

	assert.Equal(t, StateAborted, result.State)
	assert.Equal(t, 0, result.Processed)
}

func TestPipeline_MissingSourceIsSkippedNotFatal(t *testing.T) {
	servers := newStageServers(t)
	dir := t.TempDir()
	s2 := writeSource(t, dir, "youtube.json", []records.PostRecord{post("y1")})

	cfg := testConfig(servers, filepath.Join(dir, "missing.json"), s2)
	p := NewPipeline(NewStageClient(cfg), cfg, nil)
	result := p.Run(context.Background())

	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, 1, result.SkippedSources)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, []string{"y1"}, servers.reasonedIDs)
}

func TestPipeline_MalformedSourceIsSkipped(t *testing.T) {
	servers := newStageServers(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	good := writeSource(t, dir, "good.json", []records.PostRecord{post("g1")})

	cfg := testConfig(servers, bad, good)
	p := NewPipeline(NewStageClient(cfg), cfg, nil)
	result := p.Run(context.Background())

	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, 1, result.SkippedSources)
	assert.Equal(t, []string{"g1"}, servers.analyzedIDs)
}

func TestPipeline_ContextCancelAborts(t *testing.T) {
	servers := newStageServers(t)
	dir := t.TempDir()
	s1 := writeSource(t, dir, "reddit.json", []records.PostRecord{post("r1"), post("r2")})

	cfg := testConfig(servers, s1)
	cfg.PacingDelaySecs = 1 // long enough that cancellation lands in the pacing wait
	p := NewPipeline(NewStageClient(cfg), cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := p.Run(ctx)

	assert.Equal(t, StateAborted, result.State)
}

func TestLoadSource_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "feed.json", []records.PostRecord{
		{ID: "p1", Text: "hello", MediaURL: "https://example.com/a.png"},
	})

	items, err := LoadSource(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "https://example.com/a.png", items[0].MediaURL)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := fmt.Sprintf(`analyzer_url: http://analyzer:5001
reasoner_url: http://reasoner:5002
sources:
  - %s/reddit.json
pacing_delay_secs: 2
analyze_timeout_secs: 90
`, dir)
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://analyzer:5001", cfg.AnalyzerURL)
	assert.Equal(t, 2*time.Second, cfg.PacingDelay())
	assert.Equal(t, 90*time.Second, cfg.AnalyzeTimeout())
	// Unset values fall back to defaults.
	assert.Equal(t, 30*time.Second, cfg.ReasonTimeout())
}

func TestLoadConfig_NoSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analyzer_url: http://a\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
