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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AleutianAI/mediasentry/pkg/records"
)

// StageClient calls both pipeline stages. A single shared http.Client keeps
// connections open across items; per-stage timeouts ride on the request
// context instead.
type StageClient struct {
	httpClient     *http.Client
	analyzerURL    string
	reasonerURL    string
	analyzeTimeout time.Duration
	reasonTimeout  time.Duration
}

func NewStageClient(cfg *Config) *StageClient {
	return &StageClient{
		httpClient:     &http.Client{},
		analyzerURL:    cfg.AnalyzerURL,
		reasonerURL:    cfg.ReasonerURL,
		analyzeTimeout: cfg.AnalyzeTimeout(),
		reasonTimeout:  cfg.ReasonTimeout(),
	}
}

// Analyze posts one record to the inference stage and returns the enriched
// payload. Any transport failure, including a non-2xx status, is an error.
func (c *StageClient) Analyze(ctx context.Context, item records.PostRecord) (records.EnrichedPayload, error) {
	var enriched records.EnrichedPayload
	if err := c.post(ctx, c.analyzerURL+"/analyze", c.analyzeTimeout, item, &enriched); err != nil {
		return records.EnrichedPayload{}, fmt.Errorf("analyze stage failed for %s: %w", item.ID, err)
	}
	return enriched, nil
}

// Reason posts the enriched payload to the decision stage.
func (c *StageClient) Reason(ctx context.Context, enriched records.EnrichedPayload) (records.ReasonResponse, error) {
	var resp records.ReasonResponse
	if err := c.post(ctx, c.reasonerURL+"/reason", c.reasonTimeout, enriched, &resp); err != nil {
		return records.ReasonResponse{}, fmt.Errorf("reason stage failed for %s: %w", enriched.SourceData.ID, err)
	}
	return resp, nil
}

func (c *StageClient) post(ctx context.Context, url string, timeout time.Duration, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d: %s", url, resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
