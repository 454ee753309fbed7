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
	"io"
	"net/http"
	"time"

	"github.com/AleutianAI/mediasentry/pkg/records"
)

// ReportClient reads recent reports from the reasoner's query endpoint.
type ReportClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewReportClient(baseURL string) *ReportClient {
	return &ReportClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
	}
}

// Recent fetches up to count of the newest claim-like reports.
func (c *ReportClient) Recent(ctx context.Context, count int) ([]records.StoredReport, error) {
	url := fmt.Sprintf("%s/v1/reports/recent?count=%d", c.baseURL, count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to reasoner failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reasoner returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Reports []records.StoredReport `json:"reports"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return payload.Reports, nil
}
