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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/mediasentry/pkg/records"
)

func TestRenderReports(t *testing.T) {
	out := renderReports([]records.StoredReport{
		{
			ID:        "p1",
			Text:      "BREAKING: dam collapse",
			Verdict:   records.VerdictMisleadingMedia,
			Platform:  "reddit",
			Author:    "u/someone",
			Timestamp: time.Now(),
		},
	})

	assert.Contains(t, out, "MISLEADING_MEDIA_CLAIM")
	assert.Contains(t, out, "reddit")
	assert.Contains(t, out, "BREAKING: dam collapse")
}

func TestRenderReports_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", 200)
	out := renderReports([]records.StoredReport{
		{ID: "p1", Text: long, Verdict: records.VerdictUnverified},
	})

	assert.NotContains(t, out, long)
	assert.Contains(t, out, "...")
}

func TestReportClient_Recent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/reports/recent", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("count"))
		json.NewEncoder(w).Encode(map[string]any{
			"reports": []records.StoredReport{
				{ID: "p1", Verdict: records.VerdictVerifiedConsistent},
			},
		})
	}))
	defer srv.Close()

	client := NewReportClient(srv.URL)
	reports, err := client.Recent(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "p1", reports[0].ID)
}

func TestReportClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewReportClient(srv.URL)
	_, err := client.Recent(context.Background(), 5)
	assert.Error(t, err)
}
