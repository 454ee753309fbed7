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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPEmbedder_RequiresURL(t *testing.T) {
	t.Setenv("EMBEDDING_SERVICE_URL", "")
	_, err := NewHTTPEmbedder()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMBEDDING_SERVICE_URL")
}

func TestHTTPEmbedder_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/batch_embed", r.URL.Path)
		var req batchEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Texts, 1)
		_ = json.NewEncoder(w).Encode(batchEmbedResponse{
			Vectors: [][]float32{{0.1, 0.2, 0.3}},
		})
	}))
	defer server.Close()

	t.Setenv("EMBEDDING_SERVICE_URL", server.URL+"/embed")
	embedder, err := NewHTTPEmbedder()
	require.NoError(t, err)

	vec, err := embedder.Embed(context.Background(), "dam collapse")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestHTTPEmbedder_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	t.Setenv("EMBEDDING_SERVICE_URL", server.URL)
	embedder, err := NewHTTPEmbedder()
	require.NoError(t, err)

	_, err = embedder.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestHTTPEmbedder_MismatchedVectorCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(batchEmbedResponse{Vectors: [][]float32{}})
	}))
	defer server.Close()

	t.Setenv("EMBEDDING_SERVICE_URL", server.URL)
	embedder, err := NewHTTPEmbedder()
	require.NoError(t, err)

	_, err = embedder.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0 vectors")
}

func TestNewEmbedderFromEnv_UnknownBackend(t *testing.T) {
	t.Setenv("EMBEDDING_BACKEND", "chroma")
	_, err := NewEmbedderFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown EMBEDDING_BACKEND")
}

func TestNewOpenAIEmbedder_RequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewOpenAIEmbedder()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}
