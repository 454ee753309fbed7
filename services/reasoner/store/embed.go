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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Embedder turns report text into the vector the index stores.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedderFromEnv picks the embedding backend. EMBEDDING_BACKEND
// selects "local" (an HTTP embedding service, the default) or "openai".
func NewEmbedderFromEnv() (Embedder, error) {
	switch os.Getenv("EMBEDDING_BACKEND") {
	case "", "local":
		return NewHTTPEmbedder()
	case "openai":
		return NewOpenAIEmbedder()
	default:
		return nil, fmt.Errorf("unknown EMBEDDING_BACKEND %q", os.Getenv("EMBEDDING_BACKEND"))
	}
}

// -----------------------------------------------------------------------------
// Local HTTP embedding service
// -----------------------------------------------------------------------------

// HTTPEmbedder calls the local embedding service's /batch_embed endpoint.
type HTTPEmbedder struct {
	httpClient *http.Client
	batchURL   string
}

type batchEmbedRequest struct {
	Texts []string `json:"texts"`
}

type batchEmbedResponse struct {
	Vectors [][]float32 `json:"vectors"`
}

// NewHTTPEmbedder reads EMBEDDING_SERVICE_URL and builds the client.
func NewHTTPEmbedder() (*HTTPEmbedder, error) {
	baseURL := os.Getenv("EMBEDDING_SERVICE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("EMBEDDING_SERVICE_URL environment variable not set")
	}
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/embed")
	return &HTTPEmbedder{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		batchURL:   baseURL + "/batch_embed",
	}, nil
}

// Embed implements Embedder against the batch endpoint with a single text.
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	jsonData, err := json.Marshal(batchEmbedRequest{Texts: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.batchURL,
		bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call the embedding service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read the embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d: %s",
			resp.StatusCode, string(body))
	}

	var batchResp batchEmbedResponse
	if err := json.Unmarshal(body, &batchResp); err != nil {
		return nil, fmt.Errorf("failed to decode the embedding response: %w", err)
	}
	if len(batchResp.Vectors) != 1 {
		return nil, fmt.Errorf("embedding service returned %d vectors for 1 text",
			len(batchResp.Vectors))
	}
	return batchResp.Vectors[0], nil
}

// -----------------------------------------------------------------------------
// OpenAI embeddings
// -----------------------------------------------------------------------------

// OpenAIEmbedder uses the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIEmbedder reads OPENAI_API_KEY and builds the client.
func NewOpenAIEmbedder() (*OpenAIEmbedder, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	model := openai.EmbeddingModel(os.Getenv("OPENAI_EMBEDDING_MODEL"))
	if model == "" {
		model = openai.SmallEmbedding3
	}
	return &OpenAIEmbedder{client: openai.NewClient(apiKey), model: model}, nil
}

// Embed implements Embedder.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}
	if len(resp.Data) != 1 {
		return nil, fmt.Errorf("openai returned %d embeddings for 1 text", len(resp.Data))
	}
	return resp.Data[0].Embedding, nil
}
