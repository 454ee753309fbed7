// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package clip scores how well a post's attached image agrees with its
// text. The actual CLIP model runs in a separate model-server process; this
// package holds the HTTP client for it plus the image retrieval and the
// softmax over candidate captions.
package clip

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"
)

// ConsistencyModel returns one image/caption similarity per candidate
// caption. Implementations must be safe for concurrent use.
type ConsistencyModel interface {
	Similarities(ctx context.Context, imageB64 string, captions []string) ([]float64, error)
}

// ClipServerClient talks to a CLIP scoring server over HTTP.
type ClipServerClient struct {
	httpClient *http.Client
	baseURL    string
}

type clipScoreRequest struct {
	Image    string   `json:"image"`
	Captions []string `json:"captions"`
}

type clipScoreResponse struct {
	Similarities []float64 `json:"similarities"`
}

// NewClipServerClient reads CLIP_SERVICE_URL and builds the client. The
// timeout is generous; model inference on CPU is slow.
func NewClipServerClient() (*ClipServerClient, error) {
	baseURL := os.Getenv("CLIP_SERVICE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("CLIP_SERVICE_URL environment variable not set")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &ClipServerClient{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		baseURL:    baseURL,
	}, nil
}

// Similarities implements ConsistencyModel against the /score endpoint.
func (c *ClipServerClient) Similarities(ctx context.Context, imageB64 string,
	captions []string) ([]float64, error) {

	payload := clipScoreRequest{Image: imageB64, Captions: captions}
	reqBodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal the score payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/score", bytes.NewBuffer(reqBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to build the score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call the clip server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read the clip server response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clip server returned status %d: %s", resp.StatusCode, string(body))
	}

	var scoreResp clipScoreResponse
	if err := json.Unmarshal(body, &scoreResp); err != nil {
		return nil, fmt.Errorf("failed to parse the clip server response: %w", err)
	}
	if len(scoreResp.Similarities) != len(captions) {
		return nil, fmt.Errorf("clip server returned %d similarities for %d captions",
			len(scoreResp.Similarities), len(captions))
	}
	return scoreResp.Similarities, nil
}

// EncodeImage converts raw image bytes to the wire encoding the model
// server expects.
func EncodeImage(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Softmax converts similarity logits into a probability distribution.
// Subtracts the max first for numerical stability.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(l - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
