// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package clip

import (
	"context"
	"log/slog"
)

// DecoyCaption is the fixed neutral caption scored against the post's own
// text. Forcing the model to choose between the two turns raw similarity
// into a meaningful probability.
const DecoyCaption = "a generic, unrelated image"

// Degradation reasons carried on a ScoreOutcome. The score value collapses
// no-media, fetch-failed, and inference-failed to 0.0; the reason is how
// callers and tests tell them apart.
const (
	ReasonNoMedia         = "no_media"
	ReasonFetchFailed     = "image_fetch_failed"
	ReasonInferenceFailed = "model_inference_failed"
)

// ScoreOutcome is the result of one consistency check. Degraded outcomes
// substituted a default score rather than computing one.
type ScoreOutcome struct {
	Score    float64
	Degraded bool
	Reason   string
}

// Ok wraps a computed score.
func Ok(score float64) ScoreOutcome {
	return ScoreOutcome{Score: score}
}

// DegradedOutcome wraps the neutral default with the reason it was used.
func DegradedOutcome(reason string) ScoreOutcome {
	return ScoreOutcome{Score: 0.0, Degraded: true, Reason: reason}
}

// Scorer runs the multimodal consistency check for one post.
//
// All failure paths are soft: the scorer logs and returns a degraded 0.0
// outcome, never an error. Downstream classification treats 0.0 as
// maximally inconsistent regardless of why.
type Scorer struct {
	model   ConsistencyModel
	fetcher *ImageFetcher
	logger  *slog.Logger
}

// NewScorer wires a scorer from its two collaborators.
func NewScorer(model ConsistencyModel, fetcher *ImageFetcher, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{model: model, fetcher: fetcher, logger: logger}
}

// Score returns the probability mass the model assigns to the post's own
// text versus the decoy caption, in [0,1].
func (s *Scorer) Score(ctx context.Context, text, mediaURL string) ScoreOutcome {
	if mediaURL == "" {
		s.logger.Info("no media url provided, skipping multimodal analysis")
		return DegradedOutcome(ReasonNoMedia)
	}

	imageBytes, err := s.fetcher.Fetch(ctx, mediaURL)
	if err != nil {
		s.logger.Warn("could not retrieve a valid image for analysis",
			"url", mediaURL, "error", err)
		return DegradedOutcome(ReasonFetchFailed)
	}

	captions := []string{text, DecoyCaption}
	similarities, err := s.model.Similarities(ctx, EncodeImage(imageBytes), captions)
	if err != nil {
		s.logger.Error("clip model inference failed", "url", mediaURL, "error", err)
		return DegradedOutcome(ReasonInferenceFailed)
	}

	probs := Softmax(similarities)
	score := probs[0]
	s.logger.Info("clip similarity score computed", "score", score)
	return Ok(score)
}
