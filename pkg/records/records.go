// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package records defines the data contracts shared across the pipeline:
// the ingested post, the analysis produced by the inference stage, and the
// report projection the stores keep.
//
// PostRecord is owned by the source system and read-only to the pipeline.
// AnalysisResult lives only for the duration of one item's processing.
// StoredReport is owned by the stores after a successful write.
package records

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxTextBytes caps any single free-text field accepted at the service
	// boundary. Checks byte length, not rune count.
	MaxTextBytes = 32 * 1024
)

// recordValidate is the shared validator instance for boundary checks.
var recordValidate *validator.Validate

func init() {
	recordValidate = validator.New()
	_ = recordValidate.RegisterValidation("maxbytes", validateMaxBytes)
}

func validateMaxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxTextBytes
}

// PostRecord is one ingested social-media item. The id is caller-assigned
// and is the sole identity key across both stores.
type PostRecord struct {
	ID          string `json:"id" validate:"required,maxbytes"`
	Platform    string `json:"platform,omitempty" validate:"maxbytes"`
	Author      string `json:"author,omitempty" validate:"maxbytes"`
	Text        string `json:"text,omitempty" validate:"maxbytes"`
	Title       string `json:"title,omitempty" validate:"maxbytes"`
	Description string `json:"description,omitempty" validate:"maxbytes"`
	MediaURL    string `json:"media_url,omitempty" validate:"omitempty,url"`
	SourceURL   string `json:"source_url,omitempty" validate:"maxbytes"`
}

// Validate rejects malformed input with a typed error instead of silently
// defaulting. A record needs an id and at least one usable text field.
func (p *PostRecord) Validate() error {
	if err := recordValidate.Struct(p); err != nil {
		return fmt.Errorf("invalid post record: %w", err)
	}
	if p.ContentText() == "" {
		return fmt.Errorf("invalid post record: no text, title, or description")
	}
	return nil
}

// ContentText returns the text to analyze: the post body when present,
// otherwise a title/description fallback.
func (p *PostRecord) ContentText() string {
	if p.Text != "" {
		return p.Text
	}
	if p.Title != "" && p.Description != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Description)
	}
	if p.Title != "" {
		return p.Title
	}
	return strings.TrimSpace(p.Description)
}

// AnalysisResult is produced by the inference stage from one PostRecord and
// consumed exactly once by the decision stage. Never persisted standalone.
type AnalysisResult struct {
	IsPotentialClaim           bool    `json:"is_potential_claim"`
	MultimodalConsistencyScore float64 `json:"multimodal_consistency_score" validate:"gte=0,lte=1"`
	ScoreDegraded              bool    `json:"score_degraded,omitempty"`
	ScoreDegradedReason        string  `json:"score_degraded_reason,omitempty"`
}

// EnrichedPayload is the /analyze response body and the /reason request
// body: the original record wrapped under source_data plus the analysis.
type EnrichedPayload struct {
	SourceData      PostRecord     `json:"source_data"`
	AnalysisResults AnalysisResult `json:"analysis_results"`
}

// Validate checks an enriched payload at the decision-stage boundary.
func (e *EnrichedPayload) Validate() error {
	if err := e.SourceData.Validate(); err != nil {
		return err
	}
	if err := recordValidate.Struct(&e.AnalysisResults); err != nil {
		return fmt.Errorf("invalid analysis results: %w", err)
	}
	return nil
}

// ReasonResponse is the /reason reply.
type ReasonResponse struct {
	Status  string  `json:"status"`
	ID      string  `json:"id"`
	Verdict Verdict `json:"verdict"`
}

// StoredReport is the persisted projection of one verdict, keyed by ID.
// A second write with the same ID overwrites, never duplicates. The
// timestamp is server-assigned at write time.
type StoredReport struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Verdict   Verdict   `json:"verdict"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Platform  string    `json:"platform"`
	Timestamp time.Time `json:"timestamp"`
}
