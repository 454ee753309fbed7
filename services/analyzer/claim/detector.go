// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package claim decides whether a piece of text carries a checkable factual
// assertion. The detector is pluggable: anything implementing Detector can
// replace the keyword baseline without touching downstream contracts.
package claim

import "strings"

// Detector flags text that looks like a factual claim worth checking.
type Detector interface {
	IsClaim(text string) bool
}

// KeywordDetector is the baseline strategy: a case-insensitive marker
// match. Crude, but cheap enough to run on every item; swap in a trained
// classifier behind the same interface when one is available.
type KeywordDetector struct {
	markers []string
}

// DefaultMarkers are the phrases the baseline treats as claim signals.
var DefaultMarkers = []string{"breaking"}

// NewKeywordDetector builds a detector for the given markers. Empty markers
// fall back to DefaultMarkers.
func NewKeywordDetector(markers ...string) *KeywordDetector {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	lowered := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			lowered = append(lowered, m)
		}
	}
	return &KeywordDetector{markers: lowered}
}

// IsClaim reports whether any marker occurs in the text, case-insensitively.
func (d *KeywordDetector) IsClaim(text string) bool {
	lowered := strings.ToLower(text)
	for _, m := range d.markers {
		if strings.Contains(lowered, m) {
			return true
		}
	}
	return false
}
