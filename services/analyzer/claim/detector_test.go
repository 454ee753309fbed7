// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordDetector_MatchesCaseInsensitively(t *testing.T) {
	d := NewKeywordDetector()

	assert.True(t, d.IsClaim("BREAKING: dam collapse"))
	assert.True(t, d.IsClaim("this is breaking news"))
	assert.True(t, d.IsClaim("Breaking update on the flood"))
	assert.False(t, d.IsClaim("sunny day"))
	assert.False(t, d.IsClaim(""))
}

func TestKeywordDetector_CustomMarkers(t *testing.T) {
	d := NewKeywordDetector("exclusive", "URGENT")

	assert.True(t, d.IsClaim("urgent recall notice"))
	assert.True(t, d.IsClaim("An EXCLUSIVE report"))
	assert.False(t, d.IsClaim("breaking news")) // default marker not active
}

func TestKeywordDetector_IgnoresBlankMarkers(t *testing.T) {
	d := NewKeywordDetector("  ", "flood")

	assert.True(t, d.IsClaim("flood warning"))
	assert.False(t, d.IsClaim("anything else"))
}
