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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportUUID_DeterministicPerID(t *testing.T) {
	a := reportUUID("p1")
	b := reportUUID("p1")
	c := reportUUID("p2")

	assert.Equal(t, a, b, "same id must map to the same object")
	assert.NotEqual(t, a, c, "different ids must map to different objects")
	assert.Len(t, string(a), 36)
}

func TestGetReportSchema_Shape(t *testing.T) {
	class := GetReportSchema()

	require.Equal(t, ReportClassName, class.Class)
	assert.Equal(t, "none", class.Vectorizer, "vectors come from the embedding backend")

	names := make(map[string]bool, len(class.Properties))
	for _, p := range class.Properties {
		names[p.Name] = true
	}
	for _, want := range []string{"content", "report_id", "verdict", "source", "author"} {
		assert.True(t, names[want], "missing property %s", want)
	}
}
