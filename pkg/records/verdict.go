// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package records

// Verdict is the final categorical outcome of the reasoning stage.
type Verdict string

const (
	// VerdictNotAClaim means the detector saw nothing worth checking.
	VerdictNotAClaim Verdict = "NOT_A_CLAIM"
	// VerdictVerifiedConsistent means the media strongly agrees with the text.
	VerdictVerifiedConsistent Verdict = "VERIFIED_CONSISTENT_CLAIM"
	// VerdictMisleadingMedia means the media contradicts the text, or no
	// usable media evidence existed. The scorer collapses both into a low
	// score; see ScoreOutcome for the distinction.
	VerdictMisleadingMedia Verdict = "MISLEADING_MEDIA_CLAIM"
	// VerdictUnverified means the evidence was inconclusive either way.
	VerdictUnverified Verdict = "UNVERIFIED_CLAIM"
)

// IsClaimLike reports whether a verdict should surface on the live view.
// Matches any verdict carrying the CLAIM marker except the explicit
// not-a-claim outcome.
func (v Verdict) IsClaimLike() bool {
	return v != VerdictNotAClaim && v != ""
}

const (
	// VerifiedThreshold is the exclusive lower bound for a consistent claim.
	VerifiedThreshold = 0.6
	// MisleadingThreshold is the exclusive upper bound for a misleading claim.
	MisleadingThreshold = 0.1
)

// Reason maps an analysis to a verdict. Pure and total over
// isClaim x score in [0,1]: same input always yields the same output.
// Both thresholds are strict, so score == 0.6 and score == 0.1 fall
// to UNVERIFIED_CLAIM.
func Reason(isClaim bool, score float64) Verdict {
	if !isClaim {
		return VerdictNotAClaim
	}
	switch {
	case score > VerifiedThreshold:
		return VerdictVerifiedConsistent
	case score < MisleadingThreshold:
		return VerdictMisleadingMedia
	default:
		return VerdictUnverified
	}
}
