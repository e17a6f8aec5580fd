package services

import "math"

// DefaultMatchThreshold is the maximum cosine distance at which a probe is
// accepted as a match. The boundary is inclusive: a probe at exactly the
// threshold matches.
const DefaultMatchThreshold = 0.6

// TemplateCandidate is one roster entry offered to the matcher
type TemplateCandidate struct {
	IdentityID uint
	Vector     []float64
}

// MatchResult is the outcome of identifying a probe against a roster
type MatchResult struct {
	Matched    bool    `json:"matched"`
	IdentityID uint    `json:"identity_id,omitempty"`
	Distance   float64 `json:"distance,omitempty"`
}

// Matcher identifies a probe embedding against a roster of enrolled
// templates by linear scan. Rosters are class-sized, so no index is kept.
type Matcher struct {
	Threshold float64
}

// NewMatcher creates a matcher with the given cosine distance threshold;
// non-positive values fall back to the default
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return &Matcher{Threshold: threshold}
}

// Match returns the roster entry nearest to the probe by cosine distance,
// accepted iff its distance is at or below the threshold. Candidates with a
// mismatched dimension or a zero-length vector are skipped. Ties on the
// exact minimum distance go to the lowest identity ID so the result is
// deterministic regardless of roster order. No side effects.
func (m *Matcher) Match(probe []float64, roster []TemplateCandidate) MatchResult {
	var (
		found        bool
		bestID       uint
		bestDistance float64
	)

	for _, candidate := range roster {
		distance, ok := cosineDistance(probe, candidate.Vector)
		if !ok {
			continue
		}
		if !found || distance < bestDistance ||
			(distance == bestDistance && candidate.IdentityID < bestID) {
			found = true
			bestID = candidate.IdentityID
			bestDistance = distance
		}
	}

	if !found || bestDistance > m.Threshold {
		return MatchResult{Matched: false}
	}
	return MatchResult{Matched: true, IdentityID: bestID, Distance: bestDistance}
}

// cosineDistance computes 1 - cosine similarity between two vectors.
// Reports false for mismatched or empty dimensions and for zero-norm inputs,
// which carry no direction to compare.
func cosineDistance(a, b []float64) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, normA, normB float64
	for i := 0; i < len(a); i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), true
}
