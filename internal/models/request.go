package models

import (
	"errors"
	"math"
)

// ErrEmptyRequest is returned when a similar-notes request names neither a path nor text.
var ErrEmptyRequest = errors.New("either path or text is required")

const (
	// DefaultMinSimilarityScore is the default fused-score threshold.
	DefaultMinSimilarityScore = 0.3
	// DefaultMaxK is the default number of similar notes returned.
	DefaultMaxK = 20
	// MaxMaxK caps MaxK.
	MaxMaxK = 100
)

// SimilarRequest asks for notes related to the note at Path, or to raw Text.
// When both are set, Text is used as the query and Path is still excluded from results.
type SimilarRequest struct {
	Path               string   `json:"path,omitempty"`
	Text               string   `json:"text,omitempty"`
	MinSimilarityScore *float64 `json:"min_similarity_score,omitempty"`
	MaxK               int      `json:"max_k,omitempty"`
	CollapsePaths      bool     `json:"collapse_paths,omitempty"`
}

// Threshold returns a pointer to v, for the optional MinSimilarityScore fields.
func Threshold(v float64) *float64 {
	return &v
}

// Validate checks the request and fills defaults. An absent MinSimilarityScore gets the
// default; a present one, including 0, is clamped to [0,1]. MaxK is clamped to [1, MaxMaxK].
func (r *SimilarRequest) Validate() error {
	if r.Path == "" && r.Text == "" {
		return ErrEmptyRequest
	}
	minScore := DefaultMinSimilarityScore
	if r.MinSimilarityScore != nil {
		minScore = math.Max(0, math.Min(1, *r.MinSimilarityScore))
	}
	r.MinSimilarityScore = Threshold(minScore)
	if r.MaxK <= 0 {
		r.MaxK = DefaultMaxK
	}
	if r.MaxK > MaxMaxK {
		r.MaxK = MaxMaxK
	}
	return nil
}
