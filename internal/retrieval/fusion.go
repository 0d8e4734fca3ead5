package retrieval

import (
	"math"

	"github.com/hyperjump/ruiji/internal/models"
)

// Weights are the per-signal fusion weights.
type Weights struct {
	Lexical float64
	Dense   float64
}

// Normalized returns the weights scaled to sum to 1. Negative weights count as 0;
// if both are 0 the signals are weighted equally.
func (w Weights) Normalized() Weights {
	l := math.Max(0, w.Lexical)
	d := math.Max(0, w.Dense)
	sum := l + d
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return Weights{Lexical: 0.5, Dense: 0.5}
	}
	return Weights{Lexical: l / sum, Dense: d / sum}
}

// Combine returns the fused score of a Document with the given raw scores.
// A Document matched by one signal keeps that signal's score. A Document matched by both
// gets the weighted probabilistic OR of the two, 1-(1-a*l)(1-b*d), where a and b are the
// weights scaled so the larger one is 1. The fused score is never below either raw score,
// so a second signal can only raise a Document. The result is non-decreasing in both scores.
func (w Weights) Combine(lexical, dense float64, hasLexical, hasDense bool) float64 {
	l, d := clamp01(lexical), clamp01(dense)
	switch {
	case hasLexical && hasDense:
		n := w.Normalized()
		top := math.Max(n.Lexical, n.Dense)
		either := 1 - (1-l*n.Lexical/top)*(1-d*n.Dense/top)
		return math.Max(either, math.Max(l, d))
	case hasDense:
		return d
	case hasLexical:
		return l
	default:
		return 0
	}
}

type fusedEntry struct {
	result     models.RankedResult
	hasLexical bool
	hasDense   bool
}

// Fuse unions lexical and dense candidates by Document ID and computes fused scores.
// Raw scores are clamped to [0,1]; a Document listed twice by one signal keeps its best score.
// Output order is dense-list order followed by lexical-only Documents in lexical order, so a
// later stable sort breaks score ties in favor of the dense signal.
func Fuse(lexical, dense []models.Candidate, weights Weights) []models.RankedResult {
	byID := make(map[string]*fusedEntry, len(lexical)+len(dense))
	order := make([]string, 0, len(lexical)+len(dense))

	add := func(c models.Candidate, isDense bool) {
		if c.Document == nil {
			return
		}
		id := c.Document.ID
		entry, ok := byID[id]
		if !ok {
			entry = &fusedEntry{result: models.RankedResult{
				DocumentID: id,
				Title:      c.Document.Title,
				Content:    c.Document.Content,
				Path:       c.Document.Path,
			}}
			byID[id] = entry
			order = append(order, id)
		}
		score := clamp01(c.Score)
		if isDense {
			if !entry.hasDense || score > entry.result.DenseScore {
				entry.result.DenseScore = score
			}
			entry.hasDense = true
			return
		}
		if !entry.hasLexical || score > entry.result.LexicalScore {
			entry.result.LexicalScore = score
		}
		entry.hasLexical = true
	}

	for _, c := range dense {
		add(c, true)
	}
	for _, c := range lexical {
		add(c, false)
	}

	results := make([]models.RankedResult, 0, len(order))
	for _, id := range order {
		entry := byID[id]
		entry.result.Score = weights.Combine(entry.result.LexicalScore, entry.result.DenseScore, entry.hasLexical, entry.hasDense)
		results = append(results, entry.result)
	}
	return results
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
