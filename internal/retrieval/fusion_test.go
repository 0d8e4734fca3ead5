package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/ruiji/internal/models"
)

func doc(id, path string) *models.Document {
	return &models.Document{ID: id, Path: path, Title: id, Content: "content of " + id}
}

func cand(d *models.Document, score float64, signal models.Signal) models.Candidate {
	return models.Candidate{Document: d, Score: score, Signal: signal}
}

func TestWeights_Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   Weights
		want Weights
	}{
		{"equal", Weights{1, 1}, Weights{0.5, 0.5}},
		{"already normalized", Weights{0.3, 0.7}, Weights{0.3, 0.7}},
		{"zero falls back to equal", Weights{0, 0}, Weights{0.5, 0.5}},
		{"negative counts as zero", Weights{-1, 2}, Weights{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalized()
			assert.InDelta(t, tt.want.Lexical, got.Lexical, 1e-9)
			assert.InDelta(t, tt.want.Dense, got.Dense, 1e-9)
		})
	}
}

func TestFuse_Example(t *testing.T) {
	a := doc("A", "notes/a.md")
	b := doc("B", "notes/b.md")
	lexical := []models.Candidate{cand(b, 0.8, models.SignalLexical), cand(a, 0.2, models.SignalLexical)}
	dense := []models.Candidate{cand(a, 0.9, models.SignalDense)}

	results := Rank(Fuse(lexical, dense, Weights{Lexical: 0.5, Dense: 0.5}), 0)
	require.Len(t, results, 2)

	// A is found by both signals: 1-(1-0.2)(1-0.9) = 0.92. B keeps its single lexical score.
	assert.Equal(t, "A", results[0].DocumentID)
	assert.InDelta(t, 0.92, results[0].Score, 1e-9)
	assert.InDelta(t, 0.2, results[0].LexicalScore, 1e-9)
	assert.InDelta(t, 0.9, results[0].DenseScore, 1e-9)
	assert.Equal(t, "B", results[1].DocumentID)
	assert.InDelta(t, 0.8, results[1].Score, 1e-9)
}

func TestFuse_SingleSignalKeepsRawScore(t *testing.T) {
	d := doc("d", "d.md")
	results := Fuse(nil, []models.Candidate{cand(d, 0.42, models.SignalDense)}, Weights{1, 1})
	require.Len(t, results, 1)
	assert.InDelta(t, 0.42, results[0].Score, 1e-9)
	assert.Zero(t, results[0].LexicalScore)
}

func TestFuse_DeduplicatesWithinSignal(t *testing.T) {
	d := doc("d", "d.md")
	lexical := []models.Candidate{cand(d, 0.3, models.SignalLexical), cand(d, 0.6, models.SignalLexical)}
	results := Fuse(lexical, nil, Weights{1, 1})
	require.Len(t, results, 1)
	assert.InDelta(t, 0.6, results[0].Score, 1e-9)
}

func TestFuse_ClampsScores(t *testing.T) {
	hi := doc("hi", "hi.md")
	lo := doc("lo", "lo.md")
	results := Fuse([]models.Candidate{cand(hi, 7.5, models.SignalLexical)}, []models.Candidate{cand(lo, -0.3, models.SignalDense)}, Weights{1, 1})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestFuse_SkipsNilDocuments(t *testing.T) {
	results := Fuse([]models.Candidate{{Score: 1}}, nil, Weights{1, 1})
	assert.Empty(t, results)
}

func TestFuse_DenseOrderFirstOnTies(t *testing.T) {
	lexOnly := doc("lex", "lex.md")
	denseOnly := doc("dense", "dense.md")
	lexical := []models.Candidate{cand(lexOnly, 0.5, models.SignalLexical)}
	dense := []models.Candidate{cand(denseOnly, 0.5, models.SignalDense)}

	results := Rank(Fuse(lexical, dense, Weights{1, 1}), 0)
	require.Len(t, results, 2)
	assert.Equal(t, "dense", results[0].DocumentID)
	assert.Equal(t, "lex", results[1].DocumentID)
}

func TestCombine_Monotonic(t *testing.T) {
	w := Weights{Lexical: 0.3, Dense: 0.7}
	steps := []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1}
	for _, l1 := range steps {
		for _, d1 := range steps {
			base := w.Combine(l1, d1, true, true)
			for _, l2 := range steps {
				for _, d2 := range steps {
					if l2 < l1 || d2 < d1 {
						continue
					}
					if got := w.Combine(l2, d2, true, true); got < base {
						t.Fatalf("Combine(%v,%v)=%v < Combine(%v,%v)=%v", l2, d2, got, l1, d1, base)
					}
				}
			}
		}
	}
}

func TestCombine_SecondSignalNeverLowersScore(t *testing.T) {
	weights := []Weights{{0.5, 0.5}, {0.3, 0.7}, {0.9, 0.1}, {1, 0}, {0, 1}}
	steps := []float64{0.01, 0.1, 0.25, 0.5, 0.75, 0.99, 1}
	for _, w := range weights {
		for _, l := range steps {
			for _, d := range steps {
				both := w.Combine(l, d, true, true)
				if denseOnly := w.Combine(0, d, false, true); both < denseOnly {
					t.Fatalf("weights %+v: Combine(%v,%v) both=%v < dense only=%v", w, l, d, both, denseOnly)
				}
				if lexicalOnly := w.Combine(l, 0, true, false); both < lexicalOnly {
					t.Fatalf("weights %+v: Combine(%v,%v) both=%v < lexical only=%v", w, l, d, both, lexicalOnly)
				}
				if both > 1 {
					t.Fatalf("weights %+v: Combine(%v,%v)=%v > 1", w, l, d, both)
				}
			}
		}
	}
}

func TestCombine_WeightsFavorHeavierSignal(t *testing.T) {
	denseHeavy := Weights{Lexical: 0.2, Dense: 0.8}
	// a = 0.25, b = 1: 1-(1-0.25*0.4)(1-0.4) = 0.46
	assert.InDelta(t, 0.46, denseHeavy.Combine(0.4, 0.4, true, true), 1e-9)
	// lexical weight 0 leaves the stronger raw score
	assert.InDelta(t, 0.7, Weights{Lexical: 0, Dense: 1}.Combine(0.7, 0.3, true, true), 1e-9)
}
