package models

// Signal identifies which retrieval signal produced a Candidate.
type Signal string

const (
	// SignalLexical is keyword/full-text matching.
	SignalLexical Signal = "lexical"
	// SignalDense is nearest-neighbor search over embeddings.
	SignalDense Signal = "dense"
)

// Candidate pairs a Document with a raw relevance score from one signal.
// Candidates live for a single retrieval call.
type Candidate struct {
	Document *Document
	Score    float64
	Signal   Signal
}
