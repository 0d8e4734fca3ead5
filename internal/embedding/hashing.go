package embedding

import (
	"context"
	"math"
)

// HashingEmbedder maps text to a bag-of-words vector by feature hashing: each lowercased term
// adds 1+log(tf) to bucket hash(term) mod dimensions, and the vector is L2-normalized.
// All components are non-negative, so cosine similarity is in [0,1]. Texts sharing terms are
// similar; no model file is needed.
type HashingEmbedder struct {
	dimensions int
}

// NewHashingEmbedder returns a hashing embedder with the given dimensions (default 384).
func NewHashingEmbedder(dimensions int) *HashingEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &HashingEmbedder{dimensions: dimensions}
}

// Embed returns the hashed term vector for text. Text without terms yields a zero vector.
func (e *HashingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tf := make(map[string]int)
	for _, term := range Terms(text) {
		tf[term]++
	}
	emb := make([]float32, e.dimensions)
	for term, n := range tf {
		emb[HashString(term)%e.dimensions] += float32(1 + math.Log(float64(n)))
	}
	normalizeL2(emb)
	return emb, nil
}

// EmbedBatch calls Embed for each text.
func (e *HashingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedEach(ctx, e, texts)
}

// Dimensions returns the embedding dimension.
func (e *HashingEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for HashingEmbedder.
func (e *HashingEmbedder) Close() error {
	return nil
}
