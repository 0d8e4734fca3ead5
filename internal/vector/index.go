// Package vector provides the dense vector index used for nearest-neighbor chunk search.
package vector

import (
	"context"
	"fmt"
)

// VectorIndex stores chunk embeddings and answers nearest-neighbor queries.
// Implementations are safe for concurrent use.
type VectorIndex interface {
	// Add inserts vectors; an ID already present is replaced.
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	// Search returns up to k hits, best first.
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)
	Remove(ctx context.Context, ids []string) error
	Save(path string) error
	Load(path string) error
	Size() int
	Type() string
	Close() error
}

// VectorResult is a single vector search hit. ID is a chunk (Document) ID.
type VectorResult struct {
	ID    string
	Score float64 // inner product; cosine similarity for normalized vectors
}

// IndexType names a VectorIndex implementation in config (storage.vector_index_type).
type IndexType string

// IndexTypeMemory is brute-force search over vectors held in memory; fine for personal
// vaults (tens of thousands of chunks).
const IndexTypeMemory IndexType = "memory"

// NewVectorIndex creates a vector index of the given type. "" means memory.
func NewVectorIndex(indexType string, dimensions int) (VectorIndex, error) {
	switch IndexType(indexType) {
	case IndexTypeMemory, "":
		return NewMemoryIndex(dimensions)
	default:
		return nil, fmt.Errorf("unknown index type: %s (supported: memory)", indexType)
	}
}
