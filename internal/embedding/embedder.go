// Package embedding provides text embedders (feature hashing, ONNX) and an LRU cache decorator.
package embedding

import (
	"context"
	"fmt"
	"math"

	"github.com/hyperjump/ruiji/internal/config"
)

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

const (
	// ProviderHashing selects HashingEmbedder.
	ProviderHashing = "hashing"
	// ProviderONNX selects ONNXEmbedder.
	ProviderONNX = "onnx"
)

// NewEmbedder creates the embedder named by cfg.Provider, wrapped in a CachedEmbedder
// when cfg.CacheSize > 0.
func NewEmbedder(cfg *config.EmbeddingConfig) (Embedder, error) {
	var (
		base Embedder
		err  error
	)
	switch cfg.Provider {
	case ProviderHashing, "":
		base = NewHashingEmbedder(cfg.Dimensions)
	case ProviderONNX:
		base, err = NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: hashing, onnx)", cfg.Provider)
	}
	if cfg.CacheSize <= 0 {
		return base, nil
	}
	cached, err := NewCachedEmbedder(base, cfg.CacheSize)
	if err != nil {
		_ = base.Close()
		return nil, err
	}
	return cached, nil
}

func embedEach(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// normalizeL2 scales x in place to unit L2 norm. A zero vector is left unchanged.
func normalizeL2(x []float32) {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range x {
		x[i] *= inv
	}
}
