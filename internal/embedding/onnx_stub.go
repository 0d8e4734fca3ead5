//go:build !cgo
// +build !cgo

package embedding

import (
	"context"
	"errors"
)

// ErrONNXUnavailable is returned by every ONNXEmbedder method in builds without CGO.
// NewEmbedder callers fall back to the hashing provider on it.
var ErrONNXUnavailable = errors.New("onnx embedder: built without cgo; rebuild with CGO_ENABLED=1 and the onnxruntime library")

// ONNXEmbedder is a placeholder so non-cgo builds keep the same API.
type ONNXEmbedder struct{}

func NewONNXEmbedder(string, int, int) (*ONNXEmbedder, error) {
	return nil, ErrONNXUnavailable
}

func (*ONNXEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, ErrONNXUnavailable
}

func (*ONNXEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, ErrONNXUnavailable
}

func (*ONNXEmbedder) Dimensions() int { return 0 }

func (*ONNXEmbedder) Close() error { return nil }
