// Package retrieval provides hybrid (lexical + dense) retrieval of related notes with score fusion.
package retrieval

import (
	"context"

	"github.com/hyperjump/ruiji/internal/models"
)

// Index is the read-only view of a populated note index consumed by the Retriever.
// Implementations must be safe for concurrent use; LexicalSearch and DenseSearch have
// no ordering dependency on each other.
type Index interface {
	// IsEmpty reports whether the index has no entries.
	IsEmpty(ctx context.Context) (bool, error)
	// LexicalSearch runs a full-text search. Fewer than limit results is not an error.
	LexicalSearch(ctx context.Context, text string, limit int) ([]models.Candidate, error)
	// DenseSearch runs a nearest-neighbor search over the embedding of text.
	DenseSearch(ctx context.Context, text string, limit int) ([]models.Candidate, error)
}

// Rewriter transforms the dense query text before it is embedded, e.g. to a
// hypothetical answer document. The lexical query always uses the original text.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

// RewriterFunc adapts a function to Rewriter.
type RewriterFunc func(ctx context.Context, text string) (string, error)

// Rewrite calls f.
func (f RewriterFunc) Rewrite(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}
