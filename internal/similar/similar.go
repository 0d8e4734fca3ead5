// Package similar finds notes related to the active note and adapts retrieval results
// for display.
package similar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/ruiji/internal/models"
	"github.com/hyperjump/ruiji/internal/notes"
	"github.com/hyperjump/ruiji/internal/retrieval"
	"github.com/hyperjump/ruiji/pkg/utils"
)

// CodeNoActiveFile is the error code when no active note could be resolved.
const CodeNoActiveFile = "NO_ACTIVE_FILE"

const (
	// RunName tags retrieval log lines for similar-note lookups (no query rewriting).
	RunName = "no_hyde"
	// DefaultSnippetLength is the snippet length in runes when none is configured.
	DefaultSnippetLength = 200
)

// Retriever is the retrieval operation the Finder depends on.
type Retriever interface {
	GetRelevantDocuments(ctx context.Context, queryText string, opts retrieval.Options) ([]models.RankedResult, error)
}

// Finder runs similar-note lookups for an active note.
type Finder struct {
	retriever     Retriever
	snippetLength int
	logger        *zap.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithLogger sets a logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Finder) { f.logger = l }
}

// WithSnippetLength sets the snippet length in runes. Zero or negative keeps full chunk text.
func WithSnippetLength(n int) Option {
	return func(f *Finder) { f.snippetLength = n }
}

// NewFinder creates a Finder over r.
func NewFinder(r Retriever, opts ...Option) *Finder {
	f := &Finder{
		retriever:     r,
		snippetLength: DefaultSnippetLength,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Request tunes a lookup. A nil MinSimilarityScore and a zero MaxK use the Retriever's
// configuration (0.3 and 20 unless configured otherwise). An explicit 0 threshold is kept.
type Request struct {
	MinSimilarityScore *float64
	MaxK               int
	CollapsePaths      bool
}

// Find resolves the active note from provider and returns the notes related to it,
// best first. The Retriever excludes the active note by its path. Errors are classified by Code.
func (f *Finder) Find(ctx context.Context, provider notes.ActiveNoteProvider, req Request) (*models.SimilarResponse, error) {
	start := time.Now()
	active, err := provider.ActiveNote(ctx)
	if err != nil {
		return nil, err
	}

	results, err := f.retriever.GetRelevantDocuments(ctx, active.Content, retrieval.Options{
		MinSimilarityScore: req.MinSimilarityScore,
		MaxK:               req.MaxK,
		SourcePath:         active.Path,
		RunName:            RunName,
		CollapsePaths:      req.CollapsePaths,
	})
	if err != nil {
		f.logger.Debug("similar lookup failed", zap.String("path", active.Path), zap.Error(err))
		return nil, fmt.Errorf("similar notes for %q: %w", active.Path, err)
	}

	resp := &models.SimilarResponse{
		Notes:     ToSimilarNotes(results, f.snippetLength),
		Source:    active.Path,
		QueryTime: time.Since(start).Milliseconds(),
	}
	f.logger.Debug("similar lookup",
		zap.String("path", active.Path),
		zap.Int("notes", len(resp.Notes)),
		zap.Int64("query_time_ms", resp.QueryTime),
	)
	return resp, nil
}

// ToSimilarNotes converts ranked results to caller-facing notes sorted by score descending.
// A missing title falls back to the file name; content is cut to snippetLen runes.
func ToSimilarNotes(results []models.RankedResult, snippetLen int) []models.SimilarNote {
	out := make([]models.SimilarNote, 0, len(results))
	for _, r := range results {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = notes.TitleFromPath(r.Path)
		}
		out = append(out, models.SimilarNote{
			Title:   title,
			Content: utils.Truncate(r.Content, snippetLen),
			Path:    r.Path,
			Score:   r.Score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Code returns the stable error code for err: NO_ACTIVE_FILE, INDEX_EMPTY, NO_QUERY_SOURCE,
// or "" for unclassified failures.
func Code(err error) string {
	if errors.Is(err, notes.ErrNoActiveNote) {
		return CodeNoActiveFile
	}
	return retrieval.Code(err)
}
