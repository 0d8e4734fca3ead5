// Package store adapts the persisted note indices (SQLite, Bleve, vectors) to retrieval.Index.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/hyperjump/ruiji/internal/config"
	"github.com/hyperjump/ruiji/internal/embedding"
	"github.com/hyperjump/ruiji/internal/keyword"
	"github.com/hyperjump/ruiji/internal/models"
	"github.com/hyperjump/ruiji/internal/storage"
	"github.com/hyperjump/ruiji/internal/vector"
)

// Store is a read view over the indices written by the indexer. Lexical scores are
// saturated with score/(score+half) and dense scores are clamped, so both lie in [0,1].
// Neither depends on the other hits of the query.
type Store struct {
	storage          storage.Storage
	keywordIndex     keyword.KeywordIndex
	vectorIndex      vector.VectorIndex
	embedder         embedding.Embedder
	searchOptions    *keyword.SearchOptions
	lexicalHalfScore float64
	logger           *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithKeywordOptions sets the options passed to every keyword search.
func WithKeywordOptions(opts *keyword.SearchOptions) Option {
	return func(s *Store) { s.searchOptions = opts }
}

// WithLexicalHalfScore sets the raw keyword score that maps to 0.5. Values <= 0 keep the default.
func WithLexicalHalfScore(half float64) Option {
	return func(s *Store) {
		if half > 0 {
			s.lexicalHalfScore = half
		}
	}
}

// New creates a Store.
func New(st storage.Storage, kw keyword.KeywordIndex, vec vector.VectorIndex, emb embedding.Embedder, opts ...Option) *Store {
	s := &Store{
		storage:      st,
		keywordIndex: kw,
		vectorIndex:  vec,
		embedder:     emb,
		logger:       zap.NewNop(),

		lexicalHalfScore: config.DefaultLexicalHalfScore,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsEmpty reports whether no chunks are stored.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	n, err := s.storage.CountChunks(ctx)
	if err != nil {
		return false, fmt.Errorf("count chunks: %w", err)
	}
	return n == 0, nil
}

// LexicalSearch runs a keyword search and maps each raw score through SaturateScore.
func (s *Store) LexicalSearch(ctx context.Context, text string, limit int) ([]models.Candidate, error) {
	hits, err := s.keywordIndex.Search(ctx, text, limit, s.searchOptions)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	out := make([]models.Candidate, 0, len(hits))
	for _, h := range hits {
		doc, err := s.hydrate(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		score := SaturateScore(h.Score, s.lexicalHalfScore)
		out = append(out, models.Candidate{Document: doc, Score: score, Signal: models.SignalLexical})
	}
	return out, nil
}

// SaturateScore maps an unbounded non-negative score into [0,1) as raw/(raw+half).
// It is increasing in raw and equals 0.5 at raw == half.
func SaturateScore(raw, half float64) float64 {
	if raw <= 0 || math.IsNaN(raw) {
		return 0
	}
	if math.IsInf(raw, 1) {
		return 1
	}
	return raw / (raw + half)
}

// DenseSearch embeds text and returns the nearest chunks with cosine similarity clamped to [0,1].
func (s *Store) DenseSearch(ctx context.Context, text string, limit int) ([]models.Candidate, error) {
	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := s.vectorIndex.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	out := make([]models.Candidate, 0, len(hits))
	for _, h := range hits {
		doc, err := s.hydrate(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		score := math.Max(0, math.Min(1, h.Score))
		out = append(out, models.Candidate{Document: doc, Score: score, Signal: models.SignalDense})
	}
	return out, nil
}

// hydrate loads a chunk. A chunk missing from storage (stale index entry) yields nil.
func (s *Store) hydrate(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.storage.GetChunk(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("store skipping stale index entry", zap.String("chunk_id", id))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load chunk %s: %w", id, err)
	}
	return doc, nil
}

// Stats summarizes index sizes.
type Stats struct {
	Notes        int64  `json:"notes"`
	Chunks       int64  `json:"chunks"`
	KeywordDocs  uint64 `json:"keyword_docs"`
	Vectors      int    `json:"vectors"`
	VectorIndex  string `json:"vector_index"`
	EmbeddingDim int    `json:"embedding_dimensions"`
}

// Stats returns current index sizes.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	notes, err := s.storage.CountNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}
	chunks, err := s.storage.CountChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	kwDocs, err := s.keywordIndex.DocCount()
	if err != nil {
		return nil, fmt.Errorf("keyword doc count: %w", err)
	}
	return &Stats{
		Notes:        notes,
		Chunks:       chunks,
		KeywordDocs:  kwDocs,
		Vectors:      s.vectorIndex.Size(),
		VectorIndex:  s.vectorIndex.Type(),
		EmbeddingDim: s.embedder.Dimensions(),
	}, nil
}
