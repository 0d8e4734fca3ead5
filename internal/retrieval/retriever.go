package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/ruiji/internal/config"
	"github.com/hyperjump/ruiji/internal/models"
)

// Options tune a single GetRelevantDocuments call. A nil MinSimilarityScore and a zero
// MaxK fall back to the Retriever's configuration; a MinSimilarityScore of 0 keeps every
// fused candidate.
type Options struct {
	MinSimilarityScore *float64
	MaxK               int
	// SourcePath is the note the query text came from; its chunks are never returned.
	SourcePath string
	// RunName tags log lines for tracing. It has no effect on results.
	RunName       string
	CollapsePaths bool
}

// Retriever finds Documents related to a query text by fusing lexical and dense search.
// It holds no per-call state and is safe for concurrent use.
type Retriever struct {
	index    Index
	config   config.RetrievalConfig
	rewriter Rewriter
	logger   *zap.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithLogger sets a logger for per-stage debug output.
func WithLogger(l *zap.Logger) Option {
	return func(r *Retriever) { r.logger = l }
}

// WithRewriter sets a Rewriter applied to the dense query text.
func WithRewriter(rw Rewriter) Option {
	return func(r *Retriever) { r.rewriter = rw }
}

// New creates a Retriever over index. cfg may be nil; zero fields get defaults.
func New(index Index, cfg *config.RetrievalConfig, opts ...Option) *Retriever {
	var c config.RetrievalConfig
	if cfg != nil {
		c = *cfg
	}
	config.ApplyRetrievalDefaults(&c)
	if c.FetchMultiplier < 1 {
		c.FetchMultiplier = 1
	}
	r := &Retriever{
		index:  index,
		config: c,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the effective retrieval configuration.
func (r *Retriever) Config() config.RetrievalConfig {
	return r.config
}

// GetRelevantDocuments returns up to MaxK Documents related to queryText, ordered by fused
// score descending. It fails with ErrNoQuerySource for blank text and with ErrIndexEmpty when
// the index has no entries, in which case no search is issued. Backend failures are returned
// wrapped; nothing is retried. An empty result is not an error.
func (r *Retriever) GetRelevantDocuments(ctx context.Context, queryText string, opts Options) ([]models.RankedResult, error) {
	start := time.Now()
	if strings.TrimSpace(queryText) == "" {
		return nil, ErrNoQuerySource
	}
	empty, err := r.index.IsEmpty(ctx)
	if err != nil {
		return nil, fmt.Errorf("check index: %w", err)
	}
	if empty {
		return nil, ErrIndexEmpty
	}

	opts = r.resolve(opts)
	query := Truncate(queryText, r.config.MaxQueryChars)
	limit := opts.MaxK * r.config.FetchMultiplier

	lexical, dense, err := r.fetch(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	weights := Weights{Lexical: r.config.LexicalWeight, Dense: r.config.DenseWeight}
	results := Fuse(lexical, dense, weights)
	fused := len(results)
	results = ExcludePath(results, opts.SourcePath)
	results = FilterByScore(results, *opts.MinSimilarityScore)
	if opts.CollapsePaths {
		results = CollapseByPath(results)
	}
	results = Rank(results, opts.MaxK)

	r.logger.Debug("retrieval done",
		zap.String("run_name", opts.RunName),
		zap.Int("query_bytes", len(query)),
		zap.Int("lexical", len(lexical)),
		zap.Int("dense", len(dense)),
		zap.Int("fused", fused),
		zap.Int("returned", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

// fetch issues the lexical and dense searches concurrently. The first failure cancels the other.
func (r *Retriever) fetch(ctx context.Context, query string, limit int) ([]models.Candidate, []models.Candidate, error) {
	var lexical, dense []models.Candidate
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		results, err := r.index.LexicalSearch(gctx, query, limit)
		if err != nil {
			return fmt.Errorf("lexical search failed: %w", err)
		}
		lexical = results
		return nil
	})

	g.Go(func() error {
		denseQuery := query
		if r.rewriter != nil {
			rewritten, err := r.rewriter.Rewrite(gctx, query)
			if err != nil {
				return fmt.Errorf("query rewrite failed: %w", err)
			}
			denseQuery = Truncate(rewritten, r.config.MaxQueryChars)
		}
		results, err := r.index.DenseSearch(gctx, denseQuery, limit)
		if err != nil {
			return fmt.Errorf("dense search failed: %w", err)
		}
		dense = results
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return lexical, dense, nil
}

func (r *Retriever) resolve(opts Options) Options {
	if opts.MinSimilarityScore == nil {
		opts.MinSimilarityScore = models.Threshold(r.config.Threshold())
	}
	if opts.MaxK <= 0 {
		opts.MaxK = r.config.MaxK
	}
	if !opts.CollapsePaths {
		opts.CollapsePaths = r.config.CollapsePaths
	}
	return opts
}
