package keyword

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/ruiji/internal/models"
)

const (
	defaultFuzziness     = 2
	defaultMaxFuzzyTerms = 64
)

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// chunkDoc is the indexed shape of a chunk. Only these fields are mapped.
type chunkDoc struct {
	NoteID  string `json:"note_id"`
	Path    string `json:"path"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func newIndexMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// standard analyzer: lowercase + tokenize + stop words, no stemming.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("path", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("note_id", keywordFieldMapping)
	im.AddDocumentMapping("chunk", docMapping)
	im.DefaultType = "chunk"
	im.DefaultMapping = docMapping
	return im
}

// NewBleveIndex creates or opens a Bleve index at path.
// An existing index is reopened as-is; remove the directory after changing the mapping.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, newIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// NewMemoryBleveIndex creates an index that lives only in memory.
func NewMemoryBleveIndex() (*BleveIndex, error) {
	index, err := bleve.NewMemOnly(newIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index indexes a chunk under doc.ID, replacing any previous version.
func (b *BleveIndex) Index(ctx context.Context, doc *models.Document) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("document id is required")
	}
	return b.index.Index(doc.ID, chunkDoc{
		NoteID:  doc.NoteID,
		Path:    doc.Path,
		Title:   doc.Title,
		Content: doc.Content,
	})
}

// Search runs a disjunctive match query and returns up to limit results, best first.
// With TitleBoost > 1, title and content are queried separately and merged additively.
// With FuzzyEnabled, each distinct query term is matched within the edit distance.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordResult, error) {
	if limit <= 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}
	titleBoost := 1.0
	fuzzyEnabled := false
	fuzziness := defaultFuzziness
	maxFuzzyTerms := defaultMaxFuzzyTerms
	if opts != nil {
		if opts.TitleBoost > 0 {
			titleBoost = opts.TitleBoost
		}
		fuzzyEnabled = opts.FuzzyEnabled
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
		if opts.MaxFuzzyTerms > 0 {
			maxFuzzyTerms = opts.MaxFuzzyTerms
		}
	}

	build := func(field string) blevequery.Query {
		if fuzzyEnabled {
			return buildFuzzyQuery(query, fuzziness, maxFuzzyTerms, field)
		}
		mq := bleve.NewMatchQuery(query)
		mq.SetOperator(blevequery.MatchQueryOperatorOr)
		if field != "" {
			mq.SetField(field)
		}
		return mq
	}

	if titleBoost <= 1.0 {
		return b.run(ctx, build(""), limit)
	}
	return b.searchWithTitleBoost(ctx, build("title"), build("content"), limit, titleBoost)
}

func (b *BleveIndex) run(ctx context.Context, q blevequery.Query, limit int) ([]*KeywordResult, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}
	out := make([]*KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &KeywordResult{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// searchWithTitleBoost merges score = titleScore*boost + contentScore.
func (b *BleveIndex) searchWithTitleBoost(ctx context.Context, titleQuery, contentQuery blevequery.Query, limit int, titleBoost float64) ([]*KeywordResult, error) {
	// Request enough from each so the merged top "limit" is correct.
	reqSize := limit * 2
	if reqSize < 50 {
		reqSize = 50
	}
	titleHits, err := b.run(ctx, titleQuery, reqSize)
	if err != nil {
		return nil, err
	}
	contentHits, err := b.run(ctx, contentQuery, reqSize)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(titleHits)+len(contentHits))
	order := make([]string, 0, len(titleHits)+len(contentHits))
	add := func(id string, s float64) {
		if _, ok := scores[id]; !ok {
			order = append(order, id)
		}
		scores[id] += s
	}
	for _, h := range contentHits {
		add(h.ID, h.Score)
	}
	for _, h := range titleHits {
		add(h.ID, h.Score*titleBoost)
	}

	merged := make([]*KeywordResult, len(order))
	for i, id := range order {
		merged[i] = &KeywordResult{ID: id, Score: scores[id]}
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// tokenizeQuery splits query into distinct lowercase terms in first-seen order.
func tokenizeQuery(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(words))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?\"'()[]{}<>#*`")
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}
	return terms
}

// buildFuzzyQuery creates a disjunction of FuzzyQueries, one per term (up to maxTerms).
// If field is empty, all fields are searched.
func buildFuzzyQuery(queryStr string, fuzziness, maxTerms int, field string) blevequery.Query {
	terms := tokenizeQuery(queryStr)
	if len(terms) == 0 {
		mq := bleve.NewMatchQuery(queryStr)
		if field != "" {
			mq.SetField(field)
		}
		return mq
	}
	if len(terms) > maxTerms {
		terms = terms[:maxTerms]
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		if field != "" {
			fq.SetField(field)
		}
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// Delete removes a chunk from the index. Unknown IDs are not an error.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// DocCount returns the total number of chunks in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
