package config

const (
	// DefaultMinSimilarityScore is the fused-score threshold when none is configured.
	DefaultMinSimilarityScore = 0.3
	// DefaultLexicalHalfScore suits Bleve's coordinated TF-IDF scores for whole-note queries.
	DefaultLexicalHalfScore = 0.1
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8081
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/ruiji/data/db/notes.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/ruiji/data/indices/bleve"
	}
	if cfg.Storage.VectorIndexPath == "" {
		cfg.Storage.VectorIndexPath = "/usr/local/var/ruiji/data/indices/vectors.bin"
	}
	if cfg.Storage.VectorIndexType == "" {
		cfg.Storage.VectorIndexType = "memory"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "hashing"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	ApplyRetrievalDefaults(&cfg.Retrieval)
	if cfg.Index.ChunkSize == 0 {
		cfg.Index.ChunkSize = 256
	}
	if cfg.Index.ChunkOverlap == 0 {
		cfg.Index.ChunkOverlap = 32
	}
	if cfg.Index.Extensions == nil {
		cfg.Index.Extensions = []string{".md", ".markdown", ".txt"}
	}
	if cfg.Index.TitleBoost == 0 {
		cfg.Index.TitleBoost = 1.0
	}
}

// ApplyRetrievalDefaults fills zero values in r. Weights are only defaulted when both are zero,
// so a single-signal configuration (e.g. lexical_weight: 1) is kept.
func ApplyRetrievalDefaults(r *RetrievalConfig) {
	if r.MinSimilarityScore == nil {
		minScore := DefaultMinSimilarityScore
		r.MinSimilarityScore = &minScore
	}
	if r.MaxK == 0 {
		r.MaxK = 20
	}
	if r.MaxQueryChars == 0 {
		r.MaxQueryChars = 5000
	}
	if r.FetchMultiplier == 0 {
		r.FetchMultiplier = 3
	}
	if r.LexicalWeight == 0 && r.DenseWeight == 0 {
		r.LexicalWeight = 0.5
		r.DenseWeight = 0.5
	}
	if r.LexicalHalfScore <= 0 {
		r.LexicalHalfScore = DefaultLexicalHalfScore
	}
	if r.SnippetLength == 0 {
		r.SnippetLength = 200
	}
}
