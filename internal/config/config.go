// Package config provides configuration loading and structs for ruiji.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Index     IndexConfig     `yaml:"index"`
	Vault     VaultConfig     `yaml:"vault"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the database and indices.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	BleveIndexPath  string `yaml:"bleve_index_path"`
	VectorIndexPath string `yaml:"vector_index_path"`
	VectorIndexType string `yaml:"vector_index_type"`
}

// EmbeddingConfig selects and configures the embedder.
// Provider is "hashing" (no model required) or "onnx" (requires CGO and onnxruntime).
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// RetrievalConfig holds hybrid retrieval settings.
type RetrievalConfig struct {
	// MinSimilarityScore is the fused-score threshold. Absent means 0.3; an explicit 0
	// disables the threshold.
	MinSimilarityScore *float64 `yaml:"min_similarity_score"`
	MaxK               int      `yaml:"max_k"`
	// MaxQueryChars bounds the query text sent to either sub-retriever (one embedding input).
	MaxQueryChars int `yaml:"max_query_chars"`
	// FetchMultiplier sizes each candidate fetch as MaxK * FetchMultiplier.
	FetchMultiplier int     `yaml:"fetch_multiplier"`
	LexicalWeight   float64 `yaml:"lexical_weight"`
	DenseWeight     float64 `yaml:"dense_weight"`
	// LexicalHalfScore is the raw keyword score that maps to 0.5 (score/(score+half)).
	LexicalHalfScore float64 `yaml:"lexical_half_score"`
	SnippetLength    int     `yaml:"snippet_length"`
	CollapsePaths    bool    `yaml:"collapse_paths"`
}

// Threshold returns MinSimilarityScore, or the default when it is unset.
func (r RetrievalConfig) Threshold() float64 {
	if r.MinSimilarityScore == nil {
		return DefaultMinSimilarityScore
	}
	return *r.MinSimilarityScore
}

// IndexConfig holds chunking and ingestion settings.
type IndexConfig struct {
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
	Extensions   []string `yaml:"extensions"`
	TitleBoost   float64  `yaml:"title_boost"`
	// Fuzzy enables typo-tolerant keyword matching at query time.
	Fuzzy bool `yaml:"fuzzy"`
}

// VaultConfig locates the notes directory. Note paths are relative to Root.
type VaultConfig struct {
	Root string `yaml:"root"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	cfg.Storage.VectorIndexPath = expandPath(cfg.Storage.VectorIndexPath, configDir)
	if cfg.Embedding.ModelPath != "" {
		cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	}
	if cfg.Vault.Root != "" {
		cfg.Vault.Root = expandPath(cfg.Vault.Root, configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
