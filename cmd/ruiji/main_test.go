package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/ruiji/internal/models"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after path are moved first",
			args:     []string{"projects/ruiji.md", "-max-k", "5"},
			expected: []string{"-max-k", "5", "projects/ruiji.md"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-max-k", "5", "projects/ruiji.md"},
			expected: []string{"-max-k", "5", "projects/ruiji.md"},
		},
		{
			name:     "path only returns unchanged",
			args:     []string{"projects/ruiji.md"},
			expected: []string{"projects/ruiji.md"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"my", "note.md", "--collapse", "--output", "json"},
			expected: []string{"--collapse", "--output", "json", "my", "note.md"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestJoinArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single path", []string{"a.md"}, "a.md"},
		{"path with spaces unquoted", []string{"Daily", "Notes/today.md"}, "Daily Notes/today.md"},
		{"quoted path", []string{"Daily Notes/today.md"}, "Daily Notes/today.md"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := joinArgs(tt.args)
			if got != tt.expected {
				t.Errorf("joinArgs(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestConfigPathFromArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		defaultPath string
		want        string
	}{
		{"no config flag", []string{"-max-k", "5", "a.md"}, "/default.yaml", "/default.yaml"},
		{"-config present", []string{"-config", "/custom.yaml", "a.md"}, "/default.yaml", "/custom.yaml"},
		{"--config present", []string{"--config", "/other.yaml"}, "/default.yaml", "/other.yaml"},
		{"config at end", []string{"a.md", "-config", "/end.yaml"}, "/default.yaml", "/end.yaml"},
		{"dangling flag", []string{"a.md", "-config"}, "/default.yaml", "/default.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := configPathFromArgs(tt.args, tt.defaultPath)
			if got != tt.want {
				t.Errorf("configPathFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSimilarDefaultsFromConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
retrieval:
  min_similarity_score: 0.45
  max_k: 7
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	minScore, maxK := similarDefaultsFromConfig(configPath)
	if minScore != 0.45 || maxK != 7 {
		t.Errorf("similarDefaultsFromConfig() = %f, %d; want 0.45, 7", minScore, maxK)
	}
	zeroPath := filepath.Join(dir, "zero.yaml")
	if err := os.WriteFile(zeroPath, []byte("retrieval:\n  min_similarity_score: 0\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if zeroMin, _ := similarDefaultsFromConfig(zeroPath); zeroMin != 0 {
		t.Errorf("similarDefaultsFromConfig(zero) min = %f; want explicit 0 kept", zeroMin)
	}
	minScore2, maxK2 := similarDefaultsFromConfig(filepath.Join(dir, "nonexistent.yaml"))
	if minScore2 != models.DefaultMinSimilarityScore || maxK2 != models.DefaultMaxK {
		t.Errorf("similarDefaultsFromConfig(nonexistent) = %f, %d; want built-in defaults", minScore2, maxK2)
	}
}

func TestNotePathFor(t *testing.T) {
	vault := t.TempDir()
	inside := filepath.Join(vault, "projects", "ruiji.md")
	root, rel, err := notePathFor(inside, vault)
	if err != nil {
		t.Fatal(err)
	}
	if root != vault || rel != "projects/ruiji.md" {
		t.Errorf("inside vault: root=%q rel=%q", root, rel)
	}

	outside := filepath.Join(t.TempDir(), "loose.md")
	root, rel, err = notePathFor(outside, vault)
	if err != nil {
		t.Fatal(err)
	}
	if root != filepath.Dir(outside) || rel != "loose.md" {
		t.Errorf("outside vault: root=%q rel=%q", root, rel)
	}

	root, rel, err = notePathFor(inside, "")
	if err != nil {
		t.Fatal(err)
	}
	if root != filepath.Dir(inside) || rel != "ruiji.md" {
		t.Errorf("no vault: root=%q rel=%q", root, rel)
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8081
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestInitializeComponents(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
storage:
  database_path: "./notes.db"
  bleve_index_path: "./bleve"
  vector_index_path: "./vectors.bin"
embedding:
  dimensions: 64
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	logger := zap.NewNop()
	c, err := initializeComponents(cfg, logger, false)
	if err != nil {
		t.Fatalf("initializeComponents: %v", err)
	}
	defer c.Close()
	if c.Finder == nil || c.Indexer == nil || c.Store == nil || c.Retriever == nil {
		t.Fatalf("components not wired: %+v", c)
	}
	if got := c.Embedder.Dimensions(); got != 64 {
		t.Errorf("embedder dimensions = %d, want 64", got)
	}
	c.SaveVectors(cfg, logger)
	if _, err := os.Stat(cfg.Storage.VectorIndexPath); err != nil {
		t.Errorf("vector index not saved: %v", err)
	}
}
