// Package main is the ruiji CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/ruiji/internal/cli"
	"github.com/hyperjump/ruiji/internal/config"
	"github.com/hyperjump/ruiji/internal/embedding"
	"github.com/hyperjump/ruiji/internal/indexer"
	"github.com/hyperjump/ruiji/internal/keyword"
	"github.com/hyperjump/ruiji/internal/models"
	"github.com/hyperjump/ruiji/internal/notes"
	"github.com/hyperjump/ruiji/internal/prompts"
	"github.com/hyperjump/ruiji/internal/retrieval"
	"github.com/hyperjump/ruiji/internal/server"
	"github.com/hyperjump/ruiji/internal/similar"
	"github.com/hyperjump/ruiji/internal/storage"
	"github.com/hyperjump/ruiji/internal/store"
	"github.com/hyperjump/ruiji/internal/vector"
	"github.com/hyperjump/ruiji/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/ruiji/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "ruiji server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "similar":
		runSimilar()
	case "index":
		runIndex()
	case "delete":
		runDelete()
	case "prompts":
		runPrompts()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("ruiji version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (indexing, retrieval stages, etc.)")
	sync := fs.Bool("sync", true, "index new and changed vault notes on startup")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if *sync && cfg.Vault.Root != "" {
		n, err := components.Indexer.IndexVault(context.Background(), cfg.Vault.Root, cfg.Index.Extensions)
		if err != nil {
			logger.Warn("vault sync failed", zap.String("root", cfg.Vault.Root), zap.Error(err))
		} else {
			logger.Info("vault synced", zap.String("root", cfg.Vault.Root), zap.Int("indexed", n))
		}
	}

	srv := server.NewServer(
		components.Finder,
		components.Indexer,
		components.Storage,
		components.Store,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
	components.SaveVectors(cfg, logger)
}

// joinArgs joins all positional args with spaces so paths containing spaces work
// with or without shell quoting.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// configPathFromArgs returns the value of -config/--config from args if present, else defaultPath.
func configPathFromArgs(args []string, defaultPath string) string {
	for i, a := range args {
		if (a == "-config" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultPath
}

// similarDefaultsFromConfig loads config at path and returns the default threshold and
// result count. On load failure, returns the built-in defaults.
func similarDefaultsFromConfig(path string) (minScore float64, maxK int) {
	minScore, maxK = models.DefaultMinSimilarityScore, models.DefaultMaxK
	cfg, _, err := loadConfig(path)
	if err != nil || cfg == nil {
		return minScore, maxK
	}
	return cfg.Retrieval.Threshold(), cfg.Retrieval.MaxK
}

// argsReorder moves any flags (and their values) that appear after the positional
// arguments to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "ruiji similar note.md -max-k 5" would
// otherwise leave -max-k unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printSimilarUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: ruiji similar [flags] <note-path>\n")
	fmt.Fprintf(fs.Output(), "       ruiji similar [flags] --text \"some text\" [note-path]\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
The note path is relative to the vault root. Its own chunks are never returned.
  • Without --vault (or vault.root in config) the indexed copy of the note is used.
  • --min-score filters weak matches; --max-k limits how many notes are returned.
  • --collapse keeps only the best chunk per note.

Examples:
  ruiji similar projects/ruiji.md
  ruiji similar --max-k 5 --collapse projects/ruiji.md
  ruiji similar --text "hybrid search over markdown notes"
  ruiji similar --output json projects/ruiji.md
`)
}

func runSimilar() {
	args := argsReorder(os.Args[2:])
	configPath := configPathFromArgs(args, defaultConfigPath)
	defaultMin, defaultMaxK := similarDefaultsFromConfig(configPath)

	fs := flag.NewFlagSet("similar", flag.ExitOnError)
	configPathFlag := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = use direct storage)")
	text := fs.String("text", "", "query text instead of reading the note")
	vaultRoot := fs.String("vault", "", "vault directory (default: vault.root from config)")
	minScore := fs.Float64("min-score", defaultMin, "minimum fused similarity score (0-1)")
	maxK := fs.Int("max-k", defaultMaxK, "maximum number of notes returned")
	collapse := fs.Bool("collapse", false, "return at most one chunk per note")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSimilarUsage(fs) }
	_ = fs.Parse(args)

	notePath := joinArgs(fs.Args())
	if notePath == "" && *text == "" {
		printSimilarUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	req := &models.SimilarRequest{
		Path:               notePath,
		Text:               *text,
		MinSimilarityScore: models.Threshold(*minScore),
		MaxK:               *maxK,
		CollapsePaths:      *collapse,
	}
	if err := req.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid request: %v\n", err)
		os.Exit(1)
	}

	if *serverURL != "" {
		response, err := similarViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Similar failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSimilarNotes(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *vaultRoot != "" {
		cfg.Vault.Root = *vaultRoot
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	provider := notes.Select(cfg.Vault.Root, components.Storage, req.Path, req.Text)
	response, err := components.Finder.Find(context.Background(), provider, similar.Request{
		MinSimilarityScore: req.MinSimilarityScore,
		MaxK:               req.MaxK,
		CollapsePaths:      req.CollapsePaths || cfg.Retrieval.CollapsePaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Similar failed [%s]: %v\n", similar.Code(err), err)
		os.Exit(1)
	}
	if err := cli.WriteSimilarNotes(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// apiError mirrors the server's error body.
type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func decodeAPIError(resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)
	var e apiError
	if err := json.Unmarshal(b, &e); err == nil && e.Error != "" {
		if e.Code != "" {
			return fmt.Errorf("server returned %d [%s]: %s", resp.StatusCode, e.Code, e.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
}

func similarViaHTTP(serverURL string, req *models.SimilarRequest) (*models.SimilarResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/similar", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	var response models.SimilarResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var status *cli.Status
	if *serverURL != "" {
		status, err = statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger, cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		stats, err := components.Store.Stats(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = &cli.Status{
			Index:          stats,
			DatabasePath:   cfg.Storage.DatabasePath,
			BleveIndexPath: cfg.Storage.BleveIndexPath,
			VectorPath:     cfg.Storage.VectorIndexPath,
			VaultRoot:      cfg.Vault.Root,
		}
		diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath, cfg.Storage.VectorIndexPath)
		if err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*cli.Status, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	var body struct {
		Index          *store.Stats   `json:"index"`
		DiskUsageBytes *int64         `json:"disk_usage_bytes"`
		Config         map[string]any `json:"config"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	s := &cli.Status{Index: body.Index, DiskUsageBytes: body.DiskUsageBytes}
	if body.Config != nil {
		s.DatabasePath, _ = body.Config["database_path"].(string)
		s.BleveIndexPath, _ = body.Config["bleve_index_path"].(string)
		s.VectorPath, _ = body.Config["vector_index_path"].(string)
		s.VaultRoot, _ = body.Config["vault_root"].(string)
	}
	return s, nil
}

// notePathFor splits a file path into the root and note path it is indexed under:
// relative to vaultRoot when the file lives inside it, else its base name.
func notePathFor(file, vaultRoot string) (root, rel string, err error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", "", err
	}
	if vaultRoot != "" {
		absRoot, err := filepath.Abs(vaultRoot)
		if err != nil {
			return "", "", err
		}
		if r, err := filepath.Rel(absRoot, abs); err == nil && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			return absRoot, filepath.ToSlash(r), nil
		}
	}
	return filepath.Dir(abs), filepath.Base(abs), nil
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	path := joinArgs(fs.Args())
	if path == "" {
		path = cfg.Vault.Root
	}
	if path == "" {
		fmt.Println("Usage: ruiji index [flags] <note-or-vault-directory>")
		fmt.Println("  (defaults to vault.root from config)")
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		n, err := components.Indexer.IndexVault(ctx, path, cfg.Index.Extensions)
		components.SaveVectors(cfg, logger)
		if err != nil {
			fmt.Printf("Indexing directory failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Indexed %d note(s) from %s\n", n, path)
		return
	}
	root, rel, err := notePathFor(path, cfg.Vault.Root)
	if err != nil {
		fmt.Printf("Failed to resolve path: %v\n", err)
		os.Exit(1)
	}
	indexed, err := components.Indexer.IndexFile(ctx, root, rel)
	if err != nil {
		fmt.Printf("Indexing failed: %v\n", err)
		os.Exit(1)
	}
	components.SaveVectors(cfg, logger)
	if !indexed {
		fmt.Printf("Note unchanged: %s\n", rel)
		return
	}
	fmt.Printf("Note indexed successfully: %s\n", rel)
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	notePath := joinArgs(fs.Args())
	if notePath == "" {
		fmt.Println("Usage: ruiji delete [flags] <note-path>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if err := components.Indexer.DeleteNote(context.Background(), notePath); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	components.SaveVectors(cfg, logger)
	fmt.Printf("Note deleted: %s\n", notePath)
}

func runPrompts() {
	fs := flag.NewFlagSet("prompts", flag.ExitOnError)
	chain := fs.String("chain", prompts.ChainLLM, "chain type: "+strings.Join(prompts.Chains(), ", "))
	seed := fs.Uint64("seed", 0, "random seed (0 = random); the same seed gives the same prompts")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	s := *seed
	if s == 0 {
		s = rand.Uint64()
	}
	if err := cli.WritePrompts(os.Stdout, *chain, prompts.Pick(*chain, prompts.NewRand(s)), format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Storage      storage.Storage
	Embedder     embedding.Embedder
	VectorIndex  vector.VectorIndex
	KeywordIndex keyword.KeywordIndex
	Store        *store.Store
	Retriever    *retrieval.Retriever
	Finder       *similar.Finder
	Indexer      *indexer.Indexer
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

// SaveVectors persists the vector index to the configured path, if any.
func (c *Components) SaveVectors(cfg *config.Config, logger *zap.Logger) {
	if cfg.Storage.VectorIndexPath == "" || c.VectorIndex == nil {
		return
	}
	if err := c.VectorIndex.Save(cfg.Storage.VectorIndexPath); err != nil {
		logger.Warn("vector index save failed", zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(err))
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	c := &Components{Storage: st}

	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil && cfg.Embedding.Provider != embedding.ProviderHashing {
		// Fall back to the hashing embedder if the model cannot be loaded (e.g. no onnxruntime).
		logger.Warn("failed to create embedder, falling back to hashing",
			zap.String("requested_provider", cfg.Embedding.Provider),
			zap.Error(err))
		fallback := cfg.Embedding
		fallback.Provider = embedding.ProviderHashing
		embedder, err = embedding.NewEmbedder(&fallback)
	}
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	c.Embedder = embedder

	vectorIndex, err := vector.NewVectorIndex(cfg.Storage.VectorIndexType, embedder.Dimensions())
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	c.VectorIndex = vectorIndex
	if cfg.Storage.VectorIndexPath != "" {
		if loadErr := vectorIndex.Load(cfg.Storage.VectorIndexPath); loadErr != nil {
			logger.Warn("vector index load skipped (reindex the vault)", zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(loadErr))
		}
	}
	logger.Info("vector index initialized",
		zap.String("type", vectorIndex.Type()),
		zap.Int("size", vectorIndex.Size()))

	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}
	c.KeywordIndex = keywordIndex

	componentLogger := zap.NewNop()
	if debug {
		componentLogger = logger
	}
	c.Store = store.New(st, keywordIndex, vectorIndex, embedder,
		store.WithLogger(componentLogger),
		store.WithLexicalHalfScore(cfg.Retrieval.LexicalHalfScore),
		store.WithKeywordOptions(&keyword.SearchOptions{
			TitleBoost:   cfg.Index.TitleBoost,
			FuzzyEnabled: cfg.Index.Fuzzy,
		}),
	)
	c.Retriever = retrieval.New(c.Store, &cfg.Retrieval, retrieval.WithLogger(componentLogger))
	c.Finder = similar.NewFinder(c.Retriever,
		similar.WithLogger(componentLogger),
		similar.WithSnippetLength(cfg.Retrieval.SnippetLength),
	)
	c.Indexer = indexer.NewIndexer(st, embedder, vectorIndex, keywordIndex, &cfg.Index, indexer.WithLogger(componentLogger))
	return c, nil
}

func printUsage() {
	fmt.Println(`ruiji - related notes from your vault (hybrid keyword + semantic retrieval)

Usage:
  ruiji server [flags]              Start the HTTP server
  ruiji similar [flags] <note>      Show notes similar to a note
  ruiji index [flags] [path]        Index a note or a vault directory
  ruiji delete [flags] <note>       Remove a note from the index
  ruiji prompts [flags]             Show suggested chat prompts
  ruiji status [flags]              Show storage/index status
  ruiji version                     Show version
  ruiji help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/ruiji/config.yaml)
  --debug            Enable debug logging (indexing, retrieval stages, etc.)
  --sync             Index new and changed vault notes on startup (default: true)

Similar Flags:
  --config string     Config file path (also used for default min-score and max-k)
  --server string     Server URL, e.g. http://localhost:8081 (default: direct storage)
  --text string       Query text instead of the note's content
  --vault string      Vault directory (default: vault.root from config)
  --min-score float   Minimum fused similarity score (default from config, or 0.3)
  --max-k int         Maximum number of notes (default from config, or 20)
  --collapse          Return at most one chunk per note
  --output string     Output format: text or json (default: text)

Index Flags:
  --config string    Config file path

Prompts Flags:
  --chain string     llm_chain, vault_qa or copilot_plus (default: llm_chain)
  --seed uint        Random seed (0 = random)
  --output string    Output format: text or json (default: text)

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: direct storage)
  --output string    Output format: text or json (default: text)

Examples:
  ruiji index ~/vault
  ruiji similar projects/ruiji.md
  ruiji similar --output json --max-k 5 projects/ruiji.md
  ruiji similar --text "notes about sourdough"
  ruiji delete projects/old.md
  ruiji prompts --chain vault_qa
  ruiji status --output json`)
}
