package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hyperjump/ruiji/internal/config"
	"github.com/hyperjump/ruiji/internal/embedding"
	"github.com/hyperjump/ruiji/internal/keyword"
	"github.com/hyperjump/ruiji/internal/models"
	"github.com/hyperjump/ruiji/internal/noteid"
	"github.com/hyperjump/ruiji/internal/storage"
	"github.com/hyperjump/ruiji/internal/vector"
	"go.uber.org/zap"
)

// Indexer indexes notes into storage, keyword index, and vector index.
type Indexer struct {
	storage      storage.Storage
	embedder     embedding.Embedder
	vectorIndex  vector.VectorIndex
	keywordIndex keyword.KeywordIndex
	chunker      *Chunker
	logger       *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (note indexed, note deleted, etc.).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(
	storage storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.VectorIndex,
	keywordIndex keyword.KeywordIndex,
	cfg *config.IndexConfig,
	opts ...IndexerOption,
) *Indexer {
	idx := &Indexer{
		storage:      storage,
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
		chunker:      NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// indexChunks chunks body, embeds the chunks, and writes them to storage and both indices.
func (idx *Indexer) indexChunks(ctx context.Context, note *models.Note, body string) ([]*models.Document, error) {
	chunkSource := *note
	chunkSource.Content = body
	chunks := idx.chunker.Chunk(&chunkSource)
	if len(chunks) == 0 {
		// frontmatter-only note: index the title so the note is still reachable
		chunkSource.Content = note.Title
		chunks = idx.chunker.Chunk(&chunkSource)
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Title + "\n" + ch.Content
	}
	embeddings, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}
	if err := idx.storage.BatchCreateChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}
	chunkIDs := make([]string, len(chunks))
	for i, ch := range chunks {
		chunkIDs[i] = ch.ID
	}
	if err := idx.vectorIndex.Add(ctx, chunkIDs, embeddings); err != nil {
		return nil, fmt.Errorf("failed to index vectors: %w", err)
	}
	for _, ch := range chunks {
		forKeyword := *ch
		forKeyword.Title = normalizeTitleForKeywordSearch(ch.Title)
		if err := idx.keywordIndex.Index(ctx, &forKeyword); err != nil {
			return nil, fmt.Errorf("failed to index keywords: %w", err)
		}
	}
	return chunks, nil
}

// IndexNote stores, chunks, embeds and indexes a note, replacing any note at the same path.
// The title defaults to the frontmatter "title" or the file name without extension.
func (idx *Indexer) IndexNote(ctx context.Context, input *models.NoteInput) (*models.Note, error) {
	notePath := noteid.NormalizePath(input.Path)
	if notePath == "" {
		return nil, fmt.Errorf("note path is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("note content is required: %s", notePath)
	}

	frontmatter, body := SplitFrontmatter(input.Content)
	note := &models.Note{
		ID:       noteid.FromPath(notePath),
		Path:     notePath,
		Title:    resolveTitle(input.Title, frontmatter, notePath),
		Content:  input.Content,
		Metadata: mergeMetadata(input.Metadata, frontmatter),
	}

	if err := idx.DeleteNote(ctx, notePath); err != nil {
		return nil, err
	}
	if err := idx.storage.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to store note: %w", err)
	}

	chunks, err := idx.indexChunks(ctx, note, body)
	if err != nil {
		// a note row without its chunks would shadow the path; drop it
		if rbErr := idx.DeleteNote(ctx, notePath); rbErr != nil {
			idx.logger.Warn("indexer rollback failed", zap.String("path", notePath), zap.Error(rbErr))
		}
		return nil, err
	}
	idx.logger.Debug("indexer note indexed",
		zap.String("path", note.Path),
		zap.String("note_id", note.ID),
		zap.Int("chunks", len(chunks)),
	)
	return note, nil
}

func resolveTitle(explicit string, frontmatter map[string]interface{}, notePath string) string {
	if t := strings.TrimSpace(explicit); t != "" {
		return t
	}
	if t, ok := frontmatter["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	base := path.Base(notePath)
	return strings.TrimSuffix(base, path.Ext(base))
}

func mergeMetadata(input, frontmatter map[string]interface{}) map[string]interface{} {
	if len(input) == 0 && len(frontmatter) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(input)+len(frontmatter))
	for k, v := range frontmatter {
		out[k] = v
	}
	for k, v := range input {
		out[k] = v
	}
	return out
}

// DeleteNote removes the note at notePath from all indices and storage.
// Deleting a path that was never indexed is not an error.
func (idx *Indexer) DeleteNote(ctx context.Context, notePath string) error {
	id := noteid.FromPath(notePath)
	chunks, err := idx.storage.GetChunksByNoteID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}
	if len(chunks) == 0 {
		if _, err := idx.storage.GetNote(ctx, id); errors.Is(err, storage.ErrNotFound) {
			return nil
		}
	}
	chunkIDs := make([]string, len(chunks))
	for i, ch := range chunks {
		chunkIDs[i] = ch.ID
		if err := idx.keywordIndex.Delete(ctx, ch.ID); err != nil {
			return fmt.Errorf("failed to delete from keyword index: %w", err)
		}
	}
	if err := idx.vectorIndex.Remove(ctx, chunkIDs); err != nil {
		return fmt.Errorf("failed to delete from vector index: %w", err)
	}
	if err := idx.storage.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	idx.logger.Debug("indexer note deleted", zap.String("path", noteid.NormalizePath(notePath)), zap.Int("chunks", len(chunks)))
	return nil
}

const (
	metaKeySourceMtime = "source_mtime"
	metaKeySourceSize  = "source_size"
)

// IndexFile reads the note at relPath under root and indexes it under relPath.
// Skips unchanged files (same mtime and size as when last indexed).
// Returns true when the note was (re)indexed.
func (idx *Indexer) IndexFile(ctx context.Context, root, relPath string) (bool, error) {
	abs := filepath.Join(root, filepath.FromSlash(relPath))
	info, err := os.Stat(abs)
	if err != nil {
		return false, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return false, fmt.Errorf("not a regular file: %s", abs)
	}
	if idx.unchanged(ctx, relPath, info) {
		idx.logger.Debug("indexer skipping unchanged note", zap.String("path", relPath))
		return false, nil
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return false, fmt.Errorf("read file: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return false, idx.DeleteNote(ctx, relPath)
	}
	_, err = idx.IndexNote(ctx, &models.NoteInput{
		Path:    relPath,
		Content: string(content),
		Metadata: map[string]interface{}{
			// strings: UnixNano exceeds float64 precision after a JSON round trip
			metaKeySourceMtime: strconv.FormatInt(info.ModTime().UnixNano(), 10),
			metaKeySourceSize:  strconv.FormatInt(info.Size(), 10),
		},
	})
	return err == nil, err
}

func (idx *Indexer) unchanged(ctx context.Context, relPath string, info os.FileInfo) bool {
	note, err := idx.storage.GetNote(ctx, noteid.FromPath(relPath))
	if err != nil || note.Metadata == nil {
		return false
	}
	return metadataInt64(note.Metadata, metaKeySourceMtime) == info.ModTime().UnixNano() &&
		metadataInt64(note.Metadata, metaKeySourceSize) == info.Size()
}

func metadataInt64(m map[string]interface{}, key string) int64 {
	switch n := m[key].(type) {
	case string:
		x, _ := strconv.ParseInt(n, 10, 64)
		return x
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// IndexVault walks dir recursively and indexes each regular file whose extension is in
// allowedExts (all files when empty). Hidden directories such as .obsidian and .trash are
// skipped. Note paths are relative to dir. Returns the number of notes (re)indexed.
func (idx *Indexer) IndexVault(ctx context.Context, dir string, allowedExts []string) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != absDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if len(allowedExts) > 0 && !extensionAllowed(filepath.Ext(p), allowedExts) {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, relErr := filepath.Rel(absDir, p)
		if relErr != nil {
			return relErr
		}
		indexed, indexErr := idx.IndexFile(ctx, absDir, filepath.ToSlash(rel))
		if indexErr != nil {
			return fmt.Errorf("index %s: %w", rel, indexErr)
		}
		if indexed {
			n++
		}
		return nil
	})
	idx.logger.Debug("indexer vault indexed", zap.String("dir", absDir), zap.Int("indexed", n))
	return n, err
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	if extNorm == "" {
		return false
	}
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
