package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/ruiji/internal/config"
	"github.com/hyperjump/ruiji/internal/embedding"
	"github.com/hyperjump/ruiji/internal/indexer"
	"github.com/hyperjump/ruiji/internal/keyword"
	"github.com/hyperjump/ruiji/internal/models"
	"github.com/hyperjump/ruiji/internal/retrieval"
	"github.com/hyperjump/ruiji/internal/similar"
	"github.com/hyperjump/ruiji/internal/storage"
	"github.com/hyperjump/ruiji/internal/store"
	"github.com/hyperjump/ruiji/internal/vector"
)

type testServer struct {
	handler http.Handler
	indexer *indexer.Indexer
	config  *config.Config
}

func newTestServer(t *testing.T, vaultRoot string) *testServer {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	dir := t.TempDir()
	cfg.Storage.DatabasePath = filepath.Join(dir, "db.sqlite")
	cfg.Storage.BleveIndexPath = filepath.Join(dir, "bleve")
	cfg.Storage.VectorIndexPath = filepath.Join(dir, "vectors.bin")
	cfg.Embedding.Dimensions = 64
	cfg.Index.ChunkSize = 64
	cfg.Index.ChunkOverlap = 8
	cfg.Retrieval.MinSimilarityScore = models.Threshold(0.05)
	cfg.Vault.Root = vaultRoot

	st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	kw, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kw.Close() })
	vec, err := vector.NewMemoryIndex(cfg.Embedding.Dimensions)
	require.NoError(t, err)
	emb := embedding.NewHashingEmbedder(cfg.Embedding.Dimensions)

	noteStore := store.New(st, kw, vec, emb)
	idx := indexer.NewIndexer(st, emb, vec, kw, &cfg.Index)
	finder := similar.NewFinder(retrieval.New(noteStore, &cfg.Retrieval))
	srv := NewServer(finder, idx, st, noteStore, cfg, nil)
	return &testServer{handler: srv.Handler(), indexer: idx, config: cfg}
}

func (ts *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, r)
	return w
}

func (ts *testServer) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for path, content := range map[string]string{
		"garden/tomatoes.md": "growing tomatoes basil compost soil watering schedule",
		"kitchen/sauce.md":   "tomato sauce basil garlic olive oil simmer tomatoes",
		"work/okr.md":        "quarterly objectives key results roadmap hiring",
	} {
		_, err := ts.indexer.IndexNote(ctx, &models.NoteInput{Path: path, Content: content})
		require.NoError(t, err)
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v))
}

func TestHandleSimilar_Text(t *testing.T) {
	ts := newTestServer(t, "")
	ts.seed(t)

	w := ts.do(t, http.MethodPost, "/api/v1/similar", models.SimilarRequest{
		Text:               "tomatoes basil olive oil",
		Path:               "kitchen/sauce.md",
		MinSimilarityScore: models.Threshold(0.2),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SimilarResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Notes)
	assert.Equal(t, "garden/tomatoes.md", resp.Notes[0].Path)
	for _, n := range resp.Notes {
		assert.NotEqual(t, "kitchen/sauce.md", n.Path)
		assert.GreaterOrEqual(t, n.Score, 0.2)
	}
}

func TestHandleSimilar_PathFromStorage(t *testing.T) {
	ts := newTestServer(t, "")
	ts.seed(t)

	w := ts.do(t, http.MethodPost, "/api/v1/similar", models.SimilarRequest{Path: "garden/tomatoes.md", MinSimilarityScore: models.Threshold(0.01)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.SimilarResponse
	decode(t, w, &resp)
	assert.Equal(t, "garden/tomatoes.md", resp.Source)
	require.NotEmpty(t, resp.Notes)
	assert.Equal(t, "kitchen/sauce.md", resp.Notes[0].Path, "a note sharing words ranks above a dense-only match")
	assert.Equal(t, "sauce", resp.Notes[0].Title)
	for _, n := range resp.Notes {
		assert.NotEqual(t, "garden/tomatoes.md", n.Path)
	}
}

// denseOnlyIndex returns fixed dense candidates and no lexical ones.
type denseOnlyIndex struct{ dense []models.Candidate }

func (denseOnlyIndex) IsEmpty(context.Context) (bool, error) { return false, nil }

func (denseOnlyIndex) LexicalSearch(context.Context, string, int) ([]models.Candidate, error) {
	return nil, nil
}

func (d denseOnlyIndex) DenseSearch(context.Context, string, int) ([]models.Candidate, error) {
	return d.dense, nil
}

func TestHandleSimilar_ZeroThreshold(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	weak := &models.Document{ID: "weak_0", Path: "notes/weak.md", Title: "weak", Content: "barely related"}
	idx := denseOnlyIndex{dense: []models.Candidate{{Document: weak, Score: 0.1, Signal: models.SignalDense}}}
	srv := NewServer(similar.NewFinder(retrieval.New(idx, &cfg.Retrieval)), nil, nil, nil, cfg, nil)
	ts := &testServer{handler: srv.Handler(), config: cfg}

	w := ts.do(t, http.MethodPost, "/api/v1/similar", map[string]interface{}{"text": "anything", "min_similarity_score": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.SimilarResponse
	decode(t, w, &resp)
	require.Len(t, resp.Notes, 1)
	assert.Equal(t, "notes/weak.md", resp.Notes[0].Path)
	assert.InDelta(t, 0.1, resp.Notes[0].Score, 1e-9)

	w = ts.do(t, http.MethodPost, "/api/v1/similar", map[string]interface{}{"text": "anything"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = models.SimilarResponse{}
	decode(t, w, &resp)
	assert.Empty(t, resp.Notes, "an absent threshold uses the configured 0.3")
}

func TestHandleSimilar_PathFromVault(t *testing.T) {
	vault := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(vault, "draft.md"), []byte("basil tomatoes compost"), 0600))
	ts := newTestServer(t, vault)
	ts.seed(t)

	w := ts.do(t, http.MethodPost, "/api/v1/similar", models.SimilarRequest{Path: "draft.md"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.SimilarResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Notes)
	assert.Equal(t, "garden/tomatoes.md", resp.Notes[0].Path)
}

func TestHandleSimilar_Errors(t *testing.T) {
	empty := newTestServer(t, "")
	populated := newTestServer(t, "")
	populated.seed(t)

	tests := []struct {
		name     string
		ts       *testServer
		body     interface{}
		status   int
		wantCode string
	}{
		{"index empty", empty, models.SimilarRequest{Text: "anything"}, http.StatusConflict, retrieval.CodeIndexEmpty},
		{"no active file", populated, models.SimilarRequest{Path: "missing.md"}, http.StatusUnprocessableEntity, similar.CodeNoActiveFile},
		{"blank text", populated, models.SimilarRequest{Text: "   "}, http.StatusUnprocessableEntity, retrieval.CodeNoQuerySource},
		{"empty request", populated, models.SimilarRequest{}, http.StatusBadRequest, ""},
		{"bad json", populated, "not-an-object", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.ts.do(t, http.MethodPost, "/api/v1/similar", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			var resp errorResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleNotes_IndexGetDelete(t *testing.T) {
	ts := newTestServer(t, "")

	w := ts.do(t, http.MethodPost, "/api/v1/notes", models.NoteInput{Path: "inbox/idea.md", Content: "an idea worth keeping"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]string
	decode(t, w, &created)
	assert.Equal(t, "inbox/idea.md", created["path"])
	assert.Equal(t, "indexed", created["status"])

	w = ts.do(t, http.MethodGet, "/api/v1/notes?path=inbox/idea.md", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var note models.Note
	decode(t, w, &note)
	assert.Equal(t, "idea", note.Title)
	assert.Equal(t, "an idea worth keeping", note.Content)

	w = ts.do(t, http.MethodDelete, "/api/v1/notes?path=inbox/idea.md", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/notes?path=inbox/idea.md", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleNotes_Validation(t *testing.T) {
	ts := newTestServer(t, "")
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/v1/notes", models.NoteInput{Path: "a.md"}).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodDelete, "/api/v1/notes", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/v1/notes", nil).Code)
}

func TestHandlePrompts(t *testing.T) {
	ts := newTestServer(t, "")

	get := func(target string) map[string]interface{} {
		w := ts.do(t, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out map[string]interface{}
		decode(t, w, &out)
		return out
	}
	a := get("/api/v1/prompts?chain=vault_qa&seed=7")
	b := get("/api/v1/prompts?chain=vault_qa&seed=7")
	assert.Equal(t, a, b, "same seed must give the same prompts")
	assert.Equal(t, "vault_qa", a["chain"])
	assert.Len(t, a["prompts"], 3)

	assert.Equal(t, "llm_chain", get("/api/v1/prompts")["chain"])
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/v1/prompts?seed=-1", nil).Code)
}

func TestHandleStatusAndHealth(t *testing.T) {
	ts := newTestServer(t, "")
	ts.seed(t)

	w := ts.do(t, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Index          store.Stats            `json:"index"`
		Config         map[string]interface{} `json:"config"`
		DiskUsageBytes int64                  `json:"disk_usage_bytes"`
	}
	decode(t, w, &out)
	assert.Equal(t, int64(3), out.Index.Notes)
	assert.Equal(t, 3, out.Index.Vectors)
	assert.Equal(t, "hashing", out.Config["embedding_provider"])
	assert.Positive(t, out.DiskUsageBytes)

	w = ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
