package server

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/ruiji/internal/models"
	"github.com/hyperjump/ruiji/internal/notes"
	"github.com/hyperjump/ruiji/internal/prompts"
	"github.com/hyperjump/ruiji/internal/retrieval"
	"github.com/hyperjump/ruiji/internal/similar"
	"github.com/hyperjump/ruiji/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	var req models.SimilarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MinSimilarityScore == nil {
		req.MinSimilarityScore = models.Threshold(s.config.Retrieval.Threshold())
	}
	if req.MaxK <= 0 {
		req.MaxK = s.config.Retrieval.MaxK
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("similar request",
		zap.String("path", req.Path),
		zap.Int("text_len", len(req.Text)),
		zap.Float64("min_similarity_score", *req.MinSimilarityScore),
		zap.Int("max_k", req.MaxK),
	)
	resp, err := s.finder.Find(r.Context(), notes.Select(s.config.Vault.Root, s.storage, req.Path, req.Text), similar.Request{
		MinSimilarityScore: req.MinSimilarityScore,
		MaxK:               req.MaxK,
		CollapsePaths:      req.CollapsePaths || s.config.Retrieval.CollapsePaths,
	})
	if err != nil {
		code := similar.Code(err)
		status := http.StatusInternalServerError
		switch code {
		case retrieval.CodeIndexEmpty:
			status = http.StatusConflict
		case similar.CodeNoActiveFile, retrieval.CodeNoQuerySource:
			status = http.StatusUnprocessableEntity
		default:
			s.logger.Error("similar failed", zap.Error(err))
		}
		s.respondJSON(w, status, errorResponse{Error: err.Error(), Code: code})
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIndexNote(w http.ResponseWriter, r *http.Request) {
	var input models.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(input.Path) == "" || strings.TrimSpace(input.Content) == "" {
		s.respondError(w, http.StatusBadRequest, "path and content are required")
		return
	}
	s.logger.Debug("index note request", zap.String("path", input.Path))
	note, err := s.indexer.IndexNote(r.Context(), &input)
	if err != nil {
		s.logger.Error("indexing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": note.ID, "path": note.Path, "status": "indexed"})
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	note, err := s.storage.GetNoteByPath(r.Context(), path)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "note not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	s.logger.Debug("delete note request", zap.String("path", path))
	if err := s.indexer.DeleteNote(r.Context(), path); err != nil {
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handlePrompts(w http.ResponseWriter, r *http.Request) {
	chain := r.URL.Query().Get("chain")
	if chain == "" {
		chain = prompts.ChainLLM
	}
	seed := rand.Uint64()
	if raw := r.URL.Query().Get("seed"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "seed must be an unsigned integer")
			return
		}
		seed = parsed
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"chain":   chain,
		"prompts": prompts.Pick(chain, prompts.NewRand(seed)),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"index": stats,
		"config": map[string]interface{}{
			"embedding_provider":   s.config.Embedding.Provider,
			"chunk_size":           s.config.Index.ChunkSize,
			"chunk_overlap":        s.config.Index.ChunkOverlap,
			"min_similarity_score": s.config.Retrieval.Threshold(),
			"max_k":                s.config.Retrieval.MaxK,
			"database_path":        s.config.Storage.DatabasePath,
			"bleve_index_path":     s.config.Storage.BleveIndexPath,
			"vector_index_path":    s.config.Storage.VectorIndexPath,
			"vault_root":           s.config.Vault.Root,
		},
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.BleveIndexPath,
		s.config.Storage.VectorIndexPath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Error: message})
}
