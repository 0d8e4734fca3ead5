// Package cli provides output helpers for the ruiji command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/hyperjump/ruiji/internal/models"
	"github.com/hyperjump/ruiji/internal/prompts"
	"github.com/hyperjump/ruiji/internal/store"
	"github.com/hyperjump/ruiji/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

const separator = "─────────────────────────────────────────────────────────"

// WriteSimilarNotes writes a similar-notes response to w in the given format.
func WriteSimilarNotes(w io.Writer, response *models.SimilarResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	if response.Source != "" {
		fmt.Fprintf(w, "\nNotes similar to %s (%d found in %dms)\n\n", response.Source, len(response.Notes), response.QueryTime)
	} else {
		fmt.Fprintf(w, "\nSimilar notes (%d found in %dms)\n\n", len(response.Notes), response.QueryTime)
	}
	if len(response.Notes) == 0 {
		fmt.Fprintln(w, "No similar notes found.")
		return nil
	}
	for _, note := range response.Notes {
		writeOneNote(w, note)
	}
	return nil
}

func writeOneNote(w io.Writer, note models.SimilarNote) {
	fmt.Fprintln(w, separator)
	title := note.Title
	if title == "" {
		title = note.Path
	}
	fmt.Fprintf(w, "%s  [%s]\n", title, MatchPercent(note.Score))
	fmt.Fprintf(w, "%s\n", note.Path)
	if snippet := strings.TrimSpace(note.Content); snippet != "" {
		fmt.Fprintf(w, "\n%s\n", utils.Truncate(snippet, 200))
	}
	fmt.Fprintln(w)
}

// MatchPercent renders a fused score as a whole-number percentage, e.g. "87% match".
func MatchPercent(score float64) string {
	return fmt.Sprintf("%d%% match", int(math.Round(score*100)))
}

// WritePrompts writes suggested prompts for a chain to w.
func WritePrompts(w io.Writer, chain string, picked []prompts.Prompt, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, map[string]interface{}{"chain": chain, "prompts": picked})
	}
	for i, p := range picked {
		fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, p.Title, p.Text)
	}
	return nil
}

// Status is the output of the status command.
type Status struct {
	Index          *store.Stats `json:"index"`
	DiskUsageBytes *int64       `json:"disk_usage_bytes,omitempty"`
	DatabasePath   string       `json:"database_path,omitempty"`
	BleveIndexPath string       `json:"bleve_index_path,omitempty"`
	VectorPath     string       `json:"vector_index_path,omitempty"`
	VaultRoot      string       `json:"vault_root,omitempty"`
}

// WriteStatus writes index status to w.
func WriteStatus(w io.Writer, status *Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	if status.Index != nil {
		fmt.Fprintf(w, "notes:              %d   # count of indexed notes\n", status.Index.Notes)
		fmt.Fprintf(w, "chunks:             %d   # count of text chunks\n", status.Index.Chunks)
		fmt.Fprintf(w, "keyword_docs:       %d   # documents in the keyword index\n", status.Index.KeywordDocs)
		fmt.Fprintf(w, "vectors:            %d   # vectors in the dense index\n", status.Index.Vectors)
	}
	if status.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d   # storage + indices on disk\n", *status.DiskUsageBytes)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# configuration")
	if status.Index != nil {
		fmt.Fprintf(w, "vector_index_type:  %s\n", status.Index.VectorIndex)
		fmt.Fprintf(w, "embedding_dims:     %d\n", status.Index.EmbeddingDim)
	}
	for _, kv := range [][2]string{
		{"database_path", status.DatabasePath},
		{"bleve_index_path", status.BleveIndexPath},
		{"vector_index_path", status.VectorPath},
		{"vault_root", status.VaultRoot},
	} {
		if kv[1] != "" {
			fmt.Fprintf(w, "%-19s %s\n", kv[0]+":", kv[1])
		}
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
