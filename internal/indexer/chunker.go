// Package indexer provides note chunking and indexing.
package indexer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperjump/ruiji/internal/models"
)

// Chunker splits markdown notes into overlapping word windows. A window never spans
// two heading sections, so every chunk stays about one topic of the note.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in words).
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 1
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Chunk splits the note body into Documents. Every chunk carries the note's ID, path
// and title; ChunkIndex counts chunks across all sections.
func (c *Chunker) Chunk(note *models.Note) []*models.Document {
	var chunks []*models.Document
	for _, section := range splitSections(note.Content) {
		for _, text := range c.windows(strings.Fields(section)) {
			chunks = append(chunks, &models.Document{
				ID:         fmt.Sprintf("%s_%s", note.ID, uuid.New().String()[:8]),
				NoteID:     note.ID,
				Path:       note.Path,
				Title:      note.Title,
				Content:    text,
				ChunkIndex: len(chunks),
			})
		}
	}
	return chunks
}

func (c *Chunker) windows(words []string) []string {
	if len(words) == 0 {
		return nil
	}
	step := c.chunkSize - c.chunkOverlap
	if step <= 0 {
		step = 1
	}
	out := make([]string, 0, len(words)/step+1)
	for i := 0; i < len(words); i += step {
		end := min(i+c.chunkSize, len(words))
		out = append(out, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return out
}

// splitSections cuts markdown at ATX headings ("# ", "## ", ...). Each section starts with
// its heading line. Lines inside ``` or ~~~ fences are never headings.
func splitSections(text string) []string {
	var (
		sections []string
		current  strings.Builder
		fence    string
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sections = append(sections, s)
		}
		current.Reset()
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case fence != "":
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
		case strings.HasPrefix(trimmed, "```"):
			fence = "```"
		case strings.HasPrefix(trimmed, "~~~"):
			fence = "~~~"
		case isHeading(trimmed):
			flush()
		}
		current.WriteString(line)
	}
	flush()
	return sections
}

func isHeading(line string) bool {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	return level >= 1 && level <= 6 && (level == len(line) || line[level] == ' ')
}
