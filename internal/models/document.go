// Package models defines core data structures for notes, chunks, and retrieval results.
package models

import "time"

// Note is a stored source note. A note is split into one or more Documents for indexing.
type Note struct {
	ID        string                 `json:"id" db:"id"`
	Path      string                 `json:"path" db:"path"`
	Title     string                 `json:"title" db:"title"`
	Content   string                 `json:"content" db:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt time.Time              `json:"updated_at" db:"updated_at"`
}

// Document is one indexed chunk of a note. Path is not unique: a note may be split
// into several Documents. Embedding is owned by the vector index and never mutated.
type Document struct {
	ID         string    `json:"id" db:"id"`
	NoteID     string    `json:"note_id" db:"note_id"`
	Path       string    `json:"path" db:"path"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	Embedding  []float32 `json:"-" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NoteInput is the input for indexing a note.
type NoteInput struct {
	Path     string                 `json:"path"`
	Title    string                 `json:"title,omitempty"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
