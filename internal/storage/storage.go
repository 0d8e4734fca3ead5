// Package storage defines the persistence interface for notes and their chunks.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/ruiji/internal/models"
)

// ErrNotFound is returned when a note or chunk does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines note and chunk persistence operations.
type Storage interface {
	// Note operations
	CreateNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, id string) (*models.Note, error)
	GetNoteByPath(ctx context.Context, path string) (*models.Note, error)
	// DeleteNote removes a note and its chunks.
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context, offset, limit int) ([]*models.Note, error)

	// Chunk operations
	BatchCreateChunks(ctx context.Context, chunks []*models.Document) error
	GetChunk(ctx context.Context, id string) (*models.Document, error)
	GetChunksByNoteID(ctx context.Context, noteID string) ([]*models.Document, error)
	DeleteChunksByNoteID(ctx context.Context, noteID string) error

	// Stats
	CountNotes(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)

	Close() error
}
