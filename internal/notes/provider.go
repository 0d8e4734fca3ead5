// Package notes resolves the note a similar-notes query originates from.
package notes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hyperjump/ruiji/internal/noteid"
)

// ErrNoActiveNote is returned when there is no note to query from.
var ErrNoActiveNote = errors.New("no active note")

// ActiveNote is the note currently open in the caller's context.
type ActiveNote struct {
	Path    string
	Title   string
	Content string
}

// ActiveNoteProvider yields the active note.
type ActiveNoteProvider interface {
	ActiveNote(ctx context.Context) (*ActiveNote, error)
}

// VaultProvider reads the active note from a vault directory on disk.
type VaultProvider struct {
	Root string
	// Path is vault-relative. Empty means no note is open.
	Path string
}

// ActiveNote reads the note file. A missing file or empty Path yields ErrNoActiveNote.
// Paths that resolve outside Root are rejected.
func (p VaultProvider) ActiveNote(ctx context.Context) (*ActiveNote, error) {
	rel := noteid.NormalizePath(p.Path)
	if rel == "" {
		return nil, ErrNoActiveNote
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, fmt.Errorf("note path %q escapes vault root", p.Path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(p.Root, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", rel, ErrNoActiveNote)
		}
		return nil, fmt.Errorf("read note %s: %w", rel, err)
	}
	return &ActiveNote{
		Path:    rel,
		Title:   TitleFromPath(rel),
		Content: string(data),
	}, nil
}

// StaticProvider returns a fixed note. A nil Note yields ErrNoActiveNote.
type StaticProvider struct {
	Note *ActiveNote
}

// ActiveNote returns a copy of the fixed note.
func (p StaticProvider) ActiveNote(context.Context) (*ActiveNote, error) {
	if p.Note == nil {
		return nil, ErrNoActiveNote
	}
	n := *p.Note
	n.Path = noteid.NormalizePath(n.Path)
	return &n, nil
}

// TitleFromPath returns the file name of a note path without its extension.
func TitleFromPath(p string) string {
	base := path.Base(filepath.ToSlash(p))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
