package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/ruiji/internal/noteid"
	"github.com/hyperjump/ruiji/internal/storage"
)

// StorageProvider resolves the active note from the indexed copy in storage.
// Used when no vault directory is configured.
type StorageProvider struct {
	Storage storage.Storage
	Path    string
}

// ActiveNote loads the stored note at Path. An unknown path yields ErrNoActiveNote.
func (p StorageProvider) ActiveNote(ctx context.Context) (*ActiveNote, error) {
	rel := noteid.NormalizePath(p.Path)
	if rel == "" {
		return nil, ErrNoActiveNote
	}
	note, err := p.Storage.GetNoteByPath(ctx, rel)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", rel, ErrNoActiveNote)
	}
	if err != nil {
		return nil, fmt.Errorf("load note %s: %w", rel, err)
	}
	title := note.Title
	if title == "" {
		title = TitleFromPath(rel)
	}
	return &ActiveNote{Path: note.Path, Title: title, Content: note.Content}, nil
}

// Select picks where the active note comes from: inline text, the vault on disk,
// or the indexed copy in st.
func Select(vaultRoot string, st storage.Storage, path, text string) ActiveNoteProvider {
	if text != "" {
		return StaticProvider{Note: &ActiveNote{Path: path, Content: text}}
	}
	if vaultRoot != "" {
		return VaultProvider{Root: vaultRoot, Path: path}
	}
	return StorageProvider{Storage: st, Path: path}
}
