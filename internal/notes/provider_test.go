package notes

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestVaultProvider(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "daily"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "daily", "today.md"), []byte("# Today\nwrote code"), 0600); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	note, err := VaultProvider{Root: root, Path: "./daily/today.md"}.ActiveNote(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if note.Path != "daily/today.md" || note.Title != "today" || note.Content != "# Today\nwrote code" {
		t.Errorf("unexpected note %+v", note)
	}

	tests := []struct {
		name       string
		path       string
		wantNoNote bool
	}{
		{"empty path", "", true},
		{"missing file", "daily/missing.md", true},
		{"escapes root", "../secret.md", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VaultProvider{Root: root, Path: tt.path}.ActiveNote(ctx)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrNoActiveNote); got != tt.wantNoNote {
				t.Errorf("errors.Is(ErrNoActiveNote) = %v, want %v (%v)", got, tt.wantNoNote, err)
			}
		})
	}
}

func TestStaticProvider(t *testing.T) {
	ctx := context.Background()
	if _, err := (StaticProvider{}).ActiveNote(ctx); !errors.Is(err, ErrNoActiveNote) {
		t.Errorf("nil note should be ErrNoActiveNote, got %v", err)
	}
	src := &ActiveNote{Path: "a//b.md", Content: "text"}
	got, err := StaticProvider{Note: src}.ActiveNote(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Path != "a/b.md" || got.Content != "text" {
		t.Errorf("got %+v", got)
	}
	if src.Path != "a//b.md" {
		t.Error("provider must not modify its note")
	}
}

func TestTitleFromPath(t *testing.T) {
	tests := map[string]string{
		"a/b/Weekly Review.md": "Weekly Review",
		"plain":                "plain",
		"archive.tar.gz":       "archive.tar",
		"":                     "",
	}
	for in, want := range tests {
		if got := TitleFromPath(in); got != want {
			t.Errorf("TitleFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
