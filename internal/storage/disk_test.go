package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsageBytes(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ruiji.db")
	bleveDir := filepath.Join(dir, "bleve", "store")
	if err := os.MkdirAll(bleveDir, 0755); err != nil {
		t.Fatal(err)
	}
	mustWrite := func(p, data string) {
		t.Helper()
		if err := os.WriteFile(p, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite(db, "hello")
	mustWrite(filepath.Join(dir, "bleve", "index_meta.json"), "ab")
	mustWrite(filepath.Join(bleveDir, "root.bolt"), "c")

	tests := []struct {
		name  string
		paths []string
		want  int64
	}{
		{"single file", []string{db}, 5},
		{"nested dir", []string{filepath.Join(dir, "bleve")}, 3},
		{"file and dir", []string{db, filepath.Join(dir, "bleve")}, 8},
		{"missing skipped", []string{db, filepath.Join(dir, "vectors.bin")}, 5},
		{"empty and memory skipped", []string{"", ":memory:", db}, 5},
		{"none", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiskUsageBytes(tt.paths...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %d bytes, want %d", got, tt.want)
			}
		})
	}
}
