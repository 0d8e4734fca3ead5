package noteid

import (
	"strings"
	"testing"
)

func TestFromPath(t *testing.T) {
	id1 := FromPath("notes/bar.md")
	id2 := FromPath("notes/bar.md")
	if id1 != id2 {
		t.Errorf("same path should give same ID: %q vs %q", id1, id2)
	}
	if !strings.HasPrefix(id1, prefix) {
		t.Errorf("ID should have prefix %q: got %q", prefix, id1)
	}
	if len(id1) != len(prefix)+64 {
		t.Errorf("unexpected ID length: %q", id1)
	}
}

func TestFromPath_differentPaths(t *testing.T) {
	if FromPath("a/bar.md") == FromPath("a/baz.md") {
		t.Error("different paths should give different IDs")
	}
}

func TestFromPath_normalized(t *testing.T) {
	base := FromPath("notes/bar.md")
	for _, p := range []string{"./notes/bar.md", "notes//bar.md", "/notes/bar.md", "notes/x/../bar.md"} {
		if got := FromPath(p); got != base {
			t.Errorf("FromPath(%q) = %q, want %q", p, got, base)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{".", ""},
		{"a/b.md", "a/b.md"},
		{"./a/b.md", "a/b.md"},
		{"a/./b.md", "a/b.md"},
		{"/a/b.md", "a/b.md"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
