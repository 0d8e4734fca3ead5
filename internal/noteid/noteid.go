// Package noteid provides deterministic note and chunk IDs derived from vault-relative paths.
package noteid

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"path/filepath"
	"strings"
)

const prefix = "note:"

// NormalizePath returns the canonical form of a vault-relative path: forward slashes,
// cleaned, without a leading "./" or "/".
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	cleaned := path.Clean(filepath.ToSlash(p))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "." {
		return ""
	}
	return cleaned
}

// FromPath returns a stable note ID for the given path.
// Paths that normalize the same yield the same ID.
func FromPath(p string) string {
	hash := sha256.Sum256([]byte(NormalizePath(p)))
	return prefix + hex.EncodeToString(hash[:])
}
