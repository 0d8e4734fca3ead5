package indexer

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// SplitFrontmatter separates a leading YAML frontmatter block ("---" lines) from the
// note body. Malformed or unterminated frontmatter is left in the body.
func SplitFrontmatter(text string) (map[string]interface{}, string) {
	trimmed := strings.TrimPrefix(text, "\uFEFF")
	if !strings.HasPrefix(trimmed, frontmatterDelim) {
		return nil, text
	}
	lines := strings.SplitAfter(trimmed, "\n")
	if strings.TrimSpace(lines[0]) != frontmatterDelim {
		return nil, text
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != frontmatterDelim {
			continue
		}
		raw := strings.Join(lines[1:i], "")
		var meta map[string]interface{}
		if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
			return nil, text
		}
		return meta, strings.Join(lines[i+1:], "")
	}
	return nil, text
}

// normalizeTitleForKeywordSearch replaces underscores with spaces so the standard
// analyzer splits titles like "weekly_review_2024" into words.
func normalizeTitleForKeywordSearch(title string) string {
	return strings.ReplaceAll(title, "_", " ")
}
