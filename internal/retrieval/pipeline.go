package retrieval

import (
	"sort"
	"unicode/utf8"

	"github.com/hyperjump/ruiji/internal/models"
	"github.com/hyperjump/ruiji/internal/noteid"
)

// Truncate returns text cut to at most maxChars characters (runes). maxChars <= 0 disables truncation.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	n := 0
	for i := range text {
		if n == maxChars {
			return text[:i]
		}
		n++
	}
	return text
}

// ExcludePath drops results belonging to the note at sourcePath. An empty sourcePath excludes nothing.
func ExcludePath(results []models.RankedResult, sourcePath string) []models.RankedResult {
	source := noteid.NormalizePath(sourcePath)
	if source == "" {
		return results
	}
	out := make([]models.RankedResult, 0, len(results))
	for _, r := range results {
		if noteid.NormalizePath(r.Path) == source {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterByScore drops results scoring below minScore.
func FilterByScore(results []models.RankedResult, minScore float64) []models.RankedResult {
	out := make([]models.RankedResult, 0, len(results))
	for _, r := range results {
		if r.Score >= minScore {
			out = append(out, r)
		}
	}
	return out
}

// CollapseByPath keeps the best-scoring result per note path. Kept results stay in
// their input order; on equal scores the earlier result wins.
func CollapseByPath(results []models.RankedResult) []models.RankedResult {
	best := make(map[string]int, len(results))
	for i, r := range results {
		key := noteid.NormalizePath(r.Path)
		if j, ok := best[key]; !ok || r.Score > results[j].Score {
			best[key] = i
		}
	}
	out := make([]models.RankedResult, 0, len(best))
	for i, r := range results {
		if best[noteid.NormalizePath(r.Path)] == i {
			out = append(out, r)
		}
	}
	return out
}

// Rank sorts results by score descending, keeping input order for ties, and truncates to maxK.
// maxK <= 0 keeps all results.
func Rank(results []models.RankedResult, maxK int) []models.RankedResult {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if maxK > 0 && len(results) > maxK {
		results = results[:maxK]
	}
	return results
}
