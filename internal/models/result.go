package models

// RankedResult is a fused retrieval hit. Score is the fused score in [0,1].
type RankedResult struct {
	DocumentID   string  `json:"document_id"`
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	Path         string  `json:"path"`
	Score        float64 `json:"score"`
	LexicalScore float64 `json:"lexical_score"`
	DenseScore   float64 `json:"dense_score"`
}

// SimilarNote is the caller-facing shape of a related note.
type SimilarNote struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Path    string  `json:"path"`
	Score   float64 `json:"score"`
}

// SimilarResponse is the response for a similar-notes request.
type SimilarResponse struct {
	Notes     []SimilarNote `json:"notes"`
	Source    string        `json:"source,omitempty"`
	QueryTime int64         `json:"query_time_ms"`
}
