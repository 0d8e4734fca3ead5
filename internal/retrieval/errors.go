package retrieval

import "errors"

var (
	// ErrIndexEmpty is returned when the index has no entries. No search is issued.
	ErrIndexEmpty = errors.New("index is empty")
	// ErrNoQuerySource is returned when there is no query text to retrieve for.
	ErrNoQuerySource = errors.New("no query text")
)

// Stable error codes for callers that render or serialize retrieval failures.
const (
	CodeIndexEmpty    = "INDEX_EMPTY"
	CodeNoQuerySource = "NO_QUERY_SOURCE"
)

// Code returns the stable code for a retrieval error, or "" for errors the retriever
// does not classify (backend failures).
func Code(err error) string {
	switch {
	case errors.Is(err, ErrIndexEmpty):
		return CodeIndexEmpty
	case errors.Is(err, ErrNoQuerySource):
		return CodeNoQuerySource
	default:
		return ""
	}
}
