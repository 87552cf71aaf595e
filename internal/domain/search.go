package domain

import "strings"

// MaxSearchResults caps every contacts query. There is no pagination.
const MaxSearchResults = 20

// ContactFilter selects contacts whose name contains Term (case-insensitive)
// or whose phone contains Term. Term is matched literally: LIKE wildcards
// in user input carry no special meaning.
type ContactFilter struct {
	Term string
}

// NewContactFilter builds a filter from raw user input, trimming surrounding
// whitespace. The second return value is false when nothing is left to match.
func NewContactFilter(raw string) (ContactFilter, bool) {
	term := strings.TrimSpace(raw)
	return ContactFilter{Term: term}, term != ""
}

// ClampLimit returns a usable row limit: non-positive values and values above
// MaxSearchResults fall back to MaxSearchResults.
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxSearchResults {
		return MaxSearchResults
	}
	return limit
}

// SearchStatus tells the caller how to present a search result.
// NotFound and Failed both carry no rows but must be shown differently.
type SearchStatus string

const (
	SearchEmptyQuery SearchStatus = "empty_query"
	SearchFound      SearchStatus = "found"
	SearchNotFound   SearchStatus = "not_found"
	SearchFailed     SearchStatus = "failed"
)

// SearchResult is the outcome of one search. Contacts is never nil.
// Err is set only when Status is SearchFailed.
type SearchResult struct {
	Query    string
	Status   SearchStatus
	Contacts []Contact
	Err      error
}
