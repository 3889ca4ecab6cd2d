package db

import (
	"strings"
	"unicode"
)

// TextQuery is the input for a full-text search.
type TextQuery struct {
	IndexName string
	// Field restricts matching to one TEXT field; empty searches all TEXT fields.
	Field string
	// Terms are OR'ed; any matching term makes a document a hit.
	Terms        []string
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// Tokenize splits text into the words the full-text index stores. Letters,
// digits and '_' form words; every other rune separates them.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
