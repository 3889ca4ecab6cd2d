// Package query builds the search string sent to the document index.
package query

import (
	"strings"

	"github.com/kailas-cloud/hoover/internal/domain/term"
)

// Synthesize joins terms with single spaces. An empty result falls back to question.
func Synthesize(terms *term.Set, question string) string {
	if terms != nil {
		if q := strings.TrimSpace(terms.Join(" ")); q != "" {
			return q
		}
	}
	return question
}
