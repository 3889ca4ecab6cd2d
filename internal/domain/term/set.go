// Package term holds the search term set and the rules that decide which
// words extracted from a question become search terms.
package term

import "strings"

// Set is an insertion-ordered set of search terms. Values are case-sensitive.
// The zero value is ready to use. Not safe for concurrent mutation.
type Set struct {
	order []string
	index map[string]struct{}
}

// NewSet creates a set holding terms in the given order.
func NewSet(terms ...string) *Set {
	s := &Set{}
	for _, t := range terms {
		s.Add(t)
	}
	return s
}

// Add inserts t and reports whether it was absent.
func (s *Set) Add(t string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[t]; ok {
		return false
	}
	s.index[t] = struct{}{}
	s.order = append(s.order, t)
	return true
}

// Union adds every term of other, keeping other's order.
func (s *Set) Union(other *Set) {
	if other == nil {
		return
	}
	for _, t := range other.order {
		s.Add(t)
	}
}

// Contains reports whether t is present (exact match).
func (s *Set) Contains(t string) bool {
	_, ok := s.index[t]
	return ok
}

// Len returns the number of terms.
func (s *Set) Len() int { return len(s.order) }

// Terms returns a copy of the terms in insertion order.
func (s *Set) Terms() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Join joins the terms with sep in insertion order.
func (s *Set) Join(sep string) string {
	return strings.Join(s.order, sep)
}
