// Package textcase provides Unicode-aware upper/lower casing safe for concurrent use.
package textcase

import (
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// cases.Caser is stateful, so each call borrows one from a pool.
var (
	upperPool = sync.Pool{New: func() any { c := cases.Upper(language.Und); return &c }}
	lowerPool = sync.Pool{New: func() any { c := cases.Lower(language.Und); return &c }}
)

// Upper returns s in upper case.
func Upper(s string) string {
	return apply(&upperPool, s)
}

// Lower returns s in lower case.
func Lower(s string) string {
	return apply(&lowerPool, s)
}

func apply(pool *sync.Pool, s string) string {
	if s == "" {
		return s
	}
	c := pool.Get().(*cases.Caser)
	out := c.String(s)
	c.Reset()
	pool.Put(c)
	return out
}
