// Package cryptonym detects known code names in a question and expands them into
// direct answers and search terms.
package cryptonym

import "github.com/kailas-cloud/hoover/internal/domain/textcase"

// Dictionary maps uppercase code names to plaintext definitions.
// Immutable after New; safe for concurrent reads.
type Dictionary struct {
	entries map[string]string
}

// New builds a Dictionary. Codes are uppercased; empty codes are ignored.
func New(entries map[string]string) *Dictionary {
	d := &Dictionary{entries: make(map[string]string, len(entries))}
	for code, def := range entries {
		if code == "" {
			continue
		}
		d.entries[textcase.Upper(code)] = def
	}
	return d
}

// Lookup returns the definition for an uppercase code.
func (d *Dictionary) Lookup(code string) (string, bool) {
	def, ok := d.entries[code]
	return def, ok
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.entries) }
