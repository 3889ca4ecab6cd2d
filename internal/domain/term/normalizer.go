package term

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/hoover/internal/domain/textcase"
)

// DefaultStopwords are never used in a query even when present in a question.
var DefaultStopwords = []string{
	"what", "who", "whom", "which", "when", "how", "was", "does", "this", "that", "the",
	"mean", "means", "meaning", "cryptonym", "crypt", "code", "name", "word", "codename", "codeword",
}

// Defaults for Rules.
var (
	DefaultPossessiveSuffixes = []string{"'s", "’s"}
	DefaultTrailingMarks      = []string{"'", "’"}
	DefaultLowValueSuffixes   = []string{"ment", "ion"}
)

// DefaultMinLength is the shortest word kept as a term.
const DefaultMinLength = 3

// Rules configures a Normalizer. Empty fields take the package defaults.
type Rules struct {
	Stopwords          []string
	PossessiveSuffixes []string
	TrailingMarks      []string
	LowValueSuffixes   []string
	MinLength          int
}

// Normalizer decides whether a word extracted by the NLP service becomes a search term.
// Immutable after construction; safe for concurrent use.
type Normalizer struct {
	stopwords   map[string]struct{}
	possessives []string
	marks       []string
	lowValue    []string
	minLength   int
}

// NewNormalizer builds a Normalizer from rules.
func NewNormalizer(r Rules) *Normalizer {
	if r.Stopwords == nil {
		r.Stopwords = DefaultStopwords
	}
	if r.PossessiveSuffixes == nil {
		r.PossessiveSuffixes = DefaultPossessiveSuffixes
	}
	if r.TrailingMarks == nil {
		r.TrailingMarks = DefaultTrailingMarks
	}
	if r.LowValueSuffixes == nil {
		r.LowValueSuffixes = DefaultLowValueSuffixes
	}
	if r.MinLength <= 0 {
		r.MinLength = DefaultMinLength
	}

	stop := make(map[string]struct{}, len(r.Stopwords))
	for _, w := range r.Stopwords {
		stop[textcase.Lower(w)] = struct{}{}
	}

	return &Normalizer{
		stopwords:   stop,
		possessives: r.PossessiveSuffixes,
		marks:       r.TrailingMarks,
		lowValue:    r.LowValueSuffixes,
		minLength:   r.MinLength,
	}
}

// IsStopword reports whether w (any case) is a stopword.
func (n *Normalizer) IsStopword(w string) bool {
	_, ok := n.stopwords[textcase.Lower(w)]
	return ok
}

// Normalize applies the term rules to word. It returns the word to add
// (original casing preserved) and false when the word is excluded.
// existing may be nil.
func (n *Normalizer) Normalize(word string, existing *Set) (string, bool) {
	word = n.trim(word)

	if utf8.RuneCountInString(word) < n.minLength {
		return "", false
	}
	for _, suffix := range n.lowValue {
		if strings.HasSuffix(word, suffix) {
			return "", false
		}
	}
	if existing != nil && existing.Contains(textcase.Upper(word)) {
		return "", false
	}
	if n.IsStopword(word) {
		return "", false
	}
	return word, true
}

// AddWords normalizes every whitespace-delimited word of text into terms.
func (n *Normalizer) AddWords(text string, terms *Set) {
	for _, w := range strings.Fields(text) {
		if t, ok := n.Normalize(w, terms); ok {
			terms.Add(t)
		}
	}
}

// trim removes the possessive "s" and then a single trailing mark.
func (n *Normalizer) trim(word string) string {
	for _, suffix := range n.possessives {
		if strings.HasSuffix(word, suffix) {
			word = strings.TrimSuffix(word, "s")
			break
		}
	}
	for _, mark := range n.marks {
		if strings.HasSuffix(word, mark) {
			return strings.TrimSuffix(word, mark)
		}
	}
	return word
}
