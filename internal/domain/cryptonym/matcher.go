package cryptonym

import (
	"regexp"

	"github.com/kailas-cloud/hoover/internal/domain/term"
	"github.com/kailas-cloud/hoover/internal/domain/textcase"
)

var wordRe = regexp.MustCompile(`\b\w+\b`)

// Answer is an inline reply for a cryptonym found in a question.
type Answer struct {
	Code       string
	Definition string
}

// Match is the outcome of scanning one question.
type Match struct {
	// Question with every recognized code name uppercased in place.
	Question string
	Terms    *term.Set
	// Answers in discovery order, one per distinct code name.
	Answers []Answer
}

// Found reports whether any cryptonym was recognized.
func (m Match) Found() bool { return len(m.Answers) > 0 }

// Matcher scans questions against a Dictionary.
type Matcher struct {
	dict *Dictionary
}

// NewMatcher creates a Matcher over dict.
func NewMatcher(dict *Dictionary) *Matcher {
	return &Matcher{dict: dict}
}

// Match finds dictionary code names in question. No match returns the question unchanged.
func (m *Matcher) Match(question string) Match {
	res := Match{Question: question, Terms: term.NewSet()}
	replaced := make(map[string]struct{})

	for _, word := range wordRe.FindAllString(question, -1) {
		code := textcase.Upper(word)
		def, ok := m.dict.Lookup(code)
		if !ok {
			continue
		}

		if _, done := replaced[word]; !done && word != code {
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
			res.Question = re.ReplaceAllLiteralString(res.Question, code)
		}
		replaced[word] = struct{}{}

		if res.Terms.Add(code) {
			res.Answers = append(res.Answers, Answer{Code: code, Definition: def})
		}
	}
	return res
}
