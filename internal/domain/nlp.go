package domain

import (
	"context"
	"fmt"
	"strings"
)

// Entity is a named real-world object recognized in a text.
type Entity struct {
	Name     string
	Category string
	// Matches are the substrings of the input that triggered recognition.
	Matches []string
}

// Extractor is the NLP contract shared between layers.
type Extractor interface {
	KeyPhrases(ctx context.Context, text string) ([]string, error)
	Entities(ctx context.Context, text string) ([]Entity, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// GroundedExtractor is a domain decorator that keeps only output present in the
// input text. Generative providers sometimes return matches the user never typed.
type GroundedExtractor struct {
	inner Extractor
}

// NewGroundedExtractor wraps inner.
func NewGroundedExtractor(inner Extractor) *GroundedExtractor {
	return &GroundedExtractor{inner: inner}
}

// KeyPhrases drops blank phrases.
func (e *GroundedExtractor) KeyPhrases(ctx context.Context, text string) ([]string, error) {
	phrases, err := e.inner.KeyPhrases(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("grounded key phrases: %w", err)
	}
	out := phrases[:0:0]
	for _, p := range phrases {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// Entities drops matches that are not substrings of text, and entities left without matches.
func (e *GroundedExtractor) Entities(ctx context.Context, text string) ([]Entity, error) {
	entities, err := e.inner.Entities(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("grounded entities: %w", err)
	}
	out := make([]Entity, 0, len(entities))
	for _, ent := range entities {
		var matches []string
		for _, m := range ent.Matches {
			if m != "" && strings.Contains(text, m) {
				matches = append(matches, m)
			}
		}
		if len(matches) == 0 {
			continue
		}
		ent.Matches = matches
		out = append(out, ent)
	}
	return out, nil
}
