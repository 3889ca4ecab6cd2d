// Package nlp holds the prompts and response parsing shared by the LLM-backed
// key phrase and entity extractors.
package nlp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/hoover/internal/domain"
)

// Extraction kinds, used as metric and cache labels.
const (
	KindKeyPhrases = "key_phrases"
	KindEntities   = "entities"
)

// KeyPhrasesPrompt asks for the salient noun phrases of the user text.
const KeyPhrasesPrompt = `You extract key phrases from questions about historical archive documents.
Return a JSON object {"key_phrases": ["..."]} listing the short noun phrases that summarize
the main talking points of the text. Copy every phrase exactly as it appears in the text,
keeping the original spelling and casing. Do not add phrases that are not in the text.`

// EntitiesPrompt asks for named entities with the exact substrings that mention them.
const EntitiesPrompt = `You recognize named entities (people, places, organizations, events, dates)
in questions about historical archive documents.
Return a JSON object {"entities": [{"name": "...", "category": "...", "matches": ["..."]}]}.
"name" is the canonical name of the entity. "matches" lists every substring of the text
that refers to the entity, copied exactly as typed. Return an empty list when there are none.`

type keyPhrasesResponse struct {
	KeyPhrases []string `json:"key_phrases"`
}

type entityDTO struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Matches  []string `json:"matches"`
}

type entitiesResponse struct {
	Entities []entityDTO `json:"entities"`
}

// ParseKeyPhrases decodes a model response produced for KeyPhrasesPrompt.
func ParseKeyPhrases(content string) ([]string, error) {
	var resp keyPhrasesResponse
	if err := decode(content, &resp); err != nil {
		return nil, err
	}
	if resp.KeyPhrases == nil {
		return []string{}, nil
	}
	return resp.KeyPhrases, nil
}

// ParseEntities decodes a model response produced for EntitiesPrompt.
func ParseEntities(content string) ([]domain.Entity, error) {
	var resp entitiesResponse
	if err := decode(content, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Entity, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		out = append(out, domain.Entity{Name: e.Name, Category: e.Category, Matches: e.Matches})
	}
	return out, nil
}

func decode(content string, v any) error {
	text := StripFences(content)
	if text == "" {
		return fmt.Errorf("empty model response: %w", domain.ErrNLPUnavailable)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("parse model response: %v: %w", err, domain.ErrNLPUnavailable)
	}
	return nil
}

// StripFences removes markdown code fences some models wrap JSON output in.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
