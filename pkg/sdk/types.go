package hoover

import (
	"context"

	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/usecase/turn"
)

// MessageKind distinguishes streamed messages.
type MessageKind string

// Message kinds.
const (
	KindMessage MessageKind = "message"
	KindTyping  MessageKind = "typing"
)

// Message is one reply to a question, in the order the bot produced it.
type Message struct {
	Kind MessageKind
	// Text is markdown.
	Text         string
	Speech       string
	Documents    []Document
	DigDeeperURL string
}

// Document is one search result card.
type Document struct {
	ThumbnailURL string
	Excerpt      string
	URL          string
}

// Entity is a named object recognized in a question.
type Entity struct {
	Name     string
	Category string
	// Matches are the substrings of the question that triggered recognition.
	Matches []string
}

// Extractor finds key phrases and entities in a question.
type Extractor interface {
	KeyPhrases(ctx context.Context, text string) ([]string, error)
	Entities(ctx context.Context, text string) ([]Entity, error)
}

func messageFromOutbound(a turn.Outbound) Message {
	if a.Type != turn.TypeMessage {
		return Message{Kind: MessageKind(a.Type)}
	}
	m := Message{
		Kind:         KindMessage,
		Text:         a.Reply.DisplayText,
		Speech:       a.Reply.SpeechText,
		DigDeeperURL: a.Reply.DigDeeperURL,
	}
	if len(a.Reply.Cards) > 0 {
		m.Documents = make([]Document, len(a.Reply.Cards))
		for i, c := range a.Reply.Cards {
			m.Documents[i] = Document{ThumbnailURL: c.ThumbnailURL, Excerpt: c.Excerpt, URL: c.ActionURL}
		}
	}
	return m
}

// extractorAdapter wraps a public Extractor to satisfy domain.Extractor.
type extractorAdapter struct {
	inner Extractor
}

func (a *extractorAdapter) KeyPhrases(ctx context.Context, text string) ([]string, error) {
	phrases, err := a.inner.KeyPhrases(ctx, text)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by the grounding decorator
	}
	return phrases, nil
}

func (a *extractorAdapter) Entities(ctx context.Context, text string) ([]domain.Entity, error) {
	entities, err := a.inner.Entities(ctx, text)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by the grounding decorator
	}
	out := make([]domain.Entity, len(entities))
	for i, e := range entities {
		out[i] = domain.Entity{Name: e.Name, Category: e.Category, Matches: e.Matches}
	}
	return out, nil
}
