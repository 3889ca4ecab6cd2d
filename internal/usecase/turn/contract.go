package turn

import (
	"context"

	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/domain/search/result"
)

// Extractor returns key phrases and entities for a question.
type Extractor interface {
	KeyPhrases(ctx context.Context, text string) ([]string, error)
	Entities(ctx context.Context, text string) ([]domain.Entity, error)
}

// Searcher runs a query to completion, calling progress while it waits.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int, progress func()) (result.Set, error)
}

// GreetedSet records greeted members. MarkGreeted reports true only the first time.
type GreetedSet interface {
	MarkGreeted(ctx context.Context, conversationID, memberID string) (bool, error)
}

// Sink delivers outbound activities to the channel the turn came from.
type Sink interface {
	Emit(ctx context.Context, a Outbound) error
}
