package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/hoover/internal/db"
	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/domain/search/result"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository over a full-text index of enriched documents.
type Repo struct {
	store store
	index string
}

// New creates a search repository over the named index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// Search matches any word of query against document text and returns the top
// limit hits with the total match count. Punctuation separates words.
func (r *Repo) Search(ctx context.Context, query string, limit int) (result.Set, error) {
	terms := db.Tokenize(query)
	if len(terms) == 0 {
		return result.NewSet(nil, 0), nil
	}

	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    r.index,
		Terms:        terms,
		Limit:        limit,
		ReturnFields: []string{domain.DocFieldEnriched},
	})
	if err != nil {
		return result.Set{}, fmt.Errorf("search %s: %w", r.index, err)
	}

	hits := make([]result.Result, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		hits = append(hits, result.New(e.Key, e.Score, e.Fields[domain.DocFieldEnriched]))
	}
	return result.NewSet(hits, sr.Total), nil
}
