package search

import (
	"context"

	"github.com/kailas-cloud/hoover/internal/domain/search/result"
)

// Repository runs one query against the document index.
type Repository interface {
	Search(ctx context.Context, query string, limit int) (result.Set, error)
}
