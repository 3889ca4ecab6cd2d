package ingest

import (
	"context"

	domdoc "github.com/kailas-cloud/hoover/internal/domain/document"
)

// DocumentRepository stores documents in the search index.
type DocumentRepository interface {
	EnsureIndex(ctx context.Context, recreate bool) (bool, error)
	SaveBatch(ctx context.Context, docs []domdoc.Document) error
}

// CryptonymRepository replaces the stored cryptonym dictionary.
type CryptonymRepository interface {
	Replace(ctx context.Context, entries map[string]string) error
}
