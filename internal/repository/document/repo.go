package document

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/hoover/internal/db"
	"github.com/kailas-cloud/hoover/internal/domain"
	domdoc "github.com/kailas-cloud/hoover/internal/domain/document"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase/ingest.Repository.
type Repo struct {
	store store
	index string
}

// New creates a document repository writing to the named index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// EnsureIndex creates the full-text index if it is missing. recreate drops an
// existing index first; stored documents are kept and reindexed.
func (r *Repo) EnsureIndex(ctx context.Context, recreate bool) (bool, error) {
	def, err := buildIndex(r.index)
	if err != nil {
		return false, err
	}

	if recreate {
		if err := r.store.DropIndex(ctx, r.index); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return false, fmt.Errorf("drop index %s: %w", r.index, err)
		}
	} else {
		exists, err := r.store.IndexExists(ctx, r.index)
		if err != nil {
			return false, fmt.Errorf("check index %s: %w", r.index, err)
		}
		if exists {
			return false, nil
		}
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", r.index, err)
	}
	return true, nil
}

// SaveBatch writes documents in one pipelined round-trip.
func (r *Repo) SaveBatch(ctx context.Context, docs []domdoc.Document) error {
	if len(docs) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(docs))
	for i := range docs {
		items[i] = db.HashSetItem{Key: docKey(docs[i].ID()), Fields: buildHashFields(&docs[i])}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save %d documents: %w", len(docs), err)
	}
	return nil
}

func docKey(id string) string {
	return domain.DocumentKeyPrefix + id
}

func buildIndex(name string) (*db.IndexDefinition, error) {
	return db.NewIndex(name).
		Prefix(domain.DocumentKeyPrefix).
		Text(domain.DocFieldContent).
		TextWeighted(domain.DocFieldName, 2).
		SortableNumeric(domain.DocFieldPages).
		Build()
}

func buildHashFields(doc *domdoc.Document) map[string]string {
	return map[string]string{
		domain.DocFieldContent:  doc.Content(),
		domain.DocFieldName:     doc.Name(),
		domain.DocFieldPages:    strconv.Itoa(doc.Pages()),
		domain.DocFieldEnriched: doc.Enriched(),
	}
}
