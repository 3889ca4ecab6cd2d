package document

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/kailas-cloud/hoover/internal/db"
	domdoc "github.com/kailas-cloud/hoover/internal/domain/document"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "hoover-docs"), ms
}

func newDoc(t *testing.T, id, text string, pages int) domdoc.Document {
	t.Helper()
	thumbs := make([]string, pages)
	for i := range thumbs {
		thumbs[i] = fmt.Sprintf("https://img/%s/%d.jpg", id, i)
	}
	data, err := json.Marshal(map[string]any{
		"/document/finalText":                         text,
		"/document/normalized_images/*/imageStoreUri": thumbs,
		"/document": map[string]string{
			"metadata_storage_path":      "https://store/docs/" + id + ".pdf",
			"metadata_storage_sas_token": "sig=1",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := domdoc.New(id, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}
