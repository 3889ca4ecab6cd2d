package document

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/hoover/internal/db"
	"github.com/kailas-cloud/hoover/internal/domain"
	domdoc "github.com/kailas-cloud/hoover/internal/domain/document"
)

func TestEnsureIndex_Creates(t *testing.T) {
	repo, ms := newTestRepo(t)

	var created *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		created = def
		return nil
	}

	ok, err := repo.EnsureIndex(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected index to be created")
	}
	if created.Name != "hoover-docs" || created.Prefixes[0] != domain.DocumentKeyPrefix {
		t.Errorf("unexpected definition: %+v", created)
	}
	if created.Fields[0].Name != domain.DocFieldContent || created.Fields[0].Type != db.IndexFieldText {
		t.Errorf("expected content TEXT first, got %+v", created.Fields[0])
	}
}

func TestEnsureIndex_Exists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(context.Context, string) (bool, error) { return true, nil }
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		t.Fatal("CreateIndex must not be called")
		return nil
	}

	ok, err := repo.EnsureIndex(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no creation")
	}
}

func TestEnsureIndex_RaceIsNotAnError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error { return db.ErrIndexExists }

	ok, err := repo.EnsureIndex(context.Background(), false)
	if err != nil || ok {
		t.Fatalf("expected (false, nil), got (%v, %v)", ok, err)
	}
}

func TestEnsureIndex_Recreate(t *testing.T) {
	repo, ms := newTestRepo(t)

	dropped := false
	ms.dropIndexFn = func(_ context.Context, name string) error {
		dropped = name == "hoover-docs"
		return db.ErrIndexNotFound
	}
	ms.indexExistsFn = func(context.Context, string) (bool, error) {
		t.Fatal("IndexExists must not be called on recreate")
		return false, nil
	}

	ok, err := repo.EnsureIndex(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dropped || !ok {
		t.Errorf("expected drop and create, got dropped=%v created=%v", dropped, ok)
	}
}

func TestEnsureIndex_DropError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.dropIndexFn = func(context.Context, string) error { return errors.New("boom") }

	if _, err := repo.EnsureIndex(context.Background(), true); err == nil {
		t.Fatal("expected error")
	}
}

func TestSaveBatch(t *testing.T) {
	repo, ms := newTestRepo(t)

	var items []db.HashSetItem
	ms.hsetMultiFn = func(_ context.Context, got []db.HashSetItem) error {
		items = got
		return nil
	}

	docs := []domdoc.Document{newDoc(t, "a", "text a", 3), newDoc(t, "b", "text b", 1)}
	if err := repo.SaveBatch(context.Background(), docs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Key != "hoover:doc:a" {
		t.Errorf("unexpected key: %q", items[0].Key)
	}
	f := items[0].Fields
	if f[domain.DocFieldContent] != "text a" || f[domain.DocFieldPages] != "3" ||
		f[domain.DocFieldName] != "a.pdf" || f[domain.DocFieldEnriched] != docs[0].Enriched() {
		t.Errorf("unexpected fields: %v", f)
	}
}

func TestSaveBatch_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetMultiFn = func(context.Context, []db.HashSetItem) error {
		t.Fatal("HSetMulti must not be called")
		return nil
	}
	if err := repo.SaveBatch(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
