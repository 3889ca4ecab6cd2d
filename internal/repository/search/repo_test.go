package search

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/hoover/internal/db"
	"github.com/kailas-cloud/hoover/internal/domain"
)

func TestSearch_Success(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got *db.TextQuery
	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		got = q
		return &db.SearchResult{
			Total: 120,
			Entries: []db.SearchEntry{
				{Key: "hoover:doc:1", Score: 4.2, Fields: map[string]string{domain.DocFieldEnriched: `{"x":1}`}},
				{Key: "hoover:doc:2", Score: 1.1, Fields: map[string]string{}},
			},
		}, nil
	}

	set, err := repo.Search(context.Background(), "GPIDEAL  Oswald Cuba", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.IndexName != "hoover-docs" || got.Limit != 10 {
		t.Errorf("unexpected query: %+v", got)
	}
	if !slices.Equal(got.Terms, []string{"GPIDEAL", "Oswald", "Cuba"}) {
		t.Errorf("unexpected terms: %v", got.Terms)
	}
	if !slices.Equal(got.ReturnFields, []string{domain.DocFieldEnriched}) {
		t.Errorf("unexpected return fields: %v", got.ReturnFields)
	}

	if set.Total() != 120 {
		t.Errorf("expected total 120, got %d", set.Total())
	}
	hits := set.Hits()
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID() != "hoover:doc:1" || hits[0].Enriched() != `{"x":1}` {
		t.Errorf("unexpected first hit: %+v", hits[0])
	}
	if hits[1].Enriched() != "" {
		t.Errorf("expected empty payload for missing field, got %q", hits[1].Enriched())
	}
}

func TestSearch_PunctuationSeparatesTerms(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got []string
	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		got = q.Terms
		return &db.SearchResult{}, nil
	}

	if _, err := repo.Search(context.Background(), "Who killed Kennedy?", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []string{"Who", "killed", "Kennedy"}) {
		t.Errorf("unexpected terms: %q", got)
	}
}

func TestSearch_PunctuationOnly(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchTextFn = func(context.Context, *db.TextQuery) (*db.SearchResult, error) {
		t.Fatal("store must not be called")
		return nil, nil
	}

	set, err := repo.Search(context.Background(), " ?! ", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Total() != 0 {
		t.Errorf("expected empty set, got %d", set.Total())
	}
}

func TestSearch_BlankQuery(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchTextFn = func(context.Context, *db.TextQuery) (*db.SearchResult, error) {
		t.Fatal("store must not be called")
		return nil, nil
	}

	set, err := repo.Search(context.Background(), "   ", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Hits()) != 0 || set.Total() != 0 {
		t.Errorf("expected empty set, got %+v", set)
	}
}

func TestSearch_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	storeErr := &db.Error{Op: db.OpSearch, Err: errors.New("connection reset")}
	ms.searchTextFn = func(context.Context, *db.TextQuery) (*db.SearchResult, error) {
		return nil, storeErr
	}

	_, err := repo.Search(context.Background(), "Oswald", 10)
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected wrapped db.Error, got %v", err)
	}
}
