package domain

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type stubExtractor struct {
	phrases  []string
	entities []Entity
	err      error
}

func (s *stubExtractor) KeyPhrases(_ context.Context, _ string) ([]string, error) {
	return s.phrases, s.err
}

func (s *stubExtractor) Entities(_ context.Context, _ string) ([]Entity, error) {
	return s.entities, s.err
}

func TestGroundedExtractor_DropsUnseenMatches(t *testing.T) {
	inner := &stubExtractor{entities: []Entity{
		{Name: "Cuba", Category: "Location", Matches: []string{"Cuba", "Republic of Cuba"}},
		{Name: "Fidel Castro", Category: "Person", Matches: []string{"Castro"}},
		{Name: "Lee Harvey Oswald", Category: "Person", Matches: []string{"Oswald", ""}},
	}}
	e := NewGroundedExtractor(inner)

	got, err := e.Entities(context.Background(), "Tell me about Oswald's connection to Cuba")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entities, got %d: %+v", len(got), got)
	}
	if len(got[0].Matches) != 1 || got[0].Matches[0] != "Cuba" {
		t.Errorf("unexpected matches: %v", got[0].Matches)
	}
	if got[1].Name != "Lee Harvey Oswald" || len(got[1].Matches) != 1 {
		t.Errorf("unexpected entity: %+v", got[1])
	}
}

func TestGroundedExtractor_TrimsPhrases(t *testing.T) {
	inner := &stubExtractor{phrases: []string{" Oswald's connection ", "", "  "}}
	e := NewGroundedExtractor(inner)

	got, err := e.KeyPhrases(context.Background(), "irrelevant")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "Oswald's connection" {
		t.Errorf("unexpected phrases: %q", got)
	}
	if inner.phrases[0] != " Oswald's connection " {
		t.Error("inner slice must not be modified")
	}
}

func TestGroundedExtractor_ErrorPropagation(t *testing.T) {
	innerErr := errors.New("provider down")
	e := NewGroundedExtractor(&stubExtractor{err: innerErr})

	if _, err := e.KeyPhrases(context.Background(), "x"); !errors.Is(err, innerErr) {
		t.Errorf("expected wrapped error, got %v", err)
	}
	if _, err := e.Entities(context.Background(), "x"); !errors.Is(err, innerErr) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestNLPUsage(t *testing.T) {
	ctx, u := NewContextWithUsage(context.Background())
	if UsageFromContext(ctx) != u {
		t.Fatal("expected collector from context")
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			UsageFromContext(ctx).AddTokens(5)
		}()
	}
	wg.Wait()

	if u.TotalTokens() != 50 || u.Calls() != 10 {
		t.Errorf("unexpected usage: tokens=%d calls=%d", u.TotalTokens(), u.Calls())
	}
}

func TestNLPUsage_Nil(t *testing.T) {
	u := UsageFromContext(context.Background())
	if u != nil {
		t.Fatal("expected nil collector")
	}
	u.AddTokens(3)
	if u.TotalTokens() != 0 || u.Calls() != 0 {
		t.Error("nil collector must report zero")
	}
}
