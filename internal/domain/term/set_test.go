package term

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSet_InsertionOrder(t *testing.T) {
	s := NewSet("b", "a", "b", "c")

	if diff := cmp.Diff([]string{"b", "a", "c"}, s.Terms()); diff != "" {
		t.Errorf("terms mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 3 {
		t.Errorf("expected 3 terms, got %d", s.Len())
	}
	if got := s.Join(" "); got != "b a c" {
		t.Errorf("unexpected join: %q", got)
	}
}

func TestSet_CaseSensitive(t *testing.T) {
	var s Set
	if !s.Add("Cuba") {
		t.Fatal("expected first add to succeed")
	}
	if !s.Add("CUBA") {
		t.Fatal("expected different casing to be a distinct term")
	}
	if s.Add("Cuba") {
		t.Fatal("expected duplicate add to report false")
	}
	if !s.Contains("CUBA") || s.Contains("cuba") {
		t.Error("unexpected Contains result")
	}
}

func TestSet_Union(t *testing.T) {
	s := NewSet("GPIDEAL")
	s.Union(NewSet("Oswald", "GPIDEAL", "Cuba"))
	s.Union(nil)

	if diff := cmp.Diff([]string{"GPIDEAL", "Oswald", "Cuba"}, s.Terms()); diff != "" {
		t.Errorf("terms mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_TermsIsCopy(t *testing.T) {
	s := NewSet("a")
	terms := s.Terms()
	terms[0] = "mutated"
	if s.Terms()[0] != "a" {
		t.Error("Terms must return a copy")
	}
}
