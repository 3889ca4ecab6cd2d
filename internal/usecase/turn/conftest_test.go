package turn

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/domain/card"
	"github.com/kailas-cloud/hoover/internal/domain/cryptonym"
	"github.com/kailas-cloud/hoover/internal/domain/reply"
	"github.com/kailas-cloud/hoover/internal/domain/search/result"
	"github.com/kailas-cloud/hoover/internal/domain/term"
	"github.com/kailas-cloud/hoover/internal/repository/greeted"
)

const testSearchURL = "https://jfk.example.com/#q="

// --- Mocks ---

type mockExtractor struct {
	keyPhrasesFn func(ctx context.Context, text string) ([]string, error)
	entitiesFn   func(ctx context.Context, text string) ([]domain.Entity, error)
}

func (m *mockExtractor) KeyPhrases(ctx context.Context, text string) ([]string, error) {
	if m.keyPhrasesFn != nil {
		return m.keyPhrasesFn(ctx, text)
	}
	return nil, nil
}

func (m *mockExtractor) Entities(ctx context.Context, text string) ([]domain.Entity, error) {
	if m.entitiesFn != nil {
		return m.entitiesFn(ctx, text)
	}
	return nil, nil
}

type mockSearcher struct {
	searchFn func(ctx context.Context, query string, maxResults int, progress func()) (result.Set, error)
	queries  []string
}

func (m *mockSearcher) Search(ctx context.Context, query string, maxResults int, progress func()) (result.Set, error) {
	m.queries = append(m.queries, query)
	if m.searchFn != nil {
		return m.searchFn(ctx, query, maxResults, progress)
	}
	if progress != nil {
		progress()
	}
	return result.NewSet(nil, 0), nil
}

type mockGreeted struct {
	markFn func(ctx context.Context, conversationID, memberID string) (bool, error)
}

func (m *mockGreeted) MarkGreeted(ctx context.Context, conversationID, memberID string) (bool, error) {
	return m.markFn(ctx, conversationID, memberID)
}

// recordingSink collects emitted activities.
type recordingSink struct {
	mu   sync.Mutex
	got  []Outbound
	err  error
	onFn func(a Outbound)
}

func (s *recordingSink) Emit(_ context.Context, a Outbound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, a)
	if s.onFn != nil {
		s.onFn(a)
	}
	return s.err
}

func (s *recordingSink) messages() []reply.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []reply.Reply
	for _, a := range s.got {
		if a.Type == TypeMessage {
			out = append(out, a.Reply)
		}
	}
	return out
}

func (s *recordingSink) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.got))
	for _, a := range s.got {
		out = append(out, a.Type)
	}
	return out
}

// --- Fixtures ---

func newService(ext Extractor, searcher Searcher) *Service {
	dict := cryptonym.New(map[string]string{
		"GPIDEAL": "John F. Kennedy",
		"AMLASH":  "Rolando Cubela",
	})
	var e Extractor
	if ext != nil {
		e = domain.NewGroundedExtractor(ext)
	}
	return New(Deps{
		Matcher:    cryptonym.NewMatcher(dict),
		Normalizer: term.NewNormalizer(term.Rules{}),
		Extractor:  e,
		Searcher:   searcher,
		Greeted:    greeted.NewMemory(),
		Cards:      card.NewBuilder(0, ""),
		Composer:   reply.NewComposer(testSearchURL),
	}, 0)
}

func makeHit(t *testing.T, id string, thumbs ...string) result.Result {
	t.Helper()
	payload := map[string]any{
		"/document/finalText": "cover [image: image1.tif] memorandum",
		"/document": map[string]string{
			"metadata_storage_path":      "https://store/docs/" + id + ".pdf",
			"metadata_storage_sas_token": "sig=1",
		},
	}
	if len(thumbs) > 0 {
		payload["/document/normalized_images/*/imageStoreUri"] = thumbs
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal hit: %v", err)
	}
	return result.New("hoover:doc:"+id, 1, string(data))
}

func hits(t *testing.T, n int) result.Set {
	t.Helper()
	out := make([]result.Result, n)
	for i := range out {
		out[i] = makeHit(t, string(rune('a'+i)), "https://img/0.jpg")
	}
	return result.NewSet(out, n)
}

func message(text string) Input {
	return Input{
		Type:           TypeMessage,
		ID:             "act-1",
		Text:           text,
		From:           Account{ID: "user-1"},
		Recipient:      Account{ID: "hoover-bot"},
		ConversationID: "conv-1",
	}
}
