package nlpcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hoover/internal/db"
	"github.com/kailas-cloud/hoover/internal/domain"
)

type mockExtractor struct {
	phrases  []string
	entities []domain.Entity
	err      error
	calls    int
}

func (m *mockExtractor) KeyPhrases(_ context.Context, _ string) ([]string, error) {
	m.calls++
	return m.phrases, m.err
}

func (m *mockExtractor) Entities(_ context.Context, _ string) ([]domain.Entity, error) {
	m.calls++
	return m.entities, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedExtractor(t *testing.T, inner *mockExtractor) (*CachedExtractor, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	ce := New(inner, ms, time.Hour, nil, zap.NewNop())
	return ce, ms
}
