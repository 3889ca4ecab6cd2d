// Package greeted tracks which conversation members have already been greeted.
package greeted

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/hoover/internal/domain"
)

// DefaultTTL is how long a conversation's greeted set outlives its last new member.
const DefaultTTL = 30 * 24 * time.Hour

// store is the consumer interface for the greeted set (ISP).
type store interface {
	SAdd(ctx context.Context, key, member string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Repo keeps one greeted set per conversation in the database so every replica
// shares it. Each set expires ttl after its last new member.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a database-backed greeted set. A non-positive ttl means DefaultTTL.
func New(s store, ttl time.Duration) *Repo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repo{store: s, ttl: ttl}
}

// MarkGreeted records the member and reports whether this is the first time.
func (r *Repo) MarkGreeted(ctx context.Context, conversationID, memberID string) (bool, error) {
	key := domain.GreetedKeyPrefix + conversationID
	added, err := r.store.SAdd(ctx, key, memberID)
	if err != nil {
		return false, fmt.Errorf("mark greeted: %w", err)
	}
	if added {
		if err := r.store.Expire(ctx, key, r.ttl, false); err != nil {
			return true, fmt.Errorf("expire greeted %s: %w", conversationID, err)
		}
	}
	return added, nil
}

// Memory is a process-local greeted set.
type Memory struct {
	seen sync.Map
}

// NewMemory creates an empty process-local greeted set.
func NewMemory() *Memory {
	return &Memory{}
}

// MarkGreeted records the member and reports whether this is the first time.
func (m *Memory) MarkGreeted(_ context.Context, conversationID, memberID string) (bool, error) {
	_, loaded := m.seen.LoadOrStore(member(conversationID, memberID), struct{}{})
	return !loaded, nil
}

func member(conversationID, memberID string) string {
	return conversationID + "/" + memberID
}
