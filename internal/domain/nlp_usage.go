package domain

import (
	"context"
	"sync"
)

type nlpUsageKey struct{}

// NLPUsage collects provider token usage for a single turn.
// Extraction calls run concurrently, so updates are locked.
type NLPUsage struct {
	mu          sync.Mutex
	totalTokens int
	calls       int
}

// NewContextWithUsage returns a context with an NLP usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *NLPUsage) {
	u := &NLPUsage{}
	return context.WithValue(ctx, nlpUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *NLPUsage {
	u, _ := ctx.Value(nlpUsageKey{}).(*NLPUsage)
	return u
}

// AddTokens records one provider call and its tokens. Safe on a nil receiver.
func (u *NLPUsage) AddTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.totalTokens += n
	u.calls++
	u.mu.Unlock()
}

// TotalTokens returns tokens consumed so far.
func (u *NLPUsage) TotalTokens() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.totalTokens
}

// Calls returns the number of provider calls recorded (cache hits excluded).
func (u *NLPUsage) Calls() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}
