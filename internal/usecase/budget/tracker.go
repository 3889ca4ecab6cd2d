// Package budget enforces daily and monthly NLP token limits.
package budget

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hoover/internal/domain"
)

// Action defines behavior when the token budget is exceeded.
type Action string

const (
	// ActionWarn logs a warning but lets extraction run.
	ActionWarn Action = "warn"
	// ActionReject skips extraction; the turn searches on the question alone.
	ActionReject Action = "reject"
)

// persistTimeout bounds the write-behind of one Record call.
const persistTimeout = 2 * time.Second

// Store persists budget counters for the day and month containing at.
type Store interface {
	Add(ctx context.Context, provider string, at time.Time, tokens int64) error
	Load(ctx context.Context, provider string, at time.Time) (daily, monthly int64, err error)
}

// Status is a point-in-time view of the counters. A zero limit means unlimited.
type Status struct {
	DailyUsed    int64
	DailyLimit   int64
	MonthlyUsed  int64
	MonthlyLimit int64
}

// RemainingDaily returns tokens left today, or -1 when unlimited.
func (s Status) RemainingDaily() int64 { return remaining(s.DailyLimit, s.DailyUsed) }

// RemainingMonthly returns tokens left this month, or -1 when unlimited.
func (s Status) RemainingMonthly() int64 { return remaining(s.MonthlyLimit, s.MonthlyUsed) }

// Exceeded reports whether any limit is spent.
func (s Status) Exceeded() bool {
	return (s.DailyLimit > 0 && s.DailyUsed >= s.DailyLimit) ||
		(s.MonthlyLimit > 0 && s.MonthlyUsed >= s.MonthlyLimit)
}

func remaining(limit, used int64) int64 {
	if limit == 0 {
		return -1
	}
	return max(limit-used, 0)
}

// Tracker counts NLP tokens in memory with optional write-behind persistence.
// Check never touches the store.
type Tracker struct {
	mu       sync.Mutex
	status   Status
	action   Action
	provider string
	day      time.Time
	month    time.Time
	store    Store
	now      func() time.Time
	logger   *zap.Logger
}

// NewTracker creates a tracker. Zero limits disable the corresponding check.
func NewTracker(provider string, dailyLimit, monthlyLimit int64, action Action, logger *zap.Logger) *Tracker {
	t := &Tracker{
		status:   Status{DailyLimit: dailyLimit, MonthlyLimit: monthlyLimit},
		action:   action,
		provider: provider,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
	t.day, t.month = periods(t.now())
	return t
}

// WithStore attaches persistence and loads the current counters from it.
func (t *Tracker) WithStore(ctx context.Context, store Store) *Tracker {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.store = store
	daily, monthly, err := store.Load(ctx, t.provider, t.now())
	if err != nil {
		t.logger.Warn("failed to load nlp budget", zap.String("provider", t.provider), zap.Error(err))
		return t
	}
	t.status.DailyUsed = daily
	t.status.MonthlyUsed = monthly

	t.logger.Info("nlp budget loaded",
		zap.String("provider", t.provider),
		zap.Int64("daily_used", t.status.DailyUsed),
		zap.Int64("monthly_used", t.status.MonthlyUsed),
	)
	return t
}

// Check returns domain.ErrNLPQuotaExceeded when a limit is spent and the action is reject.
func (t *Tracker) Check(_ context.Context) error {
	st := t.Status()
	if !st.Exceeded() {
		return nil
	}
	if t.action == ActionReject {
		return domain.ErrNLPQuotaExceeded
	}
	t.logger.Warn("nlp token budget exceeded",
		zap.String("provider", t.provider),
		zap.Int64("daily_used", st.DailyUsed),
		zap.Int64("daily_limit", st.DailyLimit),
		zap.Int64("monthly_used", st.MonthlyUsed),
		zap.Int64("monthly_limit", st.MonthlyLimit),
	)
	return nil
}

// Record adds consumed tokens, then writes them behind to the store if one is attached.
func (t *Tracker) Record(tokens int64) {
	if tokens <= 0 {
		return
	}
	t.mu.Lock()
	now := t.now()
	t.rollover(now)
	t.status.DailyUsed += tokens
	t.status.MonthlyUsed += tokens
	store := t.store
	t.mu.Unlock()

	if store == nil {
		return
	}

	// detached from the turn so a finished request does not cancel the write
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := store.Add(ctx, t.provider, now, tokens); err != nil {
		t.logger.Warn("failed to persist nlp budget", zap.String("provider", t.provider), zap.Error(err))
	}
}

// Status returns the current counters.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover(t.now())
	return t.status
}

// rollover zeroes counters when the day or month changes. Caller holds mu.
func (t *Tracker) rollover(now time.Time) {
	day, month := periods(now)
	if day.After(t.day) {
		t.status.DailyUsed = 0
		t.day = day
	}
	if month.After(t.month) {
		t.status.MonthlyUsed = 0
		t.month = month
	}
}

func periods(now time.Time) (day, month time.Time) {
	day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return day, month
}
