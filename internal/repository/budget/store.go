// Package budget persists NLP token counters per provider, one per day and one per month.
package budget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/hoover/internal/db"
	"github.com/kailas-cloud/hoover/internal/domain"
)

// Default counter lifetimes. A counter outlives its period so late reads still see it.
const (
	DefaultDailyTTL   = 48 * time.Hour
	DefaultMonthlyTTL = 62 * 24 * time.Hour
)

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Store persists NLP token counters (INCRBY + EXPIRE NX, read with GET).
type Store struct {
	store      store
	dailyTTL   time.Duration
	monthlyTTL time.Duration
}

// New creates a budget store. Non-positive TTLs take the defaults.
func New(s store, dailyTTL, monthlyTTL time.Duration) *Store {
	if dailyTTL <= 0 {
		dailyTTL = DefaultDailyTTL
	}
	if monthlyTTL <= 0 {
		monthlyTTL = DefaultMonthlyTTL
	}
	return &Store{store: s, dailyTTL: dailyTTL, monthlyTTL: monthlyTTL}
}

// Add counts tokens against the day and month containing at.
// Both counters are attempted; the errors are joined.
func (s *Store) Add(ctx context.Context, provider string, at time.Time, tokens int64) error {
	return errors.Join(
		s.incr(ctx, DailyKey(provider, at), tokens, s.dailyTTL),
		s.incr(ctx, MonthlyKey(provider, at), tokens, s.monthlyTTL),
	)
}

// Load returns the day and month counters containing at. Missing counters are zero.
func (s *Store) Load(ctx context.Context, provider string, at time.Time) (daily, monthly int64, err error) {
	if daily, err = s.get(ctx, DailyKey(provider, at)); err != nil {
		return 0, 0, err
	}
	if monthly, err = s.get(ctx, MonthlyKey(provider, at)); err != nil {
		return 0, 0, err
	}
	return daily, monthly, nil
}

func (s *Store) incr(ctx context.Context, key string, tokens int64, ttl time.Duration) error {
	if err := s.store.IncrBy(ctx, key, tokens); err != nil {
		return fmt.Errorf("budget INCRBY %s: %w", key, err)
	}
	// NX keeps the first deadline on repeat increments.
	if err := s.store.Expire(ctx, key, ttl, true); err != nil {
		return fmt.Errorf("budget EXPIRE %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (int64, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("budget GET %s: %w", key, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("budget GET %s parse: %w", key, err)
	}
	return val, nil
}

// DailyKey is hoover:budget:{provider}:daily:{YYYY-MM-DD} in UTC.
func DailyKey(provider string, at time.Time) string {
	return domain.BudgetKeyPrefix + provider + ":daily:" + at.UTC().Format(time.DateOnly)
}

// MonthlyKey is hoover:budget:{provider}:monthly:{YYYY-MM} in UTC.
func MonthlyKey(provider string, at time.Time) string {
	return domain.BudgetKeyPrefix + provider + ":monthly:" + at.UTC().Format("2006-01")
}
