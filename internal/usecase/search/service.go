package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/domain/search/result"
	"github.com/kailas-cloud/hoover/internal/metrics"
)

// DefaultProgressInterval is the cadence of progress signals while a search is pending.
const DefaultProgressInterval = 2 * time.Second

// Driver runs a search to completion and signals progress while it waits.
type Driver struct {
	repo     Repository
	interval time.Duration
}

// New creates a search driver. A non-positive interval means DefaultProgressInterval.
func New(repo Repository, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	return &Driver{repo: repo, interval: interval}
}

type outcome struct {
	set result.Set
	err error
}

// Search issues the query and blocks until it resolves or ctx is done.
// progress is called once immediately and then on every interval tick; it is
// never called after Search returns. Backend failures are ErrSearchUnavailable.
func (d *Driver) Search(
	ctx context.Context, query string, maxResults int, progress func(),
) (result.Set, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		set, err := d.repo.Search(ctx, query, maxResults)
		done <- outcome{set: set, err: err}
	}()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	signal(progress)
	for {
		select {
		case out := <-done:
			return d.finish(ctx, out, start)
		case <-ticker.C:
			// a search that resolved during the tick wins over the signal
			select {
			case out := <-done:
				return d.finish(ctx, out, start)
			default:
			}
			signal(progress)
		case <-ctx.Done():
			metrics.SearchDuration.WithLabelValues("canceled").Observe(time.Since(start).Seconds())
			return result.Set{}, fmt.Errorf("search: %w", ctx.Err())
		}
	}
}

func (d *Driver) finish(ctx context.Context, out outcome, start time.Time) (result.Set, error) {
	elapsed := time.Since(start).Seconds()
	if out.err != nil {
		if ctx.Err() != nil && errors.Is(out.err, ctx.Err()) {
			metrics.SearchDuration.WithLabelValues("canceled").Observe(elapsed)
			return result.Set{}, fmt.Errorf("search: %w", out.err)
		}
		metrics.SearchDuration.WithLabelValues("error").Observe(elapsed)
		return result.Set{}, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, out.err)
	}
	metrics.SearchDuration.WithLabelValues("success").Observe(elapsed)
	return out.set, nil
}

func signal(progress func()) {
	if progress == nil {
		return
	}
	metrics.ProgressSignalsTotal.Inc()
	progress()
}
