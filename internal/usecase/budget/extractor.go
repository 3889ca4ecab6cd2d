package budget

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/metrics"
)

const (
	kindKeyPhrases = "key_phrases"
	kindEntities   = "entities"
)

// Checker is the budget the extractor enforces.
type Checker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	Status() Status
}

// Extractor wraps a provider extractor with token budget enforcement.
// Tokens are read from the usage collector the provider reports into.
type Extractor struct {
	inner    domain.Extractor
	budget   Checker
	provider string
	logger   *zap.Logger
}

// NewExtractor wraps inner. budget must not be nil.
func NewExtractor(inner domain.Extractor, budget Checker, provider string, logger *zap.Logger) *Extractor {
	return &Extractor{inner: inner, budget: budget, provider: provider, logger: logger}
}

// KeyPhrases checks the budget, delegates and records usage.
func (e *Extractor) KeyPhrases(ctx context.Context, text string) ([]string, error) {
	var phrases []string
	err := e.run(ctx, kindKeyPhrases, func(ctx context.Context) error {
		var err error
		phrases, err = e.inner.KeyPhrases(ctx, text)
		return err
	})
	return phrases, err
}

// Entities checks the budget, delegates and records usage.
func (e *Extractor) Entities(ctx context.Context, text string) ([]domain.Entity, error) {
	var entities []domain.Entity
	err := e.run(ctx, kindEntities, func(ctx context.Context) error {
		var err error
		entities, err = e.inner.Entities(ctx, text)
		return err
	})
	return entities, err
}

func (e *Extractor) run(ctx context.Context, kind string, call func(ctx context.Context) error) error {
	if err := e.budget.Check(ctx); err != nil {
		metrics.NLPBudgetRejectionsTotal.WithLabelValues(e.provider, kind).Inc()
		e.logger.Warn("nlp budget exceeded, skipping extraction",
			zap.String("provider", e.provider),
			zap.String("kind", kind),
		)
		return fmt.Errorf("budget check: %w", err)
	}

	// a private collector isolates this call from the concurrent one in the same turn
	callCtx, usage := domain.NewContextWithUsage(ctx)
	start := time.Now()
	err := call(callCtx)
	tokens := usage.TotalTokens()
	if usage.Calls() > 0 {
		domain.UsageFromContext(ctx).AddTokens(tokens)
	}
	if tokens > 0 {
		e.budget.Record(int64(tokens))
		st := e.budget.Status()
		metrics.NLPBudgetTokensRemaining.WithLabelValues(e.provider, "daily").Set(float64(st.RemainingDaily()))
		metrics.NLPBudgetTokensRemaining.WithLabelValues(e.provider, "monthly").Set(float64(st.RemainingMonthly()))
	}
	if err != nil {
		return err
	}
	e.logger.Debug("nlp extraction completed",
		zap.String("provider", e.provider),
		zap.String("kind", kind),
		zap.Duration("duration", time.Since(start)),
		zap.Int("tokens", tokens),
	)
	return nil
}
