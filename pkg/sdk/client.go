package hoover

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbRedis "github.com/kailas-cloud/hoover/internal/db/redis"
	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/domain/card"
	"github.com/kailas-cloud/hoover/internal/domain/cryptonym"
	"github.com/kailas-cloud/hoover/internal/domain/reply"
	"github.com/kailas-cloud/hoover/internal/domain/term"
	greetedrepo "github.com/kailas-cloud/hoover/internal/repository/greeted"
	searchrepo "github.com/kailas-cloud/hoover/internal/repository/search"
	healthuc "github.com/kailas-cloud/hoover/internal/usecase/health"
	searchuc "github.com/kailas-cloud/hoover/internal/usecase/search"
	"github.com/kailas-cloud/hoover/internal/usecase/turn"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultIndex            = "hoover-docs"
	conversationID          = "sdk"
)

// Внутренние интерфейсы для подмены в тестах.
type turnUseCase interface {
	Handle(ctx context.Context, in turn.Input, sink turn.Sink) (turn.Outcome, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type closer interface {
	Close()
}

// Client is the hoover SDK entry point.
type Client struct {
	store     closer
	turnSvc   turnUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a hoover Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{index: defaultIndex}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("hoover: database address required (use WithRedis)")
	}
	if cfg.siteURL == "" {
		return nil, fmt.Errorf("hoover: %w: search site URL (use WithSearchSite)", domain.ErrConfigMissing)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.addrs,
		Password:   cfg.password,
		ClientName: "hoover-sdk",
	})
	if err != nil {
		return nil, fmt.Errorf("hoover: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("hoover: database not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func wireClient(store *dbRedis.Store, cfg *clientConfig, obs *observer) *Client {
	var extractor turn.Extractor
	if cfg.extractor != nil {
		extractor = domain.NewGroundedExtractor(&extractorAdapter{inner: cfg.extractor})
	}

	turnSvc := turn.New(turn.Deps{
		Matcher:    cryptonym.NewMatcher(cryptonym.New(cfg.cryptonyms)),
		Normalizer: term.NewNormalizer(term.Rules{}),
		Extractor:  extractor,
		Searcher:   searchuc.New(searchrepo.New(store, cfg.index), cfg.progressInterval),
		// Greetings are never requested through the SDK.
		Greeted:  greetedrepo.NewMemory(),
		Cards:    card.NewBuilder(0, ""),
		Composer: reply.NewComposer(cfg.siteURL),
	}, cfg.maxResults)

	return &Client{
		store:     store,
		turnSvc:   turnSvc,
		healthSvc: healthuc.New(store, nil).WithIndex(store, cfg.index),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ask answers one question and returns every message the bot produced,
// typing indicators included.
func (c *Client) Ask(ctx context.Context, question string) ([]Message, error) {
	var msgs []Message
	err := c.Stream(ctx, question, func(m Message) error {
		msgs = append(msgs, m)
		return nil
	})
	return msgs, err
}

// Stream answers one question, calling fn for each message as soon as it is
// produced. An error from fn stops nothing but is returned once the turn ends.
func (c *Client) Stream(ctx context.Context, question string, fn func(Message) error) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask", start, err) }()

	outcome, err := c.turnSvc.Handle(ctx, turn.Input{
		Type:           turn.TypeMessage,
		Text:           question,
		ConversationID: conversationID,
	}, sinkFunc(func(_ context.Context, a turn.Outbound) error {
		m := messageFromOutbound(a)
		c.obs.message(m.Kind)
		return fn(m)
	}))
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}
	if outcome == turn.OutcomeCanceled {
		return fmt.Errorf("ask: %w", ctx.Err())
	}
	return nil
}

// sinkFunc adapts a function to turn.Sink.
type sinkFunc func(ctx context.Context, a turn.Outbound) error

func (f sinkFunc) Emit(ctx context.Context, a turn.Outbound) error { return f(ctx, a) }

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the database and the document index.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
