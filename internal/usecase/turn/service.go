package turn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/domain/card"
	"github.com/kailas-cloud/hoover/internal/domain/cryptonym"
	"github.com/kailas-cloud/hoover/internal/domain/query"
	"github.com/kailas-cloud/hoover/internal/domain/reply"
	"github.com/kailas-cloud/hoover/internal/domain/search/result"
	"github.com/kailas-cloud/hoover/internal/domain/term"
	"github.com/kailas-cloud/hoover/internal/domain/textcase"
	"github.com/kailas-cloud/hoover/internal/logger"
	"github.com/kailas-cloud/hoover/internal/metrics"
)

const tracerName = "github.com/kailas-cloud/hoover/internal/usecase/turn"

// DefaultMaxResults is the number of hits requested per search.
const DefaultMaxResults = 10

// Outcome labels how a turn ended.
type Outcome string

// Turn outcomes.
const (
	OutcomeGreeting   Outcome = "greeting"
	OutcomeNicety     Outcome = "nicety"
	OutcomeResults    Outcome = "results"
	OutcomeNoResults  Outcome = "no_results"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeApology    Outcome = "apology"
	OutcomeError      Outcome = "error"
	OutcomeIgnored    Outcome = "ignored"
	OutcomeCanceled   Outcome = "canceled"
)

// Deps are the collaborators of the turn pipeline. Extractor may be nil.
type Deps struct {
	Matcher    *cryptonym.Matcher
	Normalizer *term.Normalizer
	Extractor  Extractor
	Searcher   Searcher
	Greeted    GreetedSet
	Cards      *card.Builder
	Composer   *reply.Composer
}

// Service runs the question-to-reply pipeline for one activity at a time.
type Service struct {
	deps       Deps
	maxResults int
	tracer     trace.Tracer
}

// New creates a turn service. A non-positive maxResults means DefaultMaxResults.
func New(deps Deps, maxResults int) *Service {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Service{deps: deps, maxResults: maxResults, tracer: otel.Tracer(tracerName)}
}

// WithTracerProvider replaces the global tracer provider.
func (s *Service) WithTracerProvider(tp trace.TracerProvider) *Service {
	if tp != nil {
		s.tracer = tp.Tracer(tracerName)
	}
	return s
}

// Handle processes one inbound activity and delivers its replies to sink.
// It returns once every queued reply has been dispatched. Unexpected failures
// are answered with a generic error message rather than returned.
func (s *Service) Handle(ctx context.Context, in Input, sink Sink) (Outcome, error) {
	turnID := uuid.NewString()
	ctx, log := logger.With(ctx,
		zap.String("turn_id", turnID),
		zap.String("conversation_id", in.ConversationID),
		zap.String("activity_type", in.Type),
	)
	ctx, usage := domain.NewContextWithUsage(ctx)

	ctx, span := s.tracer.Start(ctx, "turn.handle", trace.WithAttributes(
		attribute.String("hoover.turn_id", turnID),
		attribute.String("hoover.activity_type", in.Type),
	))
	defer span.End()

	start := time.Now()
	out := NewOutbox(ctx, sink, in.ID, log)

	outcome, err := s.dispatch(ctx, in, out)
	switch {
	case ctx.Err() != nil:
		outcome = OutcomeCanceled
	case err != nil:
		log.Error("turn failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		out.Send(reply.Error())
		outcome = OutcomeError
	}

	deliveryErr := out.Close()
	metrics.TurnsTotal.WithLabelValues(string(outcome)).Inc()
	span.SetAttributes(attribute.String("hoover.outcome", string(outcome)))

	log.Info("turn complete",
		zap.String("outcome", string(outcome)),
		zap.Duration("duration", time.Since(start)),
		zap.Int("nlp_tokens", usage.TotalTokens()),
		zap.Int("nlp_calls", usage.Calls()),
	)

	if deliveryErr != nil {
		return outcome, fmt.Errorf("deliver replies: %w", deliveryErr)
	}
	return outcome, nil
}

func (s *Service) dispatch(ctx context.Context, in Input, out *Outbox) (Outcome, error) {
	switch in.Type {
	case TypeConversationUpdate:
		return s.greet(ctx, in, out)
	case TypeMessage:
		return s.answer(ctx, in.Text, out)
	default:
		return OutcomeIgnored, nil
	}
}

// greet welcomes the first new member that has not been greeted before.
func (s *Service) greet(ctx context.Context, in Input, out *Outbox) (Outcome, error) {
	for _, m := range in.MembersAdded {
		if m.ID == "" || m.ID == in.Recipient.ID || m.ID == DefaultUserID {
			continue
		}
		first, err := s.deps.Greeted.MarkGreeted(ctx, in.ConversationID, m.ID)
		if first {
			if err != nil {
				logger.FromContext(ctx).Warn("greeted member recorded with error", zap.Error(err))
			}
			out.Send(reply.Greeting())
			return OutcomeGreeting, nil
		}
		if err != nil {
			return "", fmt.Errorf("greet %s: %w", m.ID, err)
		}
	}
	return OutcomeIgnored, nil
}

func (s *Service) answer(ctx context.Context, text string, out *Outbox) (Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return OutcomeIgnored, nil
	}
	log := logger.FromContext(ctx)

	if r, ok := reply.Nicety(textcase.Lower(text)); ok {
		out.Send(r)
		return OutcomeNicety, nil
	}

	match := s.deps.Matcher.Match(text)
	for _, a := range match.Answers {
		out.Send(reply.CryptonymAnswer(a))
		metrics.CryptonymHitsTotal.Inc()
	}

	terms := match.Terms
	if err := s.extractTerms(ctx, match.Question, terms); err != nil {
		return "", err
	}
	q := query.Synthesize(terms, text)
	log.Debug("query synthesized",
		zap.String("query", q),
		zap.Int("terms", terms.Len()),
		zap.Int("cryptonyms", len(match.Answers)),
	)

	set, err := s.search(ctx, q, out)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, domain.ErrSearchUnavailable) {
			log.Error("search unavailable", zap.String("query", q), zap.Error(err))
			out.Send(reply.Apology())
			return OutcomeApology, nil
		}
		return "", err
	}
	// covers card assembly
	out.Typing()

	cards := s.deps.Cards.Assemble(set.Hits(), func(hit result.Result, err error) {
		s.skipped(ctx, hit, err)
	})
	metrics.CardsTotal.WithLabelValues("built").Add(float64(len(cards)))

	r := s.deps.Composer.Compose(cards, q, match.Found())
	if r.Suppressed {
		return OutcomeSuppressed, nil
	}
	out.Send(r)
	if len(cards) == 0 {
		return OutcomeNoResults, nil
	}
	return OutcomeResults, nil
}

// extractTerms adds normalized key phrase and entity words to terms. NLP failures
// leave terms untouched; only cancellation is returned.
func (s *Service) extractTerms(ctx context.Context, text string, terms *term.Set) error {
	if s.deps.Extractor == nil {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "turn.nlp")
	defer span.End()

	var (
		phrases  []string
		entities []domain.Entity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		phrases, err = s.deps.Extractor.KeyPhrases(gctx, text)
		return err
	})
	g.Go(func() error {
		var err error
		entities, err = s.deps.Extractor.Entities(gctx, text)
		return err
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("extract terms: %w", ctx.Err())
		}
		span.RecordError(err)
		logger.FromContext(ctx).Warn("nlp unavailable, searching without nlp terms",
			zap.Error(fmt.Errorf("%w: %w", domain.ErrNLPUnavailable, err)))
		return nil
	}

	for _, p := range phrases {
		s.deps.Normalizer.AddWords(p, terms)
	}
	for _, e := range entities {
		for _, m := range e.Matches {
			s.deps.Normalizer.AddWords(m, terms)
		}
	}
	span.SetAttributes(
		attribute.Int("hoover.key_phrases", len(phrases)),
		attribute.Int("hoover.entities", len(entities)),
	)
	return nil
}

func (s *Service) search(ctx context.Context, q string, out *Outbox) (result.Set, error) {
	ctx, span := s.tracer.Start(ctx, "turn.search", trace.WithAttributes(
		attribute.String("hoover.query", q),
	))
	defer span.End()

	set, err := s.deps.Searcher.Search(ctx, q, s.maxResults, out.Typing)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result.Set{}, err
	}
	span.SetAttributes(
		attribute.Int("hoover.hits", len(set.Hits())),
		attribute.Int("hoover.total", set.Total()),
	)
	return set, nil
}

func (s *Service) skipped(ctx context.Context, hit result.Result, err error) {
	log := logger.FromContext(ctx)
	if errors.Is(err, domain.ErrNoThumbnails) {
		metrics.CardsTotal.WithLabelValues("no_thumbnails").Inc()
		log.Debug("hit has no thumbnails", zap.String("id", hit.ID()))
		return
	}
	metrics.CardsTotal.WithLabelValues("malformed").Inc()
	log.Warn("skipping malformed hit", zap.String("id", hit.ID()), zap.Error(err))
}
