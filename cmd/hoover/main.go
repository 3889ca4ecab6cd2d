package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hoover/internal/config"
	dbRedis "github.com/kailas-cloud/hoover/internal/db/redis"
	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/domain/card"
	"github.com/kailas-cloud/hoover/internal/domain/cryptonym"
	"github.com/kailas-cloud/hoover/internal/domain/reply"
	"github.com/kailas-cloud/hoover/internal/domain/term"
	logpkg "github.com/kailas-cloud/hoover/internal/logger"
	"github.com/kailas-cloud/hoover/internal/metrics"
	cryptonymrepo "github.com/kailas-cloud/hoover/internal/repository/cryptonym"
	budgetrepo "github.com/kailas-cloud/hoover/internal/repository/budget"
	greetedrepo "github.com/kailas-cloud/hoover/internal/repository/greeted"
	"github.com/kailas-cloud/hoover/internal/repository/nlpcache"
	searchrepo "github.com/kailas-cloud/hoover/internal/repository/search"
	"github.com/kailas-cloud/hoover/internal/telemetry"
	chiTransport "github.com/kailas-cloud/hoover/internal/transport/chi"
	lcTransport "github.com/kailas-cloud/hoover/internal/transport/langchain"
	openaiTransport "github.com/kailas-cloud/hoover/internal/transport/openai"
	budgetuc "github.com/kailas-cloud/hoover/internal/usecase/budget"
	healthuc "github.com/kailas-cloud/hoover/internal/usecase/health"
	searchuc "github.com/kailas-cloud/hoover/internal/usecase/search"
	"github.com/kailas-cloud/hoover/internal/usecase/turn"
	usageuc "github.com/kailas-cloud/hoover/internal/usecase/usage"
	"github.com/kailas-cloud/hoover/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, "hoover", cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting hoover bot",
		zap.String("commit", version.Commit),
		zap.String("build_date", version.Date),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("nlp_provider", cfg.NLP.Provider),
	)

	shutdownTracing, err := telemetry.Setup(telemetry.Config{
		Enabled:     cfg.Tracing.Enabled,
		SampleRatio: cfg.Tracing.SampleRatio,
		ServiceName: "hoover",
		Version:     version.Version,
	})
	if err != nil {
		logger.Fatal("Failed to set up tracing", zap.Error(err))
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterNLPMetrics()
	metrics.RegisterTurnMetrics()
	metrics.RegisterHTTPMetrics()

	dict, err := loadCryptonyms(ctx, cfg.Bot, store)
	if err != nil {
		logger.Fatal("Failed to load cryptonyms", zap.Error(err))
	}
	logger.Info("Cryptonyms loaded",
		zap.String("source", cfg.Bot.CryptonymsSource),
		zap.Int("count", dict.Len()),
	)

	// Single tracker shared by the extractor chain and the usage report.
	var tracker *budgetuc.Tracker
	if cfg.NLP.Provider != "none" && cfg.NLP.Budget.Enabled() {
		tracker = budgetuc.NewTracker(
			cfg.NLP.Provider,
			cfg.NLP.Budget.DailyTokenLimit,
			cfg.NLP.Budget.MonthlyTokenLimit,
			budgetuc.Action(cfg.NLP.Budget.Action),
			logger,
		).WithStore(ctx, budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
	}

	extractor, nlpChecker, err := buildExtractor(cfg.NLP, store, tracker, logger)
	if err != nil {
		logger.Fatal("Failed to create NLP extractor", zap.Error(err))
	}

	var greeted turn.GreetedSet = greetedrepo.New(store, time.Duration(cfg.Bot.GreetedTTLDays)*24*time.Hour)
	if cfg.Bot.GreetedStore == "memory" {
		greeted = greetedrepo.NewMemory()
	}

	searcher := searchuc.New(
		searchrepo.New(store, cfg.Search.Index),
		time.Duration(cfg.Search.ProgressIntervalMs)*time.Millisecond,
	)

	turnSvc := turn.New(turn.Deps{
		Matcher: cryptonym.NewMatcher(dict),
		Normalizer: term.NewNormalizer(term.Rules{
			Stopwords:          cfg.Bot.Stopwords,
			PossessiveSuffixes: cfg.Bot.PossessiveSuffixes,
			LowValueSuffixes:   cfg.Bot.LowValueSuffixes,
		}),
		Extractor: extractor,
		Searcher:  searcher,
		Greeted:   greeted,
		Cards:     card.NewBuilder(cfg.Search.ExcerptMaxLength, cfg.Search.PageBreakMarker),
		Composer:  reply.NewComposer(cfg.Search.SiteURL),
	}, cfg.Search.MaxResults)

	healthSvc := healthuc.New(store, nlpChecker).WithIndex(store, cfg.Search.Index)

	// Pass a nil interface, not a typed nil pointer, when no budget is configured.
	var budgetReader usageuc.BudgetReader
	if tracker != nil {
		budgetReader = tracker
	}
	usageSvc := usageuc.New(budgetReader, cfg.NLP.Provider)

	server := chiTransport.NewServer(turnSvc, healthSvc, logger).
		WithTurnTimeout(time.Duration(cfg.HTTP.TurnTimeoutSec) * time.Second).
		WithUsage(usageSvc)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Error flushing traces", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// loadCryptonyms reads the dictionary from the configured source.
func loadCryptonyms(ctx context.Context, cfg config.BotConfig, store *dbRedis.Store) (*cryptonym.Dictionary, error) {
	var (
		entries map[string]string
		err     error
	)
	if cfg.CryptonymsSource == "database" {
		entries, err = cryptonymrepo.New(store).Load(ctx)
	} else {
		entries, err = cryptonymrepo.LoadFile(cfg.CryptonymsFile)
	}
	if err != nil {
		return nil, err
	}
	return cryptonym.New(entries), nil
}

// buildExtractor assembles the NLP chain: provider -> budget -> cache -> grounding.
// Returns a nil extractor when NLP is disabled.
func buildExtractor(
	cfg config.NLPConfig,
	store *dbRedis.Store,
	tracker *budgetuc.Tracker,
	logger *zap.Logger,
) (turn.Extractor, healthuc.NLPChecker, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second

	var (
		base    domain.Extractor
		checker healthuc.NLPChecker
	)
	switch cfg.Provider {
	case "none":
		return nil, nil, nil
	case "langchain":
		lc, err := lcTransport.New(&lcTransport.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Timeout:  timeout,
			Logger:   logger,
		})
		if err != nil {
			return nil, nil, err
		}
		base = lc
	default:
		oa := openaiTransport.NewExtractor(&openaiTransport.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Timeout:  timeout,
			Logger:   logger,
		})
		base, checker = oa, oa
	}

	if tracker != nil {
		base = budgetuc.NewExtractor(base, tracker, cfg.Provider, logger)
	}
	if cfg.CacheTTLSec > 0 {
		base = nlpcache.New(base, store, time.Duration(cfg.CacheTTLSec)*time.Second, metrics.NLPCacheTotal, logger)
	}

	logger.Info("NLP extractor created",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Bool("cached", cfg.CacheTTLSec > 0),
		zap.Bool("budgeted", tracker != nil),
	)
	return domain.NewGroundedExtractor(base), checker, nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
