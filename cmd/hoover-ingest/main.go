// Command hoover-ingest loads enriched documents and the cryptonym dictionary
// into the search database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hoover/internal/config"
	dbRedis "github.com/kailas-cloud/hoover/internal/db/redis"
	logpkg "github.com/kailas-cloud/hoover/internal/logger"
	cryptonymrepo "github.com/kailas-cloud/hoover/internal/repository/cryptonym"
	documentrepo "github.com/kailas-cloud/hoover/internal/repository/document"
	ingestuc "github.com/kailas-cloud/hoover/internal/usecase/ingest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openRedis).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

// openRedis connects to the configured database and builds the ingest service.
func openRedis(ctx context.Context, env string) (*session, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, err
	}

	logger, err := logpkg.NewLogger(env, "hoover-ingest", cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Database.Addrs,
		Username:   cfg.Database.Username,
		Password:   cfg.Database.Password,
		ClientName: "hoover-ingest",
	})
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, err
	}
	logger.Info("Connected to database",
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("index", cfg.Search.Index),
	)

	svc := ingestuc.New(
		documentrepo.New(store, cfg.Search.Index),
		cryptonymrepo.New(store),
		logger,
	)
	return &session{
		svc:            svc,
		cryptonymsFile: cfg.Bot.CryptonymsFile,
		close: func() {
			store.Close()
			_ = logger.Sync()
		},
	}, nil
}
