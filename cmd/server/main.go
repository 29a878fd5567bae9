package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/ledger-transaction-engine/internal/api"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/config"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/events/kafka"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/interfaces"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/ledger"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/storage/memory"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.LogMode)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, cleanup, err := newStore(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("init ledger store", zap.Error(err))
	}
	defer cleanup()

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() { _ = kafkaPublisher.Close() }()
		publisher = kafkaPublisher
		logger.Info("event publishing enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	ledgerService := ledger.NewLedger(store, publisher, logger)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(ledgerService, logger).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

// newStore selects postgres when a DATABASE_URL is configured, otherwise
// the in-memory store for local runs.
func newStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (interfaces.LedgerStore, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		return memory.NewStore(), func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	store := postgres.NewStore(db, logger)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	logger.Info("connected to postgres")
	return store, func() { _ = db.Close() }, nil
}

func newLogger(mode string) *zap.Logger {
	if mode == "dev" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return logger
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}
