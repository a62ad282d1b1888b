// Package cli provides common CLI initialization utilities shared by
// cmd/budget, cmd/budget-server and cmd/budget-worker.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budget/internal/amqp"
	"budget/internal/config"
	applog "budget/internal/log"
	"budget/internal/services"
	"budget/internal/storage"
)

// SetupLogger builds the process logger at the given level and installs it as
// the slog default. Unknown levels fall back to info.
func SetupLogger(level string) *applog.Logger {
	return SetupLoggerTo(level, os.Stdout)
}

// SetupLoggerTo is SetupLogger writing to w.
func SetupLoggerTo(level string, w io.Writer) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = applog.ParseLevel(level)
	cfg.Output = w
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", applog.FieldError, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitLedger opens the store and wraps it in a ledger service. When AMQP is
// configured, mutations are announced on the exchange; a broker that cannot
// be reached is logged and the ledger runs without announcements.
func InitLedger(ctx context.Context, logger *applog.Logger, cfg *config.Config) *services.LedgerService {
	store, err := storage.Open(ctx, cfg.LedgerDBPath)
	if err != nil {
		logger.Error("Failed to open ledger database", applog.FieldError, err, "path", cfg.LedgerDBPath)
		os.Exit(1)
	}

	var publisher services.ChangePublisher
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, ledger changes will not be published", applog.FieldError, err)
		} else {
			publisher = client
			logger.Info("Publishing ledger changes", "exchange", cfg.AMQPExchange)
		}
	}

	return services.NewLedgerService(store, publisher)
}

// GracefulShutdown returns a context that is cancelled on SIGINT or SIGTERM.
// cleanup runs with a context bounded by timeout before the returned context
// is cancelled. done is closed once cleanup has returned.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
			return
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
			return
		}
		logger.Info("Shutdown complete")
	}()

	return ctx, done
}
