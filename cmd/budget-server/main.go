package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"budget/internal/cli"
	apphttp "budget/internal/http"
	applog "budget/internal/log"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	ledger := cli.InitLedger(context.Background(), logger, cfg)
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Error("Failed to close ledger", applog.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(apphttp.ServerConfig{
		Addr:               ":" + cfg.Port,
		CacheTTL:           cfg.CacheTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	}, ledger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting budget server", "port", cfg.Port, "db", cfg.LedgerDBPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	<-done
	logger.Info("Server stopped gracefully")
}
