package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budget/internal/amqp"
	"budget/internal/cli"
	applog "budget/internal/log"
	"budget/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel).WithComponent(applog.ComponentWorker)

	if !cfg.AMQPEnabled() {
		logger.Error("budget-worker needs AMQP_URL")
		os.Exit(1)
	}

	logger.Info("Starting budget-worker", "queue", cfg.AMQPQueue, "watch_interval", cfg.WatchInterval)

	// The worker reads the ledger; it does not publish.
	readOnly := *cfg
	readOnly.AMQPURL = ""
	ledger := cli.InitLedger(context.Background(), logger, &readOnly)
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Error("Failed to close ledger", applog.FieldError, err)
		}
	}()

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer consumer.Close()

	watcher := worker.NewBudgetWatcher(ledger, nil)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.ConsumeLedgerChanges(ctx, watcher.HandleLedgerChange)
	})

	g.Go(func() error {
		return watcher.RunPeriodic(ctx, cfg.WatchInterval, logger)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", applog.FieldError, err)
		os.Exit(1)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
	logger.Info("Worker shutdown complete")
}
