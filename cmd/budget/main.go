package main

import (
	"context"
	"os"

	"budget/internal/cli"
	applog "budget/internal/log"
	"budget/internal/shell"
)

func main() {
	cli.LoadEnvFile()

	// The menu owns stdout, so logs go to stderr.
	logger := cli.SetupLoggerTo(os.Getenv("LOG_LEVEL"), os.Stderr)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLoggerTo(cfg.LogLevel, os.Stderr)

	// No signal handling here: the shell blocks on stdin, so Ctrl-C keeps its
	// default meaning. SQLite needs nothing from us on abrupt exit.
	ctx := context.Background()
	ledger := cli.InitLedger(ctx, logger, cfg)
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Error("Failed to close ledger", applog.FieldError, err)
		}
	}()

	if err := shell.New(ledger, os.Stdin, os.Stdout).Run(ctx); err != nil {
		logger.Error("Shell stopped", applog.FieldError, err)
		os.Exit(1)
	}
}
