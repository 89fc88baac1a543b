package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/football-data-pipeline/internal/config"
	"github.com/riskibarqy/football-data-pipeline/internal/observability"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/logging"
	"github.com/riskibarqy/football-data-pipeline/internal/usecase"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries command output; logs go to stderr.
	logger := logging.New(os.Stderr, cfg.LogLevel, logging.ParseFormat(cfg.LogFormat)).With("service", cfg.ServiceName)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	rt := newRuntime(cfg, logger)
	runErr := newRootCommand(rt).ExecuteContext(ctx)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.Close(); err != nil {
		logger.Warn("close app", "error", err)
	}
	if err := stopProfiling(); err != nil {
		logger.Warn("stop pyroscope", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("shutdown uptrace", "error", err)
	}

	if runErr != nil {
		logger.Error("command failed", "error", runErr)
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(usecase.ExitCode(runErr))
	}
}
