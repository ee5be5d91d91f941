package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stocksentiment/internal/app"
	"stocksentiment/internal/config"
	"stocksentiment/internal/logging"
)

// collect runs a single collection cycle for one symbol and prints the
// outcome. The exit code is nonzero only when both sources fail.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: collect <symbol>")
		os.Exit(2)
	}

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	result, err := application.CollectOnce(ctx, os.Args[1])
	if err != nil {
		logger.Error("collection aborted", "error", err)
		os.Exit(1)
	}

	fmt.Printf("symbol=%s quote=%s news=%s added=%d dupes=%d old=%d\n",
		result.Symbol, result.QuoteStatus, result.NewsStatus,
		result.MentionsAdded, result.SkippedDupe, result.SkippedTime)
	if result.QuoteError != "" {
		fmt.Printf("quote error: %s\n", result.QuoteError)
	}
	if result.NewsError != "" {
		fmt.Printf("news error: %s\n", result.NewsError)
	}

	if result.Failed() {
		os.Exit(1)
	}
}
