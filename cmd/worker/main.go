package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stocksentiment/internal/app"
	"stocksentiment/internal/config"
	"stocksentiment/internal/logging"
)

func main() {
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

	logger.Info("worker started", "queue", cfg.Queue.Name)
	if err := application.RunWorker(ctx); err != nil {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("worker shut down")
}
