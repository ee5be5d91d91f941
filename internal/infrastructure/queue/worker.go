package queue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stocksentiment/internal/ports"
)

const dequeueWait = 5 * time.Second

// Worker pulls collection jobs from the Redis backend and executes them.
// Multiple worker processes may share one queue; the mention store's
// uniqueness index keeps concurrent ingestions of the same URL at most
// once.
type Worker struct {
	backend   *Redis
	collector ports.Collector
	logger    *slog.Logger
}

// NewWorker wires the backend with the orchestrator.
func NewWorker(backend *Redis, collector ports.Collector, logger *slog.Logger) *Worker {
	return &Worker{backend: backend, collector: collector, logger: logger}
}

// Run processes jobs until the context is cancelled. A job, once dequeued,
// runs to completion or failure regardless of whether anyone still polls
// its status.
func (w *Worker) Run(ctx context.Context) error {
	if w.logger != nil {
		w.logger.Info("worker started")
	}

	for {
		id, err := w.backend.Dequeue(ctx, dequeueWait)
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		if err != nil {
			if w.logger != nil {
				w.logger.Error("dequeue failed", "error", err)
			}
			// Back off briefly so a dead backend does not spin the loop.
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(dequeueWait):
			}
			continue
		}
		if id == "" {
			continue
		}

		w.process(ctx, id)
	}
}

func (w *Worker) process(ctx context.Context, id string) {
	symbol, err := w.backend.Symbol(ctx, id)
	if err != nil {
		if w.logger != nil {
			w.logger.Error("job lookup failed", "job_id", id, "error", err)
		}
		return
	}

	if err := w.backend.MarkStarted(ctx, id); err != nil {
		if w.logger != nil {
			w.logger.Error("job start mark failed", "job_id", id, "error", err)
		}
	}

	result := w.collector.Run(ctx, symbol)

	if result.Failed() {
		detail := "quote: " + result.QuoteError + "; news: " + result.NewsError
		if err := w.backend.MarkFailed(ctx, id, detail); err != nil && w.logger != nil {
			w.logger.Error("job fail mark failed", "job_id", id, "error", err)
		}
		return
	}

	if err := w.backend.MarkFinished(ctx, id, result); err != nil && w.logger != nil {
		w.logger.Error("job finish mark failed", "job_id", id, "error", err)
	}
}
