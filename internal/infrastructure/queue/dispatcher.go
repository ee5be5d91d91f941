package queue

import (
	"context"
	"log/slog"

	"stocksentiment/internal/domain"
	"stocksentiment/internal/ports"
)

// Backend is the queue surface the dispatcher needs. *Redis implements it;
// tests substitute fakes.
type Backend interface {
	Ping(ctx context.Context) error
	Enqueue(ctx context.Context, symbol string) (string, error)
	Status(ctx context.Context, id string) (domain.JobStatus, error)
}

// Dispatcher selects between queued and inline execution per call. A nil
// backend means no queue is configured; a configured but unreachable
// backend (or an unexpected enqueue failure) falls back to running the
// collector synchronously in the calling context.
type Dispatcher struct {
	backend   Backend
	collector ports.Collector
	logger    *slog.Logger
}

var _ ports.Dispatcher = (*Dispatcher)(nil)

// NewDispatcher wires the optional backend with the orchestrator.
func NewDispatcher(backend Backend, collector ports.Collector, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{backend: backend, collector: collector, logger: logger}
}

// Dispatch enqueues the collection run when the backend is reachable and
// otherwise executes it inline. Inline dispatches carry the result and no
// job identifier.
func (d *Dispatcher) Dispatch(ctx context.Context, symbol string) (domain.Dispatch, error) {
	if d.backend == nil {
		return d.runInline(ctx, symbol, domain.ModeNoQueueConfigured), nil
	}

	if err := d.backend.Ping(ctx); err != nil {
		if d.logger != nil {
			d.logger.Warn("queue backend unreachable, running inline", "error", err)
		}
		return d.runInline(ctx, symbol, domain.ModeRunningInline), nil
	}

	jobID, err := d.backend.Enqueue(ctx, symbol)
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("enqueue failed, running inline", "error", err)
		}
		return d.runInline(ctx, symbol, domain.ModeRunningInline), nil
	}

	if d.logger != nil {
		d.logger.Info("collection job queued", "symbol", symbol, "job_id", jobID)
	}
	return domain.Dispatch{JobID: jobID, Mode: domain.ModeQueued}, nil
}

func (d *Dispatcher) runInline(ctx context.Context, symbol string, mode domain.DispatchMode) domain.Dispatch {
	result := d.collector.Run(ctx, symbol)
	return domain.Dispatch{Mode: mode, Result: &result}
}

// Status looks a job up on the backend. Without a configured backend the
// outcome is the distinct unavailable error.
func (d *Dispatcher) Status(ctx context.Context, jobID string) (domain.JobStatus, error) {
	if d.backend == nil {
		return domain.JobStatus{}, domain.ErrQueueUnavailable
	}
	return d.backend.Status(ctx, jobID)
}
