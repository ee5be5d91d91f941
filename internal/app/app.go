package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"stocksentiment/internal/config"
	"stocksentiment/internal/domain"
	"stocksentiment/internal/infrastructure/finnhub"
	"stocksentiment/internal/infrastructure/gdelt"
	"stocksentiment/internal/infrastructure/queue"
	"stocksentiment/internal/infrastructure/stooq"
	"stocksentiment/internal/infrastructure/storage"
	"stocksentiment/internal/logging"
	"stocksentiment/internal/monitoring"
	"stocksentiment/internal/sentiment"
	"stocksentiment/internal/server"
	"stocksentiment/internal/usecase"
)

const templateGlob = "templates/*"

// Application wires configuration to adapters and use cases. All three
// processes (server, worker, one-shot collect) share this wiring.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	db      *sql.DB
	backend *queue.Redis

	resolver   *usecase.Resolver
	collector  *usecase.Collector
	dispatcher *queue.Dispatcher
	reports    *usecase.ReportBuilder
	symbols    *finnhub.Client
	metrics    *monitoring.Metrics
}

// New opens storage, probes nothing, and assembles the object graph.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Application, error) {
	db, err := storage.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	quoteRepo := storage.NewQuoteRepository(db)
	mentionRepo := storage.NewMentionRepository(db)

	finnhubClient := finnhub.New(
		cfg.Providers.Finnhub.BaseURL,
		cfg.Providers.Finnhub.APIKey,
		&http.Client{Timeout: time.Duration(cfg.Providers.Finnhub.TimeoutSec) * time.Second},
	)

	window := time.Duration(cfg.Collector.WindowHours) * time.Hour

	ingestor := usecase.NewNewsIngestor(usecase.NewsIngestorDeps{
		News: gdelt.New(
			cfg.Providers.GDELT.BaseURL,
			&http.Client{Timeout: time.Duration(cfg.Providers.GDELT.TimeoutSec) * time.Second},
			logging.Component(logger, "gdelt"),
		),
		Profiles:   finnhubClient,
		Mentions:   mentionRepo,
		Scorer:     sentiment.New(),
		Logger:     logging.Component(logger, "ingestor"),
		MaxRecords: cfg.Providers.GDELT.MaxRecords,
		Window:     window,
	})

	collector := usecase.NewCollector(usecase.CollectorDeps{
		Quotes: stooq.New(
			cfg.Providers.Stooq.BaseURL,
			&http.Client{Timeout: time.Duration(cfg.Providers.Stooq.TimeoutSec) * time.Second},
		),
		QuoteRepo: quoteRepo,
		Ingestor:  ingestor,
		Logger:    logging.Component(logger, "collector"),
	})

	var backend *queue.Redis
	if cfg.Queue.RedisURL != "" {
		backend, err = queue.NewRedis(
			cfg.Queue.RedisURL,
			cfg.Queue.Name,
			time.Duration(cfg.Queue.JobTTLMinutes)*time.Minute,
		)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("queue backend: %w", err)
		}
	}

	// An untyped nil keeps the dispatcher's "no queue configured" probe
	// meaningful; a typed nil *Redis would not.
	var dispatchBackend queue.Backend
	if backend != nil {
		dispatchBackend = backend
	}

	return &Application{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		backend:    backend,
		resolver:   usecase.NewResolver(finnhubClient, logging.Component(logger, "resolver")),
		collector:  collector,
		dispatcher: queue.NewDispatcher(dispatchBackend, collector, logging.Component(logger, "dispatcher")),
		reports:    usecase.NewReportBuilder(quoteRepo, mentionRepo, window),
		symbols:    finnhubClient,
		metrics:    monitoring.New(),
	}, nil
}

// Close releases storage and queue connections.
func (a *Application) Close() error {
	if a.backend != nil {
		_ = a.backend.Close()
	}
	return a.db.Close()
}

// RunServer serves the web process until the context is cancelled.
func (a *Application) RunServer(ctx context.Context) error {
	web := server.New(server.Deps{
		Resolver:   a.resolver,
		Collector:  a.collector,
		Dispatcher: a.dispatcher,
		Reports:    a.reports,
		Search:     a.symbols,
		Logger:     logging.Component(a.logger, "server"),
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           web.Router(a.metrics, templateGlob),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "port", a.cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// RunWorker pulls collection jobs from the queue until cancelled. It is an
// error to run the worker without a configured queue backend.
func (a *Application) RunWorker(ctx context.Context) error {
	if a.backend == nil {
		return domain.ErrQueueUnavailable
	}

	worker := queue.NewWorker(a.backend, a.collector, logging.Component(a.logger, "worker"))
	return worker.Run(ctx)
}

// CollectOnce resolves the input to its canonical form and runs a single
// inline collection cycle.
func (a *Application) CollectOnce(ctx context.Context, input string) (domain.CollectionResult, error) {
	symbol := domain.Canonicalize(a.resolver.Resolve(ctx, input))
	if symbol == "" {
		return domain.CollectionResult{}, fmt.Errorf("empty symbol")
	}
	return a.collector.Run(ctx, symbol), nil
}
