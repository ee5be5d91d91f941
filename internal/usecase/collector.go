package usecase

import (
	"context"
	"log/slog"
	"sync"

	"stocksentiment/internal/domain"
	"stocksentiment/internal/ports"
)

// Collector orchestrates one collection cycle: the quote fetch and the news
// ingestion run independently for the same symbol, and a failure in one
// never prevents the other. The collector itself never returns an error;
// sub-operation failures surface only as statuses in the result.
type Collector struct {
	quotes    ports.QuoteSource
	quoteRepo ports.QuoteRepository
	ingestor  *NewsIngestor
	logger    *slog.Logger
}

var _ ports.Collector = (*Collector)(nil)

// CollectorDeps wires the orchestrator's collaborators.
type CollectorDeps struct {
	Quotes    ports.QuoteSource
	QuoteRepo ports.QuoteRepository
	Ingestor  *NewsIngestor
	Logger    *slog.Logger
}

// NewCollector constructs the orchestration component.
func NewCollector(deps CollectorDeps) *Collector {
	return &Collector{
		quotes:    deps.Quotes,
		quoteRepo: deps.QuoteRepo,
		ingestor:  deps.Ingestor,
		logger:    deps.Logger,
	}
}

// Run executes both sub-collections for the canonical symbol and reports
// their outcomes. The overall run counts as failed only when both fail.
func (c *Collector) Run(ctx context.Context, symbol string) domain.CollectionResult {
	result := domain.CollectionResult{
		Symbol:      symbol,
		QuoteStatus: domain.StatusOK,
		NewsStatus:  domain.StatusOK,
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := c.collectQuote(ctx, symbol); err != nil {
			result.QuoteStatus = domain.StatusFailed
			result.QuoteError = err.Error()
		}
	}()

	go func() {
		defer wg.Done()
		stats, err := c.ingestor.Ingest(ctx, symbol)
		result.MentionsAdded = stats.Added
		result.SkippedDupe = stats.SkippedDupe
		result.SkippedTime = stats.SkippedTime
		if err != nil {
			result.NewsStatus = domain.StatusFailed
			result.NewsError = err.Error()
		}
	}()

	wg.Wait()

	if c.logger != nil {
		c.logger.Info("collection finished",
			"symbol", symbol,
			"quote_status", result.QuoteStatus,
			"news_status", result.NewsStatus,
			"mentions_added", result.MentionsAdded)
	}

	return result
}

func (c *Collector) collectQuote(ctx context.Context, symbol string) error {
	quote, err := c.quotes.FetchQuote(ctx, domain.ToProviderSymbol(symbol))
	if err != nil {
		return err
	}
	return c.quoteRepo.Insert(ctx, quote)
}
