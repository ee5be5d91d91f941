package ports

import (
	"context"
	"time"

	"stocksentiment/internal/domain"
)

// QuoteSource fetches one OHLCV snapshot for an exchange-suffixed symbol.
type QuoteSource interface {
	FetchQuote(ctx context.Context, providerSymbol string) (domain.Quote, error)
}

// Article is a raw news-search result before filtering and scoring.
type Article struct {
	URL      string
	Title    string
	SeenDate string
}

// NewsSource queries the news-search provider. Implementations own the
// retry-on-throttle and query-narrowing fallback protocol; companyHint
// feeds the narrowed recovery query.
type NewsSource interface {
	FetchArticles(ctx context.Context, query, companyHint string, maxRecords int) ([]Article, error)
}

// SymbolMatch is one ranked candidate from the symbol-search provider.
type SymbolMatch struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

// SymbolSearcher resolves free-form text to candidate symbols. Used both by
// the resolver and by UI autocomplete.
type SymbolSearcher interface {
	Search(ctx context.Context, query string) ([]SymbolMatch, error)
}

// CompanyProfiler resolves a canonical ticker to a display company name.
// Callers treat any failure as "no name available".
type CompanyProfiler interface {
	CompanyName(ctx context.Context, symbol string) (string, error)
}

// SentimentScorer assigns a bounded compound polarity in [-1, 1] to short
// text. Empty text scores exactly zero.
type SentimentScorer interface {
	Score(text string) float64
}

// QuoteRepository is the append-only quote store.
type QuoteRepository interface {
	Insert(ctx context.Context, q domain.Quote) error
	LatestBySymbol(ctx context.Context, symbol string) (*domain.Quote, error)
	RecentBySymbol(ctx context.Context, symbol string, limit int) ([]domain.Quote, error)
}

// MentionRepository is the append-only mention store with a uniqueness
// expectation on (platform, symbol, url).
type MentionRepository interface {
	Insert(ctx context.Context, m domain.Mention) error
	Exists(ctx context.Context, platform, symbol, url string) (bool, error)
	WindowBySymbol(ctx context.Context, symbol string, since time.Time) ([]domain.Mention, error)
}

// Collector runs one bounded collection cycle for a canonical symbol.
type Collector interface {
	Run(ctx context.Context, symbol string) domain.CollectionResult
}

// Dispatcher decides whether a collection run executes on the queue or
// inline in the calling context, and exposes job-status lookup.
// Status returns domain.ErrQueueUnavailable when no backend is configured
// and domain.ErrJobNotFound for unknown identifiers.
type Dispatcher interface {
	Dispatch(ctx context.Context, symbol string) (domain.Dispatch, error)
	Status(ctx context.Context, jobID string) (domain.JobStatus, error)
}
