package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stocksentiment/internal/domain"
	"stocksentiment/internal/ports"
)

// seenDateLayout is the provider's article timestamp format, e.g.
// 20260127T183000Z (UTC).
const seenDateLayout = "20060102T150405Z"

// corporateSuffixes are stripped from company names to broaden the news
// query term. Longer variants come first so the dotted forms strip cleanly.
var corporateSuffixes = []string{
	" Corporation", " Inc.", " Inc", " Corp.", " Corp", " Ltd.", " Ltd",
}

// IngestStats counts the outcome of one news ingestion run.
type IngestStats struct {
	Added       int
	SkippedDupe int
	SkippedTime int
}

// NewsIngestor fetches recent articles for a symbol, filters and
// deduplicates them, scores their titles, and stores the survivors as
// mentions.
type NewsIngestor struct {
	news     ports.NewsSource
	profiles ports.CompanyProfiler
	mentions ports.MentionRepository
	scorer   ports.SentimentScorer
	logger   *slog.Logger

	maxRecords int
	window     time.Duration
	now        func() time.Time
}

// NewsIngestorDeps wires the ingestor's collaborators.
type NewsIngestorDeps struct {
	News       ports.NewsSource
	Profiles   ports.CompanyProfiler
	Mentions   ports.MentionRepository
	Scorer     ports.SentimentScorer
	Logger     *slog.Logger
	MaxRecords int
	Window     time.Duration
}

// NewNewsIngestor constructs the ingestor with defaults of 50 records and a
// 24 hour window.
func NewNewsIngestor(deps NewsIngestorDeps) *NewsIngestor {
	if deps.MaxRecords <= 0 {
		deps.MaxRecords = 50
	}
	if deps.Window <= 0 {
		deps.Window = 24 * time.Hour
	}
	return &NewsIngestor{
		news:       deps.News,
		profiles:   deps.Profiles,
		mentions:   deps.Mentions,
		scorer:     deps.Scorer,
		logger:     deps.Logger,
		maxRecords: deps.MaxRecords,
		window:     deps.Window,
		now:        time.Now,
	}
}

// Ingest runs one bounded ingestion cycle for a canonical symbol.
func (n *NewsIngestor) Ingest(ctx context.Context, canonical string) (IngestStats, error) {
	var stats IngestStats

	company := n.companyName(ctx, canonical)

	query, err := BuildQuery(company, canonical)
	if err != nil {
		return stats, fmt.Errorf("build news query: %w", err)
	}

	articles, err := n.news.FetchArticles(ctx, query, companyTerm(company), n.maxRecords)
	if err != nil {
		return stats, fmt.Errorf("fetch articles: %w", err)
	}

	now := n.now().UTC()
	since := now.Add(-n.window)

	for _, a := range articles {
		if a.URL == "" || a.SeenDate == "" {
			continue
		}

		createdAt, err := parseSeenDate(a.SeenDate)
		if err != nil {
			// Malformed articles are dropped, never fatal.
			if n.logger != nil {
				n.logger.Debug("dropping article with bad timestamp", "seendate", a.SeenDate, "url", a.URL)
			}
			continue
		}

		if createdAt.Before(since) {
			stats.SkippedTime++
			continue
		}

		exists, err := n.mentions.Exists(ctx, domain.PlatformNews, canonical, a.URL)
		if err != nil {
			return stats, fmt.Errorf("check mention existence: %w", err)
		}
		if exists {
			stats.SkippedDupe++
			continue
		}

		text := strings.TrimSpace(a.Title)
		var sentiment *float64
		if text != "" {
			score := n.scorer.Score(text)
			sentiment = &score
		}

		mention := domain.Mention{
			Platform:  domain.PlatformNews,
			Source:    "gdelt",
			Symbol:    canonical,
			CreatedAt: createdAt,
			FetchedAt: now,
			Text:      text,
			URL:       a.URL,
			Sentiment: sentiment,
		}
		if err := n.mentions.Insert(ctx, mention); err != nil {
			return stats, fmt.Errorf("store mention: %w", err)
		}
		stats.Added++
	}

	if n.logger != nil {
		n.logger.Info("news ingestion finished",
			"symbol", canonical,
			"added", stats.Added,
			"skipped_dupe", stats.SkippedDupe,
			"skipped_time", stats.SkippedTime)
	}

	return stats, nil
}

// companyName is a best-effort profile lookup; any failure yields an empty
// name, which simply removes the company term from query construction.
func (n *NewsIngestor) companyName(ctx context.Context, symbol string) string {
	if n.profiles == nil {
		return ""
	}
	name, err := n.profiles.CompanyName(ctx, symbol)
	if err != nil {
		if n.logger != nil {
			n.logger.Debug("company profile unavailable", "symbol", symbol, "error", err)
		}
		return ""
	}
	return name
}

// BuildQuery constructs the boolean OR of up to two terms: the broadened
// company name (corporate suffixes stripped, used only when at least four
// characters survive) and the bare ticker token. Both terms present wraps
// them in parentheses; neither qualifying is an error.
func BuildQuery(company, ticker string) (string, error) {
	var terms []string

	if term := companyTerm(company); term != "" {
		terms = append(terms, term)
	}
	if ticker = strings.TrimSpace(ticker); ticker != "" {
		terms = append(terms, ticker)
	}

	switch len(terms) {
	case 0:
		return "", fmt.Errorf("no query terms qualify")
	case 1:
		return terms[0], nil
	default:
		return "(" + strings.Join(terms, " OR ") + ")", nil
	}
}

// companyTerm broadens a company name by stripping corporate suffixes.
// Names shorter than four characters after stripping are discarded.
func companyTerm(company string) string {
	term := strings.TrimSpace(company)
	if term == "" {
		return ""
	}
	for _, suffix := range corporateSuffixes {
		term = strings.ReplaceAll(term, suffix, "")
	}
	term = strings.TrimSpace(term)
	if len(term) < 4 {
		return ""
	}
	return term
}

// parseSeenDate interprets the provider timestamp as a UTC instant.
func parseSeenDate(s string) (time.Time, error) {
	t, err := time.Parse(seenDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
