package usecase

import (
	"context"
	"time"

	"stocksentiment/internal/domain"
	"stocksentiment/internal/ports"
)

type fakeNewsSource struct {
	articles []ports.Article
	err      error

	gotQuery string
	gotHint  string
}

func (f *fakeNewsSource) FetchArticles(_ context.Context, query, companyHint string, _ int) ([]ports.Article, error) {
	f.gotQuery = query
	f.gotHint = companyHint
	return f.articles, f.err
}

type fakeProfiler struct {
	name string
	err  error
}

func (f *fakeProfiler) CompanyName(context.Context, string) (string, error) {
	return f.name, f.err
}

type fakeMentionRepo struct {
	existing map[string]bool
	inserted []domain.Mention
	window   []domain.Mention

	existsErr error
	insertErr error
}

func (f *fakeMentionRepo) Insert(_ context.Context, m domain.Mention) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, m)
	return nil
}

func (f *fakeMentionRepo) Exists(_ context.Context, platform, symbol, url string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[platform+"|"+symbol+"|"+url], nil
}

func (f *fakeMentionRepo) WindowBySymbol(context.Context, string, time.Time) ([]domain.Mention, error) {
	return f.window, nil
}

type fakeScorer struct {
	score float64
}

func (f *fakeScorer) Score(string) float64 { return f.score }

type fakeQuoteSource struct {
	quote domain.Quote
	err   error

	gotSymbol string
}

func (f *fakeQuoteSource) FetchQuote(_ context.Context, providerSymbol string) (domain.Quote, error) {
	f.gotSymbol = providerSymbol
	return f.quote, f.err
}

type fakeQuoteRepo struct {
	inserted []domain.Quote
	latest   *domain.Quote

	insertErr error
	gotSymbol string
}

func (f *fakeQuoteRepo) Insert(_ context.Context, q domain.Quote) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, q)
	return nil
}

func (f *fakeQuoteRepo) LatestBySymbol(_ context.Context, symbol string) (*domain.Quote, error) {
	f.gotSymbol = symbol
	return f.latest, nil
}

func (f *fakeQuoteRepo) RecentBySymbol(_ context.Context, symbol string, _ int) ([]domain.Quote, error) {
	f.gotSymbol = symbol
	if f.latest == nil {
		return nil, nil
	}
	return []domain.Quote{*f.latest}, nil
}

type fakeSearcher struct {
	matches []ports.SymbolMatch
	err     error

	gotQuery string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]ports.SymbolMatch, error) {
	f.gotQuery = query
	return f.matches, f.err
}
