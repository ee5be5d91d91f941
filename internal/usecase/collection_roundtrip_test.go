package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksentiment/internal/domain"
	"stocksentiment/internal/infrastructure/stooq"
	"stocksentiment/internal/infrastructure/storage"
	"stocksentiment/internal/ports"
)

// The write path stores quotes under the exchange-suffixed provider symbol
// and mentions under the canonical one. This drives the whole chain with
// real sqlite repositories and a real quote client, then reads back through
// the report builder with the symbol the web handlers pass in.
func TestCollectionReportRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 27, 20, 0, 0, 0, time.UTC)

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "roundtrip.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var gotQuoteSymbol string
	quoteServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuoteSymbol = r.URL.Query().Get("s")
		w.Write([]byte("Symbol,Date,Time,Open,High,Low,Close,Volume\n" +
			"AAPL.US,2026-08-27,20:00:00,230.45,234.10,229.80,233.17,51234567\n"))
	}))
	t.Cleanup(quoteServer.Close)

	quoteRepo := storage.NewQuoteRepository(db)
	mentionRepo := storage.NewMentionRepository(db)

	ing := NewNewsIngestor(NewsIngestorDeps{
		News: &fakeNewsSource{articles: []ports.Article{
			{URL: "https://news.example/a", Title: "Apple beats estimates", SeenDate: "20260827T183000Z"},
		}},
		Profiles: &fakeProfiler{name: "Apple Inc"},
		Mentions: mentionRepo,
		Scorer:   &fakeScorer{score: 0.5},
	})
	ing.now = func() time.Time { return now }

	collector := NewCollector(CollectorDeps{
		Quotes:    stooq.New(quoteServer.URL, quoteServer.Client()),
		QuoteRepo: quoteRepo,
		Ingestor:  ing,
	})

	// The canonical form the handlers derive from input like "aapl" or
	// "$aapl.us" before collecting.
	result := collector.Run(ctx, "AAPL")
	require.Equal(t, domain.StatusOK, result.QuoteStatus)
	require.Equal(t, domain.StatusOK, result.NewsStatus)
	require.Equal(t, 1, result.MentionsAdded)
	assert.Equal(t, "aapl.us", gotQuoteSymbol)

	builder := NewReportBuilder(quoteRepo, mentionRepo, 24*time.Hour)
	builder.now = func() time.Time { return now }

	report, err := builder.Build(ctx, "AAPL")
	require.NoError(t, err)

	require.NotNil(t, report.LatestQuote, "collected quote must be visible to the report")
	assert.Equal(t, "AAPL.US", report.LatestQuote.Symbol)
	require.NotNil(t, report.LatestQuote.Close)
	assert.Equal(t, 233.17, *report.LatestQuote.Close)

	assert.Equal(t, 1, report.MentionCount)
	require.Len(t, report.Headlines, 1)
	assert.Equal(t, "AAPL", report.Headlines[0].Symbol)
	assert.Equal(t, "Bullish", report.Verdict)
}
