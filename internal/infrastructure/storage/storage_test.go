package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksentiment/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func fp(v float64) *float64 { return &v }
func ip(v int64) *int64     { return &v }

func TestQuoteRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	fetchedAt := time.Date(2026, 8, 27, 20, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, domain.Quote{
		Symbol:    "AAPL.US",
		Open:      fp(230.45),
		High:      fp(234.10),
		Low:       fp(229.80),
		Close:     fp(233.17),
		Volume:    ip(51234567),
		FetchedAt: fetchedAt,
		Source:    "stooq",
	}))

	quote, err := repo.LatestBySymbol(ctx, "AAPL.US")
	require.NoError(t, err)
	require.NotNil(t, quote)

	assert.Equal(t, "AAPL.US", quote.Symbol)
	require.NotNil(t, quote.Close)
	assert.Equal(t, 233.17, *quote.Close)
	require.NotNil(t, quote.Volume)
	assert.Equal(t, int64(51234567), *quote.Volume)
	assert.Equal(t, fetchedAt, quote.FetchedAt)
	assert.Equal(t, "stooq", quote.Source)
}

func TestQuoteRepositoryNullFields(t *testing.T) {
	db := openTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, domain.Quote{
		Symbol:    "XXXX.US",
		FetchedAt: time.Now().UTC(),
		Source:    "stooq",
	}))

	quote, err := repo.LatestBySymbol(ctx, "XXXX.US")
	require.NoError(t, err)
	require.NotNil(t, quote)

	assert.Nil(t, quote.Open)
	assert.Nil(t, quote.Close)
	assert.Nil(t, quote.Volume)
}

func TestQuoteRepositoryLatestWins(t *testing.T) {
	db := openTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	for i, price := range []float64{100, 101, 102} {
		require.NoError(t, repo.Insert(ctx, domain.Quote{
			Symbol:    "AAPL.US",
			Close:     fp(price),
			FetchedAt: base.Add(time.Duration(i) * time.Hour),
			Source:    "stooq",
		}))
	}

	quote, err := repo.LatestBySymbol(ctx, "AAPL.US")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, 102.0, *quote.Close)

	recent, err := repo.RecentBySymbol(ctx, "AAPL.US", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 102.0, *recent[0].Close)
	assert.Equal(t, 101.0, *recent[1].Close)
}

func TestQuoteRepositoryUnknownSymbol(t *testing.T) {
	db := openTestDB(t)
	repo := NewQuoteRepository(db)

	quote, err := repo.LatestBySymbol(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func newMention(symbol, url string, createdAt time.Time, sentiment *float64) domain.Mention {
	return domain.Mention{
		Platform:  domain.PlatformNews,
		Source:    "gdelt",
		Symbol:    symbol,
		CreatedAt: createdAt,
		FetchedAt: createdAt,
		Text:      "headline",
		URL:       url,
		Sentiment: sentiment,
	}
}

func TestMentionRepositoryExists(t *testing.T) {
	db := openTestDB(t)
	repo := NewMentionRepository(db)
	ctx := context.Background()

	createdAt := time.Date(2026, 8, 27, 18, 30, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, newMention("AAPL", "https://news.example/a", createdAt, fp(0.4))))

	exists, err := repo.Exists(ctx, domain.PlatformNews, "AAPL", "https://news.example/a")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, domain.PlatformNews, "AAPL", "https://news.example/other")
	require.NoError(t, err)
	assert.False(t, exists)

	// Same URL under another symbol is a distinct mention.
	exists, err = repo.Exists(ctx, domain.PlatformNews, "MSFT", "https://news.example/a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMentionRepositoryConflictIgnored(t *testing.T) {
	db := openTestDB(t)
	repo := NewMentionRepository(db)
	ctx := context.Background()

	createdAt := time.Date(2026, 8, 27, 18, 30, 0, 0, time.UTC)
	m := newMention("AAPL", "https://news.example/a", createdAt, fp(0.4))

	require.NoError(t, repo.Insert(ctx, m))
	require.NoError(t, repo.Insert(ctx, m))

	mentions, err := repo.WindowBySymbol(ctx, "AAPL", createdAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, mentions, 1)
}

func TestMentionRepositoryWindow(t *testing.T) {
	db := openTestDB(t)
	repo := NewMentionRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 8, 27, 20, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, newMention("AAPL", "https://news.example/old", now.Add(-30*time.Hour), fp(0.1))))
	require.NoError(t, repo.Insert(ctx, newMention("AAPL", "https://news.example/mid", now.Add(-10*time.Hour), nil)))
	require.NoError(t, repo.Insert(ctx, newMention("AAPL", "https://news.example/new", now.Add(-1*time.Hour), fp(-0.3))))
	require.NoError(t, repo.Insert(ctx, newMention("MSFT", "https://news.example/other", now.Add(-1*time.Hour), fp(0.2))))

	mentions, err := repo.WindowBySymbol(ctx, "AAPL", now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, mentions, 2)

	assert.Equal(t, "https://news.example/new", mentions[0].URL)
	assert.Equal(t, "https://news.example/mid", mentions[1].URL)

	require.NotNil(t, mentions[0].Sentiment)
	assert.Equal(t, -0.3, *mentions[0].Sentiment)
	assert.Nil(t, mentions[1].Sentiment)
	assert.Equal(t, now.Add(-1*time.Hour), mentions[0].CreatedAt)
}

func TestNaiveTimestampRoundTrip(t *testing.T) {
	instant := time.Date(2026, 8, 27, 18, 30, 45, 0, time.UTC)

	stored := formatNaiveUTC(instant)
	assert.Equal(t, "2026-08-27 18:30:45", stored)

	parsed, err := parseNaiveUTC(stored)
	require.NoError(t, err)
	assert.Equal(t, instant, parsed)

	// Non-UTC inputs normalize before the label is dropped.
	offset := time.FixedZone("CEST", 2*3600)
	local := time.Date(2026, 8, 27, 18, 30, 45, 0, offset)
	assert.Equal(t, "2026-08-27 16:30:45", formatNaiveUTC(local))
}
