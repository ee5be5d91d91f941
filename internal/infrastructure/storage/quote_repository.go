package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"stocksentiment/internal/domain"
	"stocksentiment/internal/ports"
)

// QuoteRepository persists quote snapshots into sqlite. The table is an
// append-only log keyed by (symbol, fetched_at); there is no update path.
type QuoteRepository struct {
	db *sql.DB
}

var _ ports.QuoteRepository = (*QuoteRepository)(nil)

// NewQuoteRepository wires a sql.DB implementation.
func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Insert appends one quote snapshot.
func (r *QuoteRepository) Insert(ctx context.Context, q domain.Quote) error {
	query := sq.Insert("quotes").
		Columns("symbol", "open", "high", "low", "close", "volume", "fetched_at", "source").
		Values(q.Symbol, q.Open, q.High, q.Low, q.Close, q.Volume, formatNaiveUTC(q.FetchedAt), q.Source)

	if _, err := query.RunWith(r.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// LatestBySymbol returns the most recently fetched quote for the symbol, or
// nil when none is stored.
func (r *QuoteRepository) LatestBySymbol(ctx context.Context, symbol string) (*domain.Quote, error) {
	quotes, err := r.RecentBySymbol(ctx, symbol, 1)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, nil
	}
	return &quotes[0], nil
}

// RecentBySymbol returns up to limit quotes for the symbol, newest first.
func (r *QuoteRepository) RecentBySymbol(ctx context.Context, symbol string, limit int) ([]domain.Quote, error) {
	query := sq.Select("id", "symbol", "open", "high", "low", "close", "volume", "fetched_at", "source").
		From("quotes").
		Where(sq.Eq{"symbol": symbol}).
		OrderBy("fetched_at DESC", "id DESC").
		Limit(uint64(limit))

	rows, err := query.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return quotes, nil
}

func scanQuote(rows *sql.Rows) (domain.Quote, error) {
	var (
		q         domain.Quote
		fetchedAt string
	)
	if err := rows.Scan(&q.ID, &q.Symbol, &q.Open, &q.High, &q.Low, &q.Close, &q.Volume, &fetchedAt, &q.Source); err != nil {
		return domain.Quote{}, fmt.Errorf("scan quote: %w", err)
	}

	t, err := parseNaiveUTC(fetchedAt)
	if err != nil {
		return domain.Quote{}, err
	}
	q.FetchedAt = t

	return q, nil
}
