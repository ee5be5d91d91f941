package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"stocksentiment/internal/domain"
	"stocksentiment/internal/ports"
)

// MentionRepository persists sentiment-scored mentions into sqlite.
// The ingestor performs a lookup-then-insert for its skipped-duplicate
// counter; the unique index on (platform, symbol, url) plus the conflict-
// ignoring insert makes the guarantee hold even when two workers race.
type MentionRepository struct {
	db *sql.DB
}

var _ ports.MentionRepository = (*MentionRepository)(nil)

// NewMentionRepository wires a sql.DB implementation.
func NewMentionRepository(db *sql.DB) *MentionRepository {
	return &MentionRepository{db: db}
}

// Insert appends one mention. A row already stored for the same
// (platform, symbol, url) is left untouched.
func (r *MentionRepository) Insert(ctx context.Context, m domain.Mention) error {
	query := sq.Insert("mentions").
		Columns("platform", "source", "symbol", "created_at", "fetched_at", "text", "url", "sentiment").
		Values(m.Platform, m.Source, m.Symbol,
			formatNaiveUTC(m.CreatedAt), formatNaiveUTC(m.FetchedAt),
			m.Text, m.URL, m.Sentiment).
		Suffix("ON CONFLICT (platform, symbol, url) DO NOTHING")

	if _, err := query.RunWith(r.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert mention: %w", err)
	}
	return nil
}

// Exists reports whether a mention is already stored for the key.
func (r *MentionRepository) Exists(ctx context.Context, platform, symbol, url string) (bool, error) {
	query := sq.Select("1").
		From("mentions").
		Where(sq.Eq{"platform": platform, "symbol": symbol, "url": url}).
		Limit(1)

	var one int
	err := query.RunWith(r.db).QueryRowContext(ctx).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query mention existence: %w", err)
	}
	return true, nil
}

// WindowBySymbol returns all mentions for the symbol with a content
// timestamp at or after since, newest first.
func (r *MentionRepository) WindowBySymbol(ctx context.Context, symbol string, since time.Time) ([]domain.Mention, error) {
	query := sq.Select("id", "platform", "source", "symbol", "created_at", "fetched_at", "text", "url", "sentiment").
		From("mentions").
		Where(sq.Eq{"symbol": symbol}).
		Where(sq.GtOrEq{"created_at": formatNaiveUTC(since)}).
		OrderBy("created_at DESC", "id DESC")

	rows, err := query.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query mentions: %w", err)
	}
	defer rows.Close()

	var mentions []domain.Mention
	for rows.Next() {
		m, err := scanMention(rows)
		if err != nil {
			return nil, err
		}
		mentions = append(mentions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return mentions, nil
}

func scanMention(rows *sql.Rows) (domain.Mention, error) {
	var (
		m         domain.Mention
		createdAt string
		fetchedAt string
	)
	if err := rows.Scan(&m.ID, &m.Platform, &m.Source, &m.Symbol, &createdAt, &fetchedAt, &m.Text, &m.URL, &m.Sentiment); err != nil {
		return domain.Mention{}, fmt.Errorf("scan mention: %w", err)
	}

	var err error
	if m.CreatedAt, err = parseNaiveUTC(createdAt); err != nil {
		return domain.Mention{}, err
	}
	if m.FetchedAt, err = parseNaiveUTC(fetchedAt); err != nil {
		return domain.Mention{}, err
	}

	return m, nil
}
