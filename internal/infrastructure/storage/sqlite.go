package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// naiveLayout is the zone-label-free format used for timestamps at rest.
// All stored instants are UTC; only the labeling is dropped at this
// boundary.
const naiveLayout = "2006-01-02 15:04:05"

// Open connects to the sqlite file and ensures the schema exists.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// sqlite handles one writer at a time; serialize through a single
	// connection instead of surfacing SQLITE_BUSY to callers.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS quotes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			open REAL,
			high REAL,
			low REAL,
			close REAL,
			volume INTEGER,
			fetched_at TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'stooq'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_symbol_fetched
			ON quotes (symbol, fetched_at)`,
		`CREATE TABLE IF NOT EXISTS mentions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			platform TEXT NOT NULL,
			source TEXT NOT NULL,
			symbol TEXT NOT NULL,
			created_at TEXT NOT NULL,
			fetched_at TEXT NOT NULL,
			text TEXT NOT NULL,
			url TEXT NOT NULL,
			sentiment REAL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_mentions_platform_symbol_url
			ON mentions (platform, symbol, url)`,
		`CREATE INDEX IF NOT EXISTS idx_mentions_symbol_created
			ON mentions (symbol, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	return nil
}

func formatNaiveUTC(t time.Time) string {
	return t.UTC().Format(naiveLayout)
}

func parseNaiveUTC(s string) (time.Time, error) {
	t, err := time.ParseInLocation(naiveLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}
