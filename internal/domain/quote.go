package domain

import "time"

// Quote is one point-in-time OHLCV snapshot for a provider symbol.
// Rows are append-only: a quote is never updated or deleted after storage.
// Price fields are pointers because the provider reports some of them as
// not-available sentinels; absent is distinct from zero.
type Quote struct {
	ID        int64
	Symbol    string
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	Volume    *int64
	FetchedAt time.Time
	Source    string
}
