package domain

import "time"

// PlatformNews tags mentions ingested from the news search provider.
// Mention is modelled for additional platforms but only news is wired today.
const PlatformNews = "news"

// Mention is one stored, sentiment-scored text unit for a symbol.
// CreatedAt is the content timestamp as a UTC instant; the zone label is
// dropped only at the storage boundary. Uniqueness is expected per
// (platform, symbol, url).
type Mention struct {
	ID        int64
	Platform  string
	Source    string
	Symbol    string
	CreatedAt time.Time
	FetchedAt time.Time
	Text      string
	URL       string
	Sentiment *float64
}

// SentimentBucket classifies a compound score into report buckets at the
// +-0.2 thresholds used by the report view.
type SentimentBucket int

const (
	BucketNeutral SentimentBucket = iota
	BucketPositive
	BucketNegative
)

// Bucket returns the report bucket for the mention's sentiment.
// Unscored mentions count as neutral.
func (m Mention) Bucket() SentimentBucket {
	if m.Sentiment == nil {
		return BucketNeutral
	}
	switch {
	case *m.Sentiment >= 0.2:
		return BucketPositive
	case *m.Sentiment <= -0.2:
		return BucketNegative
	default:
		return BucketNeutral
	}
}
