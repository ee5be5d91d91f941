package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stocksentiment/internal/domain"
	"stocksentiment/internal/ports"
)

const headlineLimit = 25

// Report is the assembled last-24h view for one symbol.
type Report struct {
	Symbol       string
	LatestQuote  *domain.Quote
	MentionCount int
	AvgSentiment *float64
	Positive     int
	Neutral      int
	Negative     int
	Verdict      string
	Hours        []HourBucket
	Headlines    []domain.Mention
}

// HourBucket counts mentions whose content timestamp falls in one UTC hour.
type HourBucket struct {
	Hour  time.Time
	Count int
}

// ReportBuilder assembles report data from the stores. It only reads; the
// pipeline owns all writes.
type ReportBuilder struct {
	quotes   ports.QuoteRepository
	mentions ports.MentionRepository
	window   time.Duration
	now      func() time.Time
}

// NewReportBuilder wires the repositories; window defaults to 24 hours.
func NewReportBuilder(quotes ports.QuoteRepository, mentions ports.MentionRepository, window time.Duration) *ReportBuilder {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &ReportBuilder{quotes: quotes, mentions: mentions, window: window, now: time.Now}
}

// Build loads the latest quote and windows the stored mentions for the
// canonical symbol. Quotes are stored under the exchange-suffixed form the
// provider echoes back, so the lookup translates before querying.
func (b *ReportBuilder) Build(ctx context.Context, symbol string) (Report, error) {
	report := Report{Symbol: symbol, Verdict: "No data"}

	quote, err := b.quotes.LatestBySymbol(ctx, domain.ToProviderSymbol(symbol))
	if err != nil {
		return Report{}, fmt.Errorf("load latest quote: %w", err)
	}
	report.LatestQuote = quote

	since := b.now().UTC().Add(-b.window)
	mentions, err := b.mentions.WindowBySymbol(ctx, symbol, since)
	if err != nil {
		return Report{}, fmt.Errorf("load mentions: %w", err)
	}

	report.MentionCount = len(mentions)
	if len(mentions) == 0 {
		return report, nil
	}

	var (
		sum    float64
		scored int
		hours  = map[time.Time]int{}
	)
	for _, m := range mentions {
		switch m.Bucket() {
		case domain.BucketPositive:
			report.Positive++
		case domain.BucketNegative:
			report.Negative++
		default:
			report.Neutral++
		}
		if m.Sentiment != nil {
			sum += *m.Sentiment
			scored++
		}
		hours[m.CreatedAt.Truncate(time.Hour)]++
	}

	if scored > 0 {
		avg := sum / float64(scored)
		report.AvgSentiment = &avg
		report.Verdict = verdict(avg)
	} else {
		report.Verdict = "Neutral"
	}

	report.Hours = sortedHours(hours)

	if len(mentions) > headlineLimit {
		mentions = mentions[:headlineLimit]
	}
	report.Headlines = mentions

	return report, nil
}

func verdict(avg float64) string {
	switch {
	case avg >= 0.2:
		return "Bullish"
	case avg <= -0.2:
		return "Bearish"
	default:
		return "Neutral"
	}
}

func sortedHours(hours map[time.Time]int) []HourBucket {
	buckets := make([]HourBucket, 0, len(hours))
	for hour, count := range hours {
		buckets = append(buckets, HourBucket{Hour: hour, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Hour.After(buckets[j].Hour)
	})
	return buckets
}
