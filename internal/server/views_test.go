package server

import (
	"testing"
	"time"

	"stocksentiment/internal/domain"
	"stocksentiment/internal/usecase"
)

func TestNewReportViewFormatting(t *testing.T) {
	closePrice := 233.171
	avg := 0.4567
	sentiment := -0.345
	created := time.Date(2026, 8, 27, 18, 30, 0, 0, time.UTC)

	report := usecase.Report{
		Symbol:       "AAPL",
		Verdict:      "Bullish",
		LatestQuote:  &domain.Quote{Close: &closePrice},
		MentionCount: 3,
		AvgSentiment: &avg,
		Hours:        []usecase.HourBucket{{Hour: created.Truncate(time.Hour), Count: 2}},
		Headlines: []domain.Mention{
			{CreatedAt: created, Text: "Scored", Sentiment: &sentiment, URL: "https://news.example/a"},
			{CreatedAt: created, Text: "Unscored", URL: "https://news.example/b"},
		},
	}

	view := newReportView(report)

	if view.Price != "233.17" {
		t.Errorf("Price = %q, want 233.17", view.Price)
	}
	if view.Avg != "+0.457" {
		t.Errorf("Avg = %q, want +0.457", view.Avg)
	}
	if view.BadgeClass != "bullish" {
		t.Errorf("BadgeClass = %q, want bullish", view.BadgeClass)
	}
	if len(view.Hours) != 1 || view.Hours[0].Hour != "2026-08-27 18:00" {
		t.Errorf("Hours = %+v", view.Hours)
	}
	if view.Headlines[0].Sentiment != "-0.35" && view.Headlines[0].Sentiment != "-0.34" {
		t.Errorf("scored headline sentiment = %q", view.Headlines[0].Sentiment)
	}
	if view.Headlines[1].Sentiment != "NA" {
		t.Errorf("unscored headline sentiment = %q, want NA", view.Headlines[1].Sentiment)
	}
}

func TestNewReportViewNoData(t *testing.T) {
	view := newReportView(usecase.Report{Symbol: "AAPL", Verdict: "No data"})

	if view.Price != "–" {
		t.Errorf("Price = %q, want placeholder", view.Price)
	}
	if view.Avg != "–" {
		t.Errorf("Avg = %q, want placeholder", view.Avg)
	}
	if view.BadgeClass != "neutral" {
		t.Errorf("BadgeClass = %q, want neutral", view.BadgeClass)
	}
}
