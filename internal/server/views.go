package server

import (
	"fmt"

	"stocksentiment/internal/usecase"
)

// reportView is the template-facing shape of a report, with all numeric
// formatting done here rather than in the template.
type reportView struct {
	Symbol     string
	Verdict    string
	BadgeClass string
	Price      string
	Count      int
	Avg        string
	Positive   int
	Neutral    int
	Negative   int
	Hours      []hourRow
	Headlines  []headlineRow
}

type hourRow struct {
	Hour  string
	Count int
}

type headlineRow struct {
	Time      string
	Sentiment string
	Title     string
	URL       string
}

func newReportView(report usecase.Report) reportView {
	view := reportView{
		Symbol:     report.Symbol,
		Verdict:    report.Verdict,
		BadgeClass: badgeClass(report.Verdict),
		Price:      "–",
		Count:      report.MentionCount,
		Avg:        "–",
	}

	if q := report.LatestQuote; q != nil && q.Close != nil {
		view.Price = fmt.Sprintf("%.2f", *q.Close)
	}
	if report.AvgSentiment != nil {
		view.Avg = fmt.Sprintf("%+.3f", *report.AvgSentiment)
	}

	for _, bucket := range report.Hours {
		view.Hours = append(view.Hours, hourRow{
			Hour:  bucket.Hour.Format("2006-01-02 15:00"),
			Count: bucket.Count,
		})
	}

	for _, m := range report.Headlines {
		sentiment := "NA"
		if m.Sentiment != nil {
			sentiment = fmt.Sprintf("%+.2f", *m.Sentiment)
		}
		view.Headlines = append(view.Headlines, headlineRow{
			Time:      m.CreatedAt.Format("2006-01-02 15:04"),
			Sentiment: sentiment,
			Title:     m.Text,
			URL:       m.URL,
		})
	}

	return view
}

func badgeClass(verdict string) string {
	switch verdict {
	case "Bullish":
		return "bullish"
	case "Bearish":
		return "bearish"
	default:
		return "neutral"
	}
}
