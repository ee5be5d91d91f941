package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"

	"stocksentiment/internal/ports"
)

// Scorer assigns VADER compound polarity scores to short text. The lexicon
// is loaded once at construction and read-only afterwards, so one Scorer is
// safe to share across calls.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

var _ ports.SentimentScorer = (*Scorer)(nil)

// New initializes the lexicon-backed analyzer.
func New() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity in [-1, 1]. Empty or whitespace-only
// text scores exactly zero.
func (s *Scorer) Score(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0.0
	}

	compound := s.analyzer.PolarityScores(text).Compound
	if compound > 1 {
		compound = 1
	}
	if compound < -1 {
		compound = -1
	}
	return compound
}
