package domain

import (
	"strings"
	"time"
)

// Article is a normalized news record handed to the scoring core.
type Article struct {
	ID          int64     `json:"id,omitempty"`
	Source      string    `json:"source"`
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	Link        string    `json:"link,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// HeadlineKey is the dedupe key of a headline: lower-cased with runs of
// whitespace collapsed.
func HeadlineKey(headline string) string {
	return strings.Join(strings.Fields(strings.ToLower(headline)), " ")
}

// Day is the UTC calendar day an article belongs to for deduplication.
func (a Article) Day() string {
	return a.PublishedAt.UTC().Format(DayLayout)
}

const DayLayout = "2006-01-02"

// ScoredArticle is an Article plus the ensemble verdict. It is created once
// and never mutated afterwards.
type ScoredArticle struct {
	Article
	Sentiment       int                `json:"sentiment"`
	Confidence      float64            `json:"confidence"`
	RawScore        float64            `json:"raw_score"`
	ComponentScores map[string]float64 `json:"component_scores,omitempty"`
	ScoredAt        time.Time          `json:"scored_at"`
}

// WeightedSentiment is the sentiment label scaled by its confidence.
func (s ScoredArticle) WeightedSentiment() float64 {
	return float64(s.Sentiment) * s.Confidence
}

const (
	SentimentNegative = -1
	SentimentNeutral  = 0
	SentimentPositive = 1
)

// NormalizeSentiment clamps a persisted label to {-1, 0, 1}.
func NormalizeSentiment(v int) int {
	switch {
	case v > 0:
		return SentimentPositive
	case v < 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// NormalizeConfidence clips a persisted confidence to [0, 1].
func NormalizeConfidence(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WindowAnalysis summarises the scored articles inside one time window.
// A window without articles has every numeric field at zero.
type WindowAnalysis struct {
	Start               time.Time `json:"start"`
	End                 time.Time `json:"end"`
	TotalArticles       int       `json:"total_articles"`
	Positive            int       `json:"positive"`
	Negative            int       `json:"negative"`
	Neutral             int       `json:"neutral"`
	AvgSentiment        float64   `json:"avg_sentiment"`
	AvgConfidence       float64   `json:"avg_confidence"`
	SentimentStrength   float64   `json:"sentiment_strength"`
	SentimentRatio      float64   `json:"sentiment_ratio"`
	SentimentVolatility float64   `json:"sentiment_volatility"`
	// ZeroConfidence is set when the window has articles but their
	// confidences sum to zero, so AvgSentiment was forced to 0.
	ZeroConfidence bool `json:"zero_confidence,omitempty"`
}

type Direction string

const (
	DirectionUp      Direction = "UP"
	DirectionDown    Direction = "DOWN"
	DirectionNeutral Direction = "NEUTRAL"
)

// Forecast is the directional call derived from a recent and a daily window.
type Forecast struct {
	Direction  Direction      `json:"direction"`
	Confidence float64        `json:"confidence"`
	Momentum   float64        `json:"momentum"`
	Recent     WindowAnalysis `json:"recent"`
	Daily      WindowAnalysis `json:"daily"`
	At         time.Time      `json:"at"`
}

// PricePoint is one observed BTC spot price.
type PricePoint struct {
	Symbol   string    `json:"symbol"`
	PriceUSD float64   `json:"price_usd"`
	At       time.Time `json:"at"`
}

// IngestResult counts what one news cycle did. Errors holds non-fatal
// per-feed or per-item failures.
type IngestResult struct {
	ItemsFetched    int      `json:"items_fetched"`
	ItemsDuplicate  int      `json:"items_duplicate"`
	ItemsStored     int      `json:"items_stored"`
	ItemsScored     int      `json:"items_scored"`
	EventsPublished int      `json:"events_published"`
	Errors          []string `json:"errors,omitempty"`
}
