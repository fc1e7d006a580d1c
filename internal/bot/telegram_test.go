package bot

import (
	"strings"
	"testing"
	"time"

	"news-pulse/internal/domain"
	"news-pulse/internal/sentiment"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	StartTelegramBot("", nil, nil)
}

func TestFormatForecast(t *testing.T) {
	msg := formatForecast(domain.Forecast{
		Direction:  domain.DirectionUp,
		Confidence: 0.625,
		Momentum:   0.04,
		Recent:     domain.WindowAnalysis{TotalArticles: 5, Positive: 4, Negative: 1, AvgSentiment: 0.5},
		Daily:      domain.WindowAnalysis{TotalArticles: 20, Positive: 10, Negative: 6, AvgSentiment: 0.2},
	})

	for _, want := range []string{"BTC direction: UP", "Confidence: 62.5%", "Momentum: +0.040", "Last hour: 5 articles (+4 / -1)", "Today: 20 articles"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestFormatAnalysis(t *testing.T) {
	msg := formatAnalysis("ETF approved", sentiment.Result{
		Sentiment:  domain.SentimentNegative,
		Confidence: 0.3,
		Detail:     map[string]float64{"vader": -0.2, "lexicon": -1.2},
	})

	if !strings.Contains(msg, "Sentiment: negative (confidence 0.30)") {
		t.Fatalf("unexpected message %q", msg)
	}
	if strings.Index(msg, "lexicon") > strings.Index(msg, "vader") {
		t.Fatalf("expected sorted detail lines: %q", msg)
	}
}

func TestFormatPrice(t *testing.T) {
	msg := formatPrice(&domain.PricePoint{Symbol: "BTC", PriceUSD: 64123.456, At: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)})
	if !strings.Contains(msg, "$64123.46") || !strings.Contains(msg, "2024-05-01T12:00:00Z") {
		t.Fatalf("unexpected message %q", msg)
	}
}
