package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"news-pulse/internal/domain"
	"news-pulse/internal/sentiment"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

type Pipeline interface {
	Analyze(headline, summary string) sentiment.Result
	Forecast(ctx context.Context) (domain.Forecast, error)
}

type PriceReader interface {
	GetBTCPrice(ctx context.Context) (*domain.PricePoint, error)
}

const commandTimeout = 10 * time.Second

func StartTelegramBot(token string, pipeline Pipeline, prices PriceReader) {
	if token == "" {
		log.Info().Msg("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Telegram bot")
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/forecast", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		f, err := pipeline.Forecast(ctx)
		if err != nil {
			return c.Send(fmt.Sprintf("Error building forecast: %v", err))
		}
		return c.Send(formatForecast(f))
	})

	b.Handle("/sentiment", func(c tele.Context) error {
		text := strings.TrimSpace(c.Message().Payload)
		if text == "" {
			return c.Send("Usage: /sentiment <headline>")
		}
		return c.Send(formatAnalysis(text, pipeline.Analyze(text, "")))
	})

	b.Handle("/price", func(c tele.Context) error {
		if prices == nil {
			return c.Send("Price feed is not configured")
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		p, err := prices.GetBTCPrice(ctx)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching BTC price: %v", err))
		}
		return c.Send(formatPrice(p))
	})

	log.Info().Msg("Telegram bot started")
	go b.Start()
}

func formatForecast(f domain.Forecast) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BTC direction: %s\n", f.Direction)
	fmt.Fprintf(&b, "Confidence: %.1f%%\n", f.Confidence*100)
	fmt.Fprintf(&b, "Momentum: %+.3f\n", f.Momentum)
	fmt.Fprintf(&b, "Last hour: %d articles (+%d / -%d), avg %+.3f\n",
		f.Recent.TotalArticles, f.Recent.Positive, f.Recent.Negative, f.Recent.AvgSentiment)
	fmt.Fprintf(&b, "Today: %d articles (+%d / -%d), avg %+.3f",
		f.Daily.TotalArticles, f.Daily.Positive, f.Daily.Negative, f.Daily.AvgSentiment)
	return b.String()
}

func formatAnalysis(text string, res sentiment.Result) string {
	label := "neutral"
	switch res.Sentiment {
	case domain.SentimentPositive:
		label = "positive"
	case domain.SentimentNegative:
		label = "negative"
	}

	names := make([]string, 0, len(res.Detail))
	for name := range res.Detail {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%q\nSentiment: %s (confidence %.2f)\n", text, label, res.Confidence)
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %+.3f\n", name, res.Detail[name])
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPrice(p *domain.PricePoint) string {
	return fmt.Sprintf("BTC\nPrice: $%.2f\nAs of: %s", p.PriceUSD, p.At.UTC().Format(time.RFC3339))
}
