package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"news-pulse/internal/domain"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	coinloreBaseURL = "https://api.coinlore.net/api"
	coinloreBTCID   = "90"
)

// CoinloreProvider fetches the BTC spot price from the Coinlore public API.
type CoinloreProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *rate.Limiter
	now     func() time.Time
}

// NewCoinloreProvider is limited to one request per second.
func NewCoinloreProvider(tracer trace.Tracer) *CoinloreProvider {
	return &CoinloreProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: coinloreBaseURL,
		tracer:  tracer,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		now:     time.Now,
	}
}

type coinloreTicker struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	PriceUSD string `json:"price_usd"`
}

func (p *CoinloreProvider) FetchBTCPrice(ctx context.Context) (*domain.PricePoint, error) {
	ctx, span := p.tracer.Start(ctx, "coinlore.fetch-btc-price")
	defer span.End()

	body, err := p.doRequest(ctx, fmt.Sprintf("%s/ticker/?id=%s", p.baseURL, coinloreBTCID))
	if err != nil {
		return nil, fmt.Errorf("fetch btc price: %w", err)
	}

	var tickers []coinloreTicker
	if err := json.Unmarshal(body, &tickers); err != nil {
		return nil, fmt.Errorf("parse btc price: %w", err)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("coinlore returned no ticker for id %s", coinloreBTCID)
	}

	price, err := decimal.NewFromString(tickers[0].PriceUSD)
	if err != nil {
		return nil, fmt.Errorf("parse price_usd %q: %w", tickers[0].PriceUSD, err)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("non-positive btc price %s", price)
	}

	return &domain.PricePoint{
		Symbol:   "BTC",
		PriceUSD: price.Round(2).InexactFloat64(),
		At:       p.now().UTC(),
	}, nil
}

func (p *CoinloreProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("coinlore API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
