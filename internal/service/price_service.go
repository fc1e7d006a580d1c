package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"news-pulse/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const (
	priceCacheTTL = 90 * time.Second
	btcSymbol     = "BTC"
)

type PriceProvider interface {
	FetchBTCPrice(ctx context.Context) (*domain.PricePoint, error)
}

type PriceStore interface {
	InsertPrice(ctx context.Context, p domain.PricePoint) error
	ListPricesBetween(ctx context.Context, symbol string, from, to time.Time) ([]domain.PricePoint, error)
	LatestPrice(ctx context.Context, symbol string) (*domain.PricePoint, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// PriceService records the BTC spot price next to the sentiment series.
type PriceService struct {
	tracer   trace.Tracer
	provider PriceProvider
	repo     PriceStore
	redis    RedisClient
	metrics  Metrics
}

func NewPriceService(
	tracer trace.Tracer,
	provider PriceProvider,
	repo PriceStore,
	redisClient RedisClient,
	metrics Metrics,
) *PriceService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &PriceService{
		tracer:   tracer,
		provider: provider,
		repo:     repo,
		redis:    redisClient,
		metrics:  metrics,
	}
}

// GetBTCPrice returns the cached price, then the last stored one, and only
// then asks the provider.
func (s *PriceService) GetBTCPrice(ctx context.Context) (*domain.PricePoint, error) {
	ctx, span := s.tracer.Start(ctx, "price-service.get-btc-price")
	defer span.End()

	if s.redis != nil {
		cached, err := s.getPriceCache(ctx, btcSymbol)
		if err != nil {
			log.Warn().Err(err).Msg("redis cache read error")
		}
		if cached != nil {
			return cached, nil
		}
	}

	if s.repo != nil {
		latest, err := s.repo.LatestPrice(ctx, btcSymbol)
		if err != nil {
			log.Warn().Err(err).Msg("latest price lookup failed")
		}
		if latest != nil && time.Since(latest.At) < priceCacheTTL {
			return latest, nil
		}
	}

	return s.RefreshBTCPrice(ctx)
}

// RefreshBTCPrice fetches a fresh quote, stores it and caches it.
func (s *PriceService) RefreshBTCPrice(ctx context.Context) (*domain.PricePoint, error) {
	ctx, span := s.tracer.Start(ctx, "price-service.refresh-btc-price")
	defer span.End()

	if s.provider == nil {
		return nil, fmt.Errorf("price provider is not configured")
	}
	point, err := s.provider.FetchBTCPrice(ctx)
	if err != nil {
		s.metrics.RecordError("price")
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.InsertPrice(ctx, *point); err != nil {
			s.metrics.RecordError("store")
			return nil, fmt.Errorf("store btc price: %w", err)
		}
	}
	if s.redis != nil {
		if err := s.setPriceCache(ctx, point); err != nil {
			log.Warn().Err(err).Str("symbol", point.Symbol).Msg("redis cache write error")
		}
	}
	s.metrics.RecordLastPrice(point.Symbol, point.PriceUSD)

	log.Debug().Float64("price_usd", point.PriceUSD).Msg("refreshed btc price")
	return point, nil
}

// PricesForDay returns the stored BTC prices observed on day.
func (s *PriceService) PricesForDay(ctx context.Context, day time.Time) ([]domain.PricePoint, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("price store is not configured")
	}
	from, to := dayBounds(day)
	return s.repo.ListPricesBetween(ctx, btcSymbol, from, to)
}

// Cleanup removes prices older than retentionDays.
func (s *PriceService) Cleanup(ctx context.Context, now time.Time, retentionDays int) (int64, error) {
	if s.repo == nil || retentionDays <= 0 {
		return 0, nil
	}
	return s.repo.DeleteOlderThan(ctx, now.AddDate(0, 0, -retentionDays))
}

func (s *PriceService) setPriceCache(ctx context.Context, point *domain.PricePoint) error {
	data, err := json.Marshal(point)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, "price:"+point.Symbol, data, priceCacheTTL).Err()
}

func (s *PriceService) getPriceCache(ctx context.Context, symbol string) (*domain.PricePoint, error) {
	data, err := s.redis.Get(ctx, "price:"+symbol).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var point domain.PricePoint
	if err := json.Unmarshal(data, &point); err != nil {
		return nil, err
	}
	return &point, nil
}
