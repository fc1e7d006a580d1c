package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"news-pulse/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func TestPriceService_GetBTCPriceCacheHit(t *testing.T) {
	t.Parallel()

	redis := newFakeRedis()
	point := &domain.PricePoint{Symbol: "BTC", PriceUSD: 123.45}
	data, _ := json.Marshal(point)
	_ = redis.Set(context.Background(), "price:BTC", data, 0)

	provider := &mockProvider{}
	svc := NewPriceService(testTracer, provider, &mockPriceRepo{}, redis, nil)

	got, err := svc.GetBTCPrice(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PriceUSD != point.PriceUSD {
		t.Fatalf("expected %.2f, got %.2f", point.PriceUSD, got.PriceUSD)
	}
	if provider.calls != 0 {
		t.Fatalf("provider should not be called on cache hit")
	}
}

func TestPriceService_GetBTCPriceFetchesOnMiss(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{point: &domain.PricePoint{Symbol: "BTC", PriceUSD: 42, At: time.Now()}}
	redis := newFakeRedis()
	repo := &mockPriceRepo{}
	svc := NewPriceService(testTracer, provider, repo, redis, nil)

	got, err := svc.GetBTCPrice(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Symbol != "BTC" || got.PriceUSD != 42 {
		t.Fatalf("unexpected point: %+v", got)
	}
	if provider.calls != 1 {
		t.Fatalf("expected FetchBTCPrice to be called once, got %d", provider.calls)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected price stored, got %d rows", len(repo.inserted))
	}
	if _, ok := redis.data["price:BTC"]; !ok {
		t.Fatalf("price not cached")
	}
}

func TestPriceService_GetBTCPriceUsesFreshStoredPrice(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{}
	repo := &mockPriceRepo{latest: &domain.PricePoint{Symbol: "BTC", PriceUSD: 7, At: time.Now().Add(-10 * time.Second)}}
	svc := NewPriceService(testTracer, provider, repo, nil, nil)

	got, err := svc.GetBTCPrice(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PriceUSD != 7 || provider.calls != 0 {
		t.Fatalf("expected stored price without fetch, got %+v (calls=%d)", got, provider.calls)
	}
}

func TestPriceService_RefreshBTCPriceProviderError(t *testing.T) {
	t.Parallel()

	repo := &mockPriceRepo{}
	svc := NewPriceService(testTracer, &mockProvider{err: errors.New("boom")}, repo, nil, nil)

	if _, err := svc.RefreshBTCPrice(context.Background()); err == nil {
		t.Fatal("expected provider error")
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("nothing should be stored on error")
	}
}

func TestPriceService_PricesForDay(t *testing.T) {
	t.Parallel()

	repo := &mockPriceRepo{}
	svc := NewPriceService(testTracer, &mockProvider{}, repo, nil, nil)
	day := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)

	if _, err := svc.PricesForDay(context.Background(), day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSymbol != "BTC" {
		t.Fatalf("unexpected symbol %q", repo.lastSymbol)
	}
	if !repo.lastFrom.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from %s", repo.lastFrom)
	}
	if repo.lastTo.Day() != 1 || repo.lastTo.Hour() != 23 {
		t.Fatalf("unexpected to %s", repo.lastTo)
	}
}

type mockProvider struct {
	point *domain.PricePoint
	err   error
	calls int
}

func (m *mockProvider) FetchBTCPrice(ctx context.Context) (*domain.PricePoint, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.point, nil
}

type mockPriceRepo struct {
	inserted []domain.PricePoint
	latest   *domain.PricePoint

	lastSymbol string
	lastFrom   time.Time
	lastTo     time.Time
	deleted    time.Time
}

func (m *mockPriceRepo) InsertPrice(ctx context.Context, p domain.PricePoint) error {
	m.inserted = append(m.inserted, p)
	return nil
}

func (m *mockPriceRepo) ListPricesBetween(ctx context.Context, symbol string, from, to time.Time) ([]domain.PricePoint, error) {
	m.lastSymbol = symbol
	m.lastFrom = from
	m.lastTo = to
	return nil, nil
}

func (m *mockPriceRepo) LatestPrice(ctx context.Context, symbol string) (*domain.PricePoint, error) {
	return m.latest, nil
}

func (m *mockPriceRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.deleted = cutoff
	return 1, nil
}

type fakeRedis struct {
	data   map[string][]byte
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}
