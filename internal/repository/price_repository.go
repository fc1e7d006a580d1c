package repository

import (
	"context"
	"errors"
	"time"

	"news-pulse/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
)

type PriceRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewPriceRepository(pool PgxPool, tracer trace.Tracer) *PriceRepository {
	return &PriceRepository{pool: pool, tracer: tracer}
}

func (r *PriceRepository) InsertPrice(ctx context.Context, p domain.PricePoint) error {
	_, span := r.tracer.Start(ctx, "price-repo.insert-price")
	defer span.End()

	_, err := r.pool.Exec(ctx, `
INSERT INTO price_points (symbol, price_usd, observed_at)
VALUES ($1, $2, $3)
ON CONFLICT (symbol, observed_at) DO UPDATE SET price_usd = EXCLUDED.price_usd`,
		p.Symbol, decimal.NewFromFloat(p.PriceUSD).Round(2).InexactFloat64(), p.At.UTC(),
	)
	return err
}

// ListPricesBetween returns observations in [from, to], oldest first.
func (r *PriceRepository) ListPricesBetween(ctx context.Context, symbol string, from, to time.Time) ([]domain.PricePoint, error) {
	_, span := r.tracer.Start(ctx, "price-repo.list-prices-between")
	defer span.End()

	rows, err := r.pool.Query(ctx, `
SELECT symbol, price_usd::text, observed_at
FROM price_points
WHERE symbol = $1 AND observed_at >= $2 AND observed_at <= $3
ORDER BY observed_at ASC`, symbol, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PricePoint
	for rows.Next() {
		p, err := scanPricePoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LatestPrice returns nil when nothing has been recorded for symbol.
func (r *PriceRepository) LatestPrice(ctx context.Context, symbol string) (*domain.PricePoint, error) {
	_, span := r.tracer.Start(ctx, "price-repo.latest-price")
	defer span.End()

	p, err := scanPricePoint(r.pool.QueryRow(ctx, `
SELECT symbol, price_usd::text, observed_at
FROM price_points
WHERE symbol = $1
ORDER BY observed_at DESC
LIMIT 1`, symbol))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PriceRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	_, span := r.tracer.Start(ctx, "price-repo.delete-older-than")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM price_points WHERE observed_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanPricePoint(s interface{ Scan(dest ...any) error }) (domain.PricePoint, error) {
	var p domain.PricePoint
	var price string
	if err := s.Scan(&p.Symbol, &price, &p.At); err != nil {
		return domain.PricePoint{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return domain.PricePoint{}, err
	}
	p.PriceUSD = d.InexactFloat64()
	p.At = p.At.UTC()
	return p, nil
}
