package job

import (
	"context"
	"time"

	"news-pulse/internal/domain"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// PricePoller periodically records the BTC spot price.
type PricePoller struct {
	tracer        trace.Tracer
	priceService  PriceRefresher
	pollInterval  time.Duration
	retentionDays int
}

type PriceRefresher interface {
	RefreshBTCPrice(ctx context.Context) (*domain.PricePoint, error)
	Cleanup(ctx context.Context, now time.Time, retentionDays int) (int64, error)
}

func NewPricePoller(tracer trace.Tracer, priceService PriceRefresher, pollIntervalSecs, retentionDays int) *PricePoller {
	return &PricePoller{
		tracer:        tracer,
		priceService:  priceService,
		pollInterval:  time.Duration(pollIntervalSecs) * time.Second,
		retentionDays: retentionDays,
	}
}

// Start launches the polling goroutines. Blocks until ctx is cancelled.
func (p *PricePoller) Start(ctx context.Context) {
	log.Info().Dur("interval", p.pollInterval).Msg("price poller starting")

	go p.pollLoop(ctx, "btc-price", p.pollInterval, func(ctx context.Context) error {
		_, err := p.priceService.RefreshBTCPrice(ctx)
		return err
	})

	go p.pollLoop(ctx, "price-retention", 24*time.Hour, func(ctx context.Context) error {
		_, err := p.priceService.Cleanup(ctx, time.Now(), p.retentionDays)
		return err
	})

	<-ctx.Done()
	log.Info().Msg("price poller stopped")
}

func (p *PricePoller) pollLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	p.runOnce(ctx, name, fn)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runOnce(ctx, name, fn)
		}
	}
}

func (p *PricePoller) runOnce(ctx context.Context, name string, fn func(context.Context) error) {
	ctx, span := p.tracer.Start(ctx, "price-poller."+name)
	defer span.End()

	if err := fn(ctx); err != nil {
		log.Error().Err(err).Str("poller", name).Msg("poller run failed")
	}
}
