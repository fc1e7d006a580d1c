package job

import (
	"context"
	"time"

	"news-pulse/internal/domain"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type IngestRunner interface {
	RunIngestCycle(ctx context.Context) (domain.IngestResult, error)
	Cleanup(ctx context.Context) (int64, error)
}

// NewsJob runs the ingest cycle on a ticker and prunes old articles once a
// day.
type NewsJob struct {
	tracer          trace.Tracer
	runner          IngestRunner
	pollInterval    time.Duration
	cleanupInterval time.Duration
}

func NewNewsJob(tracer trace.Tracer, runner IngestRunner, pollInterval time.Duration) *NewsJob {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Minute
	}
	return &NewsJob{
		tracer:          tracer,
		runner:          runner,
		pollInterval:    pollInterval,
		cleanupInterval: 24 * time.Hour,
	}
}

// Start blocks until ctx is cancelled.
func (j *NewsJob) Start(ctx context.Context) {
	if j.runner == nil {
		log.Info().Msg("news job disabled: no runner")
		<-ctx.Done()
		return
	}

	j.runOnce(ctx)
	j.cleanup(ctx)

	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()
	cleanup := time.NewTicker(j.cleanupInterval)
	defer cleanup.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx)
		case <-cleanup.C:
			j.cleanup(ctx)
		}
	}
}

func (j *NewsJob) runOnce(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "news-job.run-once")
	defer span.End()

	result, err := j.runner.RunIngestCycle(ctx)
	if err != nil {
		log.Error().Err(err).Msg("news ingest cycle failed")
		return
	}
	for _, warning := range result.Errors {
		log.Warn().Str("warning", warning).Msg("news ingest warning")
	}
}

func (j *NewsJob) cleanup(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "news-job.cleanup")
	defer span.End()

	if _, err := j.runner.Cleanup(ctx); err != nil {
		log.Error().Err(err).Msg("news retention cleanup failed")
	}
}
