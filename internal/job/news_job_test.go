package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"news-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

func TestNewNewsJobDefaults(t *testing.T) {
	j := NewNewsJob(trace.NewNoopTracerProvider().Tracer("test"), &stubIngestRunner{}, 0)
	if j.pollInterval != 5*time.Minute {
		t.Fatalf("expected 5m default, got %v", j.pollInterval)
	}
	if j.cleanupInterval != 24*time.Hour {
		t.Fatalf("expected daily cleanup, got %v", j.cleanupInterval)
	}
}

func TestNewsJobStartRunsImmediately(t *testing.T) {
	t.Parallel()

	stub := &stubIngestRunner{}
	j := NewNewsJob(trace.NewNoopTracerProvider().Tracer("test"), stub, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	eventually(t, func() bool { return stub.cycles.Load() > 0 && stub.cleanups.Load() > 0 })
	cancel()
	<-done
}

func TestNewsJobRunOnceSurvivesErrors(t *testing.T) {
	stub := &stubIngestRunner{err: errors.New("db down")}
	j := NewNewsJob(trace.NewNoopTracerProvider().Tracer("test"), stub, time.Hour)

	j.runOnce(context.Background())
	j.runOnce(context.Background())

	if stub.cycles.Load() != 2 {
		t.Fatalf("expected 2 cycles, got %d", stub.cycles.Load())
	}
}

func TestNewsJobWithoutRunnerWaits(t *testing.T) {
	j := NewNewsJob(trace.NewNoopTracerProvider().Tracer("test"), nil, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j.Start(ctx)
}

type stubIngestRunner struct {
	cycles   atomic.Int32
	cleanups atomic.Int32
	err      error
}

func (s *stubIngestRunner) RunIngestCycle(ctx context.Context) (domain.IngestResult, error) {
	s.cycles.Add(1)
	if s.err != nil {
		return domain.IngestResult{}, s.err
	}
	return domain.IngestResult{ItemsFetched: 1, Errors: []string{"rss:x: timeout"}}, nil
}

func (s *stubIngestRunner) Cleanup(ctx context.Context) (int64, error) {
	s.cleanups.Add(1)
	return 0, nil
}
