package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news-pulse/internal/app"
	"news-pulse/internal/config"
	"news-pulse/internal/db"
	"news-pulse/internal/domain"
	"news-pulse/internal/sentiment"
	"news-pulse/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
)

// pipelineAPI is what the operator commands need from the service graph.
type pipelineAPI interface {
	Analyze(headline, summary string) sentiment.Result
	Policy() sentiment.Policy
	Forecast(ctx context.Context) (domain.Forecast, error)
	ForecastAt(ctx context.Context, now time.Time) (domain.Forecast, error)
	Series(ctx context.Context, day time.Time) ([]domain.ScoredArticle, error)
	Backfill(ctx context.Context, day time.Time) (int, error)
	RunIngestCycle(ctx context.Context) (domain.IngestResult, error)
}

type migrator interface {
	Up(ctx context.Context) (int, error)
	Down(ctx context.Context, steps int) (int, error)
	Version(ctx context.Context) (int64, string, error)
}

type rootFlags struct {
	logLevel    string
	logFormat   string
	modelConfig string
	feedsConfig string
}

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initLoggerFunc = logger.Init
	// loadPipelineFunc builds the pipeline. withStore connects Postgres
	// first; commands that only score text pass false.
	loadPipelineFunc = func(ctx context.Context, cfg *config.Config, withStore bool) (pipelineAPI, func(), error) {
		opts := app.Options{}
		if withStore {
			os.Setenv("DATABASE_URL", cfg.DatabaseURL)
			db.InitPostgres(ctx)
			opts.Pool = db.Pool
		}
		a, err := app.Build(cfg, trace.NewNoopTracerProvider().Tracer("pulse"), opts)
		if err != nil {
			return nil, func() {}, err
		}
		return a.Pipeline, func() {
			a.Close()
			if db.Pool != nil {
				db.Pool.Close()
			}
		}, nil
	}
	openMigratorFunc = func(ctx context.Context, cfg *config.Config) (migrator, func(), error) {
		os.Setenv("DATABASE_URL", cfg.DatabaseURL)
		db.InitPostgres(ctx)
		m, err := db.NewMigrator(db.Pool)
		if err != nil {
			return nil, func() {}, err
		}
		return m, db.Pool.Close, nil
	}
	nowFunc = time.Now
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("pulse failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "pulse",
		Short:         "Operator CLI for the news sentiment pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = loadEnvFunc()
			cfg = loadConfigFunc()
			if flags.logLevel != "" {
				cfg.LogLevel = flags.logLevel
			}
			if flags.logFormat != "" {
				cfg.LogFormat = flags.logFormat
			}
			if flags.modelConfig != "" {
				cfg.ModelConfigPath = flags.modelConfig
			}
			if flags.feedsConfig != "" {
				cfg.FeedsConfigPath = flags.feedsConfig
			}
			return initLoggerFunc(cfg.LogLevel, cfg.LogFormat)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format (console|json)")
	pf.StringVar(&flags.modelConfig, "model-config", "", "Path to model.yaml")
	pf.StringVar(&flags.feedsConfig, "feeds-config", "", "Path to feeds.yaml")

	getCfg := func() *config.Config { return cfg }
	root.AddCommand(
		newAnalyzeCmd(getCfg),
		newForecastCmd(getCfg),
		newBackfillCmd(getCfg),
		newIngestCmd(getCfg),
		newMigrateCmd(getCfg),
		newMCPCmd(getCfg),
	)
	return root
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return nowFunc().UTC(), nil
	}
	day, err := time.ParseInLocation(domain.DayLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return day, nil
}
