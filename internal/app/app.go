package app

import (
	"fmt"
	"time"

	"news-pulse/internal/cache"
	"news-pulse/internal/config"
	"news-pulse/internal/forecast"
	"news-pulse/internal/metrics"
	"news-pulse/internal/provider"
	"news-pulse/internal/publisher"
	"news-pulse/internal/repository"
	"news-pulse/internal/sentiment"
	"news-pulse/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Options carries the shared infrastructure handles. Nil members disable
// the components that need them.
type Options struct {
	Pool       repository.PgxPool
	Redis      *redis.Client
	Registerer prometheus.Registerer
}

// App is the wired service graph shared by the binaries.
type App struct {
	Model    *config.ModelConfig
	Sources  *config.NewsSources
	Pipeline *service.Pipeline
	Prices   *service.PriceService
	Metrics  *metrics.Recorder

	closers []func() error
}

// Build loads the model and feed configuration and assembles the pipeline
// and price service around the given infrastructure.
func Build(cfg *config.Config, tracer trace.Tracer, opts Options) (*App, error) {
	model, err := config.LoadModel(cfg.ModelConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load model config: %w", err)
	}
	sources, err := config.LoadSources(cfg.FeedsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load feeds config: %w", err)
	}

	a := &App{Model: model, Sources: sources}

	var deps service.PipelineDeps
	var priceMetrics service.Metrics
	if opts.Registerer != nil {
		a.Metrics = metrics.New(opts.Registerer)
		deps.Metrics = a.Metrics
		priceMetrics = a.Metrics
	}

	ensemble := sentiment.NewDefaultEnsemble(model.EnsemblePolicy(), nil)
	if cfg.OpenAIAPIKey != "" {
		timeout := time.Duration(cfg.ClassifierTimeoutSecs) * time.Second
		classifier := sentiment.NewClassifierScorer(
			sentiment.NewOpenAIClassifierFactory(cfg.OpenAIAPIKey, cfg.OpenAIModel),
			timeout,
		)
		ensemble = sentiment.NewDefaultEnsemble(model.EnsemblePolicy(), classifier)
		log.Info().Str("model", cfg.OpenAIModel).Msg("classifier scorer enabled")
	}
	engine := forecast.NewEngine(model.Forecast())

	var articles service.ArticleStore
	var prices service.PriceStore
	if opts.Pool != nil {
		articles = repository.NewArticleRepository(opts.Pool, tracer)
		prices = repository.NewPriceRepository(opts.Pool, tracer)
	} else {
		log.Warn().Msg("no database pool, storage-backed operations disabled")
	}

	var priceCache service.RedisClient
	if opts.Redis != nil {
		deps.Dedupe = cache.NewHeadlineDeduper(opts.Redis, 0)
		deps.Cache = cache.NewForecastCache(opts.Redis, time.Duration(cfg.ForecastCacheSecs)*time.Second)
		priceCache = opts.Redis
	}

	if len(cfg.KafkaBrokers) > 0 {
		pub, err := publisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, fmt.Errorf("kafka publisher: %w", err)
		}
		deps.Publisher = pub
		a.closers = append(a.closers, pub.Close)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("scored events go to kafka")
	}

	deps.RSS = provider.NewRSSProvider(tracer)
	deps.Reddit = provider.NewRedditProvider(tracer)

	a.Pipeline = service.NewPipeline(tracer, ensemble, engine, articles, deps, service.PipelineConfig{
		Feeds:         sources.Feeds,
		Subreddits:    sources.Subreddits,
		Weights:       model.EnsembleWeights(),
		Threshold:     model.Thresholds.Sentiment,
		RetentionDays: cfg.RetentionDays,
	})
	a.Prices = service.NewPriceService(tracer, provider.NewCoinloreProvider(tracer), prices, priceCache, priceMetrics)
	return a, nil
}

// Close releases the resources Build opened.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
