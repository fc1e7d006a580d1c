package service

import (
	"context"
	"fmt"
	"time"

	"news-pulse/internal/config"
	"news-pulse/internal/domain"
	"news-pulse/internal/forecast"
	"news-pulse/internal/sentiment"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type FeedReader interface {
	FetchFeed(ctx context.Context, name, feedURL string, maxItems int) ([]domain.Article, error)
}

type RedditReader interface {
	FetchHot(ctx context.Context, subreddit string, limit int) ([]domain.Article, error)
}

type ArticleStore interface {
	InsertArticles(ctx context.Context, articles []domain.Article) ([]domain.Article, error)
	SaveScores(ctx context.Context, scored []domain.ScoredArticle, policy string) error
	ListArticlesBetween(ctx context.Context, from, to time.Time) ([]domain.Article, error)
	ListScoredBetween(ctx context.Context, from, to time.Time) ([]domain.ScoredArticle, error)
	ListUnscoredBetween(ctx context.Context, from, to time.Time) ([]domain.Article, error)
	CountUnscored(ctx context.Context, from, to time.Time) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Deduper filters headlines already stored on their day. FilterNew is
// read-only; MarkSeen runs only after the articles are persisted.
type Deduper interface {
	FilterNew(ctx context.Context, articles []domain.Article) ([]domain.Article, int, error)
	MarkSeen(ctx context.Context, articles []domain.Article) error
}

type ForecastCache interface {
	Get(ctx context.Context) (*domain.Forecast, error)
	Set(ctx context.Context, f domain.Forecast) error
	Invalidate(ctx context.Context) error
}

type EventPublisher interface {
	PublishScored(ctx context.Context, scored []domain.ScoredArticle) (int, error)
}

type Metrics interface {
	RecordFetched(source string, n int)
	RecordDuplicates(n int)
	RecordScored(sentiment int)
	RecordScorerAvailability(known, available []string)
	RecordForecast(direction string, confidence, momentum float64)
	RecordLastPrice(symbol string, price float64)
	RecordPublished(n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

type nopMetrics struct{}

func (nopMetrics) RecordFetched(string, int) {}
func (nopMetrics) RecordDuplicates(int) {}
func (nopMetrics) RecordScored(int) {}
func (nopMetrics) RecordScorerAvailability([]string, []string) {}
func (nopMetrics) RecordForecast(string, float64, float64) {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordPublished(int) {}
func (nopMetrics) RecordError(string) {}
func (nopMetrics) RecordLatency(string, float64) {}

// unscoredWindow bounds how far back each ingest cycle looks for stored
// articles missing a score.
const unscoredWindow = 48 * time.Hour

var knownScorers = []string{
	sentiment.ScorerValence,
	sentiment.ScorerPolarity,
	sentiment.ScorerClassifier,
	sentiment.ScorerLexicon,
}

type PipelineConfig struct {
	Feeds           []config.Feed
	Subreddits      []string
	FeedItemLimit   int
	RedditPostLimit int
	Weights         sentiment.Weights
	Threshold       float64
	RetentionDays   int
}

// Pipeline collects news, scores it with the ensemble, stores the verdicts
// and answers forecast queries over the stored series.
type Pipeline struct {
	tracer   trace.Tracer
	ensemble *sentiment.Ensemble
	engine   *forecast.Engine
	repo     ArticleStore

	rss       FeedReader
	reddit    RedditReader
	dedupe    Deduper
	cache     ForecastCache
	publisher EventPublisher
	metrics   Metrics

	cfg PipelineConfig
	now func() time.Time
}

// PipelineDeps groups the optional collaborators. Nil members are skipped.
type PipelineDeps struct {
	RSS       FeedReader
	Reddit    RedditReader
	Dedupe    Deduper
	Cache     ForecastCache
	Publisher EventPublisher
	Metrics   Metrics
}

func NewPipeline(
	tracer trace.Tracer,
	ensemble *sentiment.Ensemble,
	engine *forecast.Engine,
	repo ArticleStore,
	deps PipelineDeps,
	cfg PipelineConfig,
) *Pipeline {
	if ensemble == nil {
		ensemble = sentiment.NewDefaultEnsemble(sentiment.PolicySymmetric, nil)
	}
	if engine == nil {
		engine = forecast.NewEngine(forecast.DefaultConfig())
	}
	if cfg.Weights == nil {
		cfg.Weights = sentiment.DefaultWeights()
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = engine.Config().SentimentThreshold
	}
	if cfg.FeedItemLimit <= 0 {
		cfg.FeedItemLimit = 50
	}
	if cfg.RedditPostLimit <= 0 {
		cfg.RedditPostLimit = 25
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 30
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &Pipeline{
		tracer:    tracer,
		ensemble:  ensemble,
		engine:    engine,
		repo:      repo,
		rss:       deps.RSS,
		reddit:    deps.Reddit,
		dedupe:    deps.Dedupe,
		cache:     deps.Cache,
		publisher: deps.Publisher,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Analyze scores free text with the configured ensemble. It touches no
// storage.
func (p *Pipeline) Analyze(headline, summary string) sentiment.Result {
	return p.ensemble.Analyze(headline, summary, p.cfg.Weights, p.cfg.Threshold)
}

func (p *Pipeline) Policy() sentiment.Policy { return p.ensemble.Policy() }

// RunIngestCycle fetches every configured source, drops headlines already
// seen that day, stores and scores the rest. Per-source failures land in
// the result; storage failures abort the cycle.
func (p *Pipeline) RunIngestCycle(ctx context.Context) (domain.IngestResult, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.run-ingest-cycle")
	defer span.End()

	started := p.now()
	defer func() { p.metrics.RecordLatency("ingest", time.Since(started).Seconds()) }()

	if p.repo == nil {
		return domain.IngestResult{}, fmt.Errorf("pipeline store is not initialized")
	}

	result := domain.IngestResult{}
	fetched := make([]domain.Article, 0, 256)

	if p.rss != nil {
		for _, feed := range p.cfg.Feeds {
			items, err := p.rss.FetchFeed(ctx, feed.Name, feed.URL, p.cfg.FeedItemLimit)
			if err != nil {
				result.Errors = append(result.Errors, "rss:"+feed.Name+": "+err.Error())
				p.metrics.RecordError("feed")
				continue
			}
			p.metrics.RecordFetched(feed.Name, len(items))
			fetched = append(fetched, items...)
		}
	}
	if p.reddit != nil {
		for _, sub := range p.cfg.Subreddits {
			posts, err := p.reddit.FetchHot(ctx, sub, p.cfg.RedditPostLimit)
			if err != nil {
				result.Errors = append(result.Errors, "reddit:"+sub+": "+err.Error())
				p.metrics.RecordError("reddit")
				continue
			}
			p.metrics.RecordFetched("reddit/r/"+sub, len(posts))
			fetched = append(fetched, posts...)
		}
	}
	result.ItemsFetched = len(fetched)

	fresh, dups := uniqueByDay(fetched)
	if p.dedupe != nil && len(fresh) > 0 {
		filtered, seen, err := p.dedupe.FilterNew(ctx, fresh)
		if err != nil {
			// The store's unique constraint still drops repeats.
			result.Errors = append(result.Errors, "dedupe: "+err.Error())
			p.metrics.RecordError("dedupe")
		} else {
			fresh = filtered
			dups += seen
		}
	}

	inserted, err := p.repo.InsertArticles(ctx, fresh)
	if err != nil {
		p.metrics.RecordError("store")
		return result, fmt.Errorf("store articles: %w", err)
	}
	dups += len(fresh) - len(inserted)
	result.ItemsDuplicate = dups
	result.ItemsStored = len(inserted)
	p.metrics.RecordDuplicates(dups)

	if p.dedupe != nil && len(fresh) > 0 {
		if err := p.dedupe.MarkSeen(ctx, fresh); err != nil {
			result.Errors = append(result.Errors, "dedupe: "+err.Error())
			p.metrics.RecordError("dedupe")
		}
	}

	pending, err := p.withUnscored(ctx, inserted)
	if err != nil {
		result.Errors = append(result.Errors, "unscored: "+err.Error())
		p.metrics.RecordError("store")
	}
	scored, err := p.scoreAndSave(ctx, pending)
	if err != nil {
		return result, err
	}
	result.ItemsScored = len(scored)

	if p.publisher != nil && len(scored) > 0 {
		n, err := p.publisher.PublishScored(ctx, scored)
		if err != nil {
			result.Errors = append(result.Errors, "publish: "+err.Error())
			p.metrics.RecordError("publish")
		}
		result.EventsPublished = n
		p.metrics.RecordPublished(n)
	}

	if len(scored) > 0 {
		p.invalidateForecast(ctx)
	}

	log.Info().
		Int("fetched", result.ItemsFetched).
		Int("duplicate", result.ItemsDuplicate).
		Int("stored", result.ItemsStored).
		Int("scored", result.ItemsScored).
		Int("warnings", len(result.Errors)).
		Msg("ingest cycle complete")
	return result, nil
}

// Forecast returns the current forecast, served from the cache while fresh.
func (p *Pipeline) Forecast(ctx context.Context) (domain.Forecast, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.forecast")
	defer span.End()

	if p.cache != nil {
		cached, err := p.cache.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("forecast cache read failed")
		}
		if cached != nil {
			return *cached, nil
		}
	}

	f, err := p.ForecastAt(ctx, p.now())
	if err != nil {
		return domain.Forecast{}, err
	}
	if p.cache != nil {
		if err := p.cache.Set(ctx, f); err != nil {
			log.Warn().Err(err).Msg("forecast cache write failed")
		}
	}
	return f, nil
}

// ForecastAt runs the rule engine over the stored series as of now,
// bypassing the cache.
func (p *Pipeline) ForecastAt(ctx context.Context, now time.Time) (domain.Forecast, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.forecast-at")
	defer span.End()

	if p.repo == nil {
		return domain.Forecast{}, fmt.Errorf("pipeline store is not initialized")
	}

	from := startOfDay(now)
	if recent := now.Add(-p.engine.Config().Lookback); recent.Before(from) {
		from = recent
	}
	series, err := p.repo.ListScoredBetween(ctx, from, now)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("load scored series: %w", err)
	}

	f := p.engine.Forecast(series, now)
	p.metrics.RecordForecast(string(f.Direction), f.Confidence, f.Momentum)
	return f, nil
}

// Series returns the scored articles published on day, in day's location.
func (p *Pipeline) Series(ctx context.Context, day time.Time) ([]domain.ScoredArticle, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.series")
	defer span.End()

	if p.repo == nil {
		return nil, fmt.Errorf("pipeline store is not initialized")
	}
	from, to := dayBounds(day)
	return p.repo.ListScoredBetween(ctx, from, to)
}

// Backfill rescores every stored article published on day with the current
// ensemble and weights.
func (p *Pipeline) Backfill(ctx context.Context, day time.Time) (int, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.backfill")
	defer span.End()

	if p.repo == nil {
		return 0, fmt.Errorf("pipeline store is not initialized")
	}
	from, to := dayBounds(day)
	if pending, err := p.repo.CountUnscored(ctx, from, to); err == nil {
		log.Info().Str("day", from.Format(domain.DayLayout)).Int("unscored", pending).Msg("backfill starting")
	}

	articles, err := p.repo.ListArticlesBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("load articles: %w", err)
	}
	scored, err := p.scoreAndSave(ctx, articles)
	if err != nil {
		return 0, err
	}
	if len(scored) > 0 {
		p.invalidateForecast(ctx)
	}
	return len(scored), nil
}

// Cleanup deletes articles older than the retention window.
func (p *Pipeline) Cleanup(ctx context.Context) (int64, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.cleanup")
	defer span.End()

	if p.repo == nil {
		return 0, fmt.Errorf("pipeline store is not initialized")
	}
	cutoff := p.now().AddDate(0, 0, -p.cfg.RetentionDays)
	n, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.metrics.RecordError("retention")
		return 0, fmt.Errorf("delete old articles: %w", err)
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("retention cleanup")
	}
	return n, nil
}

// withUnscored appends stored articles from the recent window that a
// failed earlier cycle left without a score.
func (p *Pipeline) withUnscored(ctx context.Context, inserted []domain.Article) ([]domain.Article, error) {
	now := p.now().UTC()
	leftover, err := p.repo.ListUnscoredBetween(ctx, now.Add(-unscoredWindow), now)
	if err != nil {
		return inserted, err
	}
	ids := make(map[int64]struct{}, len(inserted))
	for _, a := range inserted {
		ids[a.ID] = struct{}{}
	}
	out := inserted
	recovered := 0
	for _, a := range leftover {
		if _, ok := ids[a.ID]; ok {
			continue
		}
		out = append(out, a)
		recovered++
	}
	if recovered > 0 {
		log.Info().Int("articles", recovered).Msg("scoring articles left unscored by an earlier cycle")
	}
	return out, nil
}

func (p *Pipeline) scoreAndSave(ctx context.Context, articles []domain.Article) ([]domain.ScoredArticle, error) {
	if len(articles) == 0 {
		return nil, nil
	}
	now := p.now().UTC()
	scored := make([]domain.ScoredArticle, 0, len(articles))
	var available []string
	for _, a := range articles {
		res := p.ensemble.Analyze(a.Headline, a.Summary, p.cfg.Weights, p.cfg.Threshold)
		scored = append(scored, domain.ScoredArticle{
			Article:         a,
			Sentiment:       res.Sentiment,
			Confidence:      res.Confidence,
			RawScore:        res.Score,
			ComponentScores: res.Detail,
			ScoredAt:        now,
		})
		available = res.Available
		p.metrics.RecordScored(res.Sentiment)
	}
	p.metrics.RecordScorerAvailability(knownScorers, available)

	if err := p.repo.SaveScores(ctx, scored, string(p.ensemble.Policy())); err != nil {
		p.metrics.RecordError("store")
		return nil, fmt.Errorf("save scores: %w", err)
	}
	return scored, nil
}

func (p *Pipeline) invalidateForecast(ctx context.Context) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("forecast cache invalidate failed")
	}
}

// uniqueByDay keeps the first article for each (day, headline) pair.
func uniqueByDay(articles []domain.Article) ([]domain.Article, int) {
	seen := make(map[string]struct{}, len(articles))
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		key := a.Day() + "|" + domain.HeadlineKey(a.Headline)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out, len(articles) - len(out)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	from := startOfDay(day)
	return from, from.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
