package handler

import (
	"context"
	"time"

	"news-pulse/internal/domain"
	"news-pulse/internal/sentiment"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
)

type SentimentPipeline interface {
	Analyze(headline, summary string) sentiment.Result
	Forecast(ctx context.Context) (domain.Forecast, error)
	Series(ctx context.Context, day time.Time) ([]domain.ScoredArticle, error)
	RunIngestCycle(ctx context.Context) (domain.IngestResult, error)
}

type PriceReader interface {
	GetBTCPrice(ctx context.Context) (*domain.PricePoint, error)
	PricesForDay(ctx context.Context, day time.Time) ([]domain.PricePoint, error)
}

type Handler struct {
	tracer   trace.Tracer
	pipeline SentimentPipeline
	prices   PriceReader
	apiKey   string
	checks   map[string]HealthCheck
}

func New(tracer trace.Tracer, pipeline SentimentPipeline, prices PriceReader, apiKey string) *Handler {
	return &Handler{
		tracer:   tracer,
		pipeline: pipeline,
		prices:   prices,
		apiKey:   apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", APIKeyAuth(h.apiKey))
	api.POST("/sentiment/analyze", h.AnalyzeSentiment)
	api.GET("/sentiment/series", h.GetSentimentSeries)
	api.GET("/forecast", h.GetForecast)
	api.GET("/prices/btc", h.GetBTCPrice)
	api.POST("/ingest/run", h.TriggerIngestRun)
}

// parseDay reads a YYYY-MM-DD query value as a UTC day, today when empty.
func parseDay(c *gin.Context) (time.Time, error) {
	v := c.Query("date")
	if v == "" {
		return time.Now().UTC(), nil
	}
	return time.ParseInLocation(domain.DayLayout, v, time.UTC)
}
