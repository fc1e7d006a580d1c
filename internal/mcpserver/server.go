package mcpserver

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"news-pulse/internal/domain"
	"news-pulse/internal/sentiment"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Pipeline interface {
	Analyze(headline, summary string) sentiment.Result
	Forecast(ctx context.Context) (domain.Forecast, error)
	Series(ctx context.Context, day time.Time) ([]domain.ScoredArticle, error)
}

type AnalyzeInput struct {
	Headline string `json:"headline" jsonschema:"news headline to score"`
	Summary  string `json:"summary,omitempty" jsonschema:"optional article summary"`
}

type AnalyzeOutput struct {
	Sentiment  int                `json:"sentiment" jsonschema:"-1 negative, 0 neutral, 1 positive"`
	Confidence float64            `json:"confidence"`
	Score      float64            `json:"score"`
	Detail     map[string]float64 `json:"detail"`
	Available  []string           `json:"available"`
}

type ForecastInput struct{}

type WindowOutput struct {
	TotalArticles int     `json:"total_articles"`
	Positive      int     `json:"positive"`
	Negative      int     `json:"negative"`
	Neutral       int     `json:"neutral"`
	AvgSentiment  float64 `json:"avg_sentiment"`
	Strength      float64 `json:"sentiment_strength"`
	Ratio         float64 `json:"sentiment_ratio"`
	Volatility    float64 `json:"sentiment_volatility"`
}

type ForecastOutput struct {
	Direction  string       `json:"direction" jsonschema:"UP, DOWN or NEUTRAL"`
	Confidence float64      `json:"confidence"`
	Momentum   float64      `json:"momentum"`
	At         string       `json:"at"`
	Recent     WindowOutput `json:"recent"`
	Daily      WindowOutput `json:"daily"`
}

type SeriesInput struct {
	Date string `json:"date,omitempty" jsonschema:"UTC day as YYYY-MM-DD, today when empty"`
}

type SeriesItem struct {
	Source      string  `json:"source"`
	Headline    string  `json:"headline"`
	PublishedAt string  `json:"published_at"`
	Sentiment   int     `json:"sentiment"`
	Confidence  float64 `json:"confidence"`
}

type SeriesOutput struct {
	Date     string       `json:"date"`
	Articles []SeriesItem `json:"articles"`
}

// Server exposes the sentiment pipeline as MCP tools.
type Server struct {
	pipeline Pipeline
	timeout  time.Duration
	server   *mcp.Server
	now      func() time.Time
}

func New(pipeline Pipeline, version string, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	s := &Server{
		pipeline: pipeline,
		timeout:  timeout,
		server:   mcp.NewServer(&mcp.Implementation{Name: "news-pulse", Version: version}, nil),
		now:      time.Now,
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_sentiment",
		Description: "Score a crypto news headline with the sentiment ensemble",
	}, s.analyze)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "forecast",
		Description: "Current BTC direction forecast from recent versus daily news sentiment",
	}, s.forecast)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sentiment_series",
		Description: "Scored headlines for one UTC day",
	}, s.series)

	return s
}

func (s *Server) MCP() *mcp.Server { return s.server }

// RunStdio serves a single client over stdin/stdout until ctx ends.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler serves the streamable HTTP transport. A non-empty token
// requires "Authorization: Bearer <token>".
func (s *Server) HTTPHandler(token string) http.Handler {
	h := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.server }, nil)
	if token == "" {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func (s *Server) analyze(ctx context.Context, req *mcp.CallToolRequest, in AnalyzeInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
	if strings.TrimSpace(in.Headline) == "" {
		return nil, AnalyzeOutput{}, fmt.Errorf("headline is required")
	}
	res := s.pipeline.Analyze(in.Headline, in.Summary)
	return nil, AnalyzeOutput{
		Sentiment:  res.Sentiment,
		Confidence: res.Confidence,
		Score:      res.Score,
		Detail:     res.Detail,
		Available:  res.Available,
	}, nil
}

func (s *Server) forecast(ctx context.Context, req *mcp.CallToolRequest, _ ForecastInput) (*mcp.CallToolResult, ForecastOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	f, err := s.pipeline.Forecast(ctx)
	if err != nil {
		return nil, ForecastOutput{}, fmt.Errorf("forecast: %w", err)
	}
	return nil, ForecastOutput{
		Direction:  string(f.Direction),
		Confidence: f.Confidence,
		Momentum:   f.Momentum,
		At:         f.At.UTC().Format(time.RFC3339),
		Recent:     window(f.Recent),
		Daily:      window(f.Daily),
	}, nil
}

func (s *Server) series(ctx context.Context, req *mcp.CallToolRequest, in SeriesInput) (*mcp.CallToolResult, SeriesOutput, error) {
	day := s.now().UTC()
	if in.Date != "" {
		parsed, err := time.ParseInLocation(domain.DayLayout, in.Date, time.UTC)
		if err != nil {
			return nil, SeriesOutput{}, fmt.Errorf("date must be YYYY-MM-DD")
		}
		day = parsed
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.pipeline.Series(ctx, day)
	if err != nil {
		return nil, SeriesOutput{}, fmt.Errorf("series: %w", err)
	}
	out := SeriesOutput{Date: day.Format(domain.DayLayout), Articles: make([]SeriesItem, 0, len(rows))}
	for _, r := range rows {
		out.Articles = append(out.Articles, SeriesItem{
			Source:      r.Source,
			Headline:    r.Headline,
			PublishedAt: r.PublishedAt.UTC().Format(time.RFC3339),
			Sentiment:   r.Sentiment,
			Confidence:  r.Confidence,
		})
	}
	return nil, out, nil
}

func window(w domain.WindowAnalysis) WindowOutput {
	return WindowOutput{
		TotalArticles: w.TotalArticles,
		Positive:      w.Positive,
		Negative:      w.Negative,
		Neutral:       w.Neutral,
		AvgSentiment:  w.AvgSentiment,
		Strength:      w.SentimentStrength,
		Ratio:         w.SentimentRatio,
		Volatility:    w.SentimentVolatility,
	}
}
