package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"news-pulse/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	redditBaseURL     = "https://www.reddit.com"
	defaultRedditUA   = "news-pulse/1.0"
	defaultRedditSize = 40
)

// RedditProvider turns hot subreddit posts into articles. Post titles are
// headlines and self text is the summary.
type RedditProvider struct {
	client    *http.Client
	baseURL   string
	userAgent string
	tracer    trace.Tracer
	limiter   *rate.Limiter
}

func NewRedditProvider(tracer trace.Tracer) *RedditProvider {
	return &RedditProvider{
		client:    &http.Client{Timeout: 20 * time.Second},
		baseURL:   redditBaseURL,
		userAgent: defaultRedditUA,
		tracer:    tracer,
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

func (p *RedditProvider) FetchHot(ctx context.Context, subreddit string, limit int) ([]domain.Article, error) {
	ctx, span := p.tracer.Start(ctx, "reddit.fetch-hot")
	defer span.End()

	subreddit = strings.TrimSpace(subreddit)
	if subreddit == "" {
		return nil, fmt.Errorf("subreddit is required")
	}
	span.SetAttributes(attribute.String("reddit.subreddit", subreddit))
	if limit <= 0 {
		limit = defaultRedditSize
	}
	if limit > 100 {
		limit = 100
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	base := strings.TrimRight(p.baseURL, "/")
	u := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", base, url.PathEscape(subreddit), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("reddit API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Data struct {
			Children []struct {
				Data struct {
					ID         string  `json:"id"`
					Title      string  `json:"title"`
					SelfText   string  `json:"selftext"`
					CreatedUTC float64 `json:"created_utc"`
					Permalink  string  `json:"permalink"`
					URL        string  `json:"url"`
					Stickied   bool    `json:"stickied"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode reddit response: %w", err)
	}

	source := "reddit/r/" + subreddit
	articles := make([]domain.Article, 0, len(payload.Data.Children))
	for _, row := range payload.Data.Children {
		data := row.Data
		title := sanitizeText(data.Title, maxHeadlineLen)
		if strings.TrimSpace(data.ID) == "" || title == "" || data.Stickied {
			continue
		}
		link := strings.TrimSpace(data.URL)
		if permalink := strings.TrimSpace(data.Permalink); permalink != "" {
			link = base + permalink
		}
		articles = append(articles, domain.Article{
			Source:      source,
			Headline:    title,
			Summary:     sanitizeText(data.SelfText, maxSummaryLen),
			Link:        link,
			PublishedAt: time.Unix(int64(data.CreatedUTC), 0).UTC(),
		})
	}

	return articles, nil
}
