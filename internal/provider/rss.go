package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"news-pulse/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	maxHeadlineLen = 300
	maxSummaryLen  = 240
)

type RSSProvider struct {
	client  *http.Client
	tracer  trace.Tracer
	limiter *rate.Limiter
	now     func() time.Time
}

// NewRSSProvider fetches feeds at no more than two requests per second
// across all hosts.
func NewRSSProvider(tracer trace.Tracer) *RSSProvider {
	return &RSSProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		tracer:  tracer,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		now:     time.Now,
	}
}

type rssDocument struct {
	Channel struct {
		Items []struct {
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
			PubDate     string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

type atomDocument struct {
	Entries []struct {
		Title string `xml:"title"`
		Links []struct {
			Href string `xml:"href,attr"`
			Rel  string `xml:"rel,attr"`
		} `xml:"link"`
		Summary   string `xml:"summary"`
		Content   string `xml:"content"`
		Published string `xml:"published"`
		Updated   string `xml:"updated"`
	} `xml:"entry"`
}

// FetchFeed returns up to maxItems articles from an RSS 2.0 or Atom feed.
// Entries without a title are skipped; unparseable dates fall back to now.
func (p *RSSProvider) FetchFeed(ctx context.Context, name, feedURL string, maxItems int) ([]domain.Article, error) {
	ctx, span := p.tracer.Start(ctx, "rss.fetch-feed")
	defer span.End()
	span.SetAttributes(attribute.String("feed.name", name))

	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, fmt.Errorf("feed url is required")
	}
	if maxItems <= 0 {
		maxItems = 50
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")
	req.Header.Set("User-Agent", "news-pulse/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rss fetch error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return p.parse(name, body, maxItems)
}

func (p *RSSProvider) parse(source string, body []byte, maxItems int) ([]domain.Article, error) {
	var rss rssDocument
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, fmt.Errorf("decode feed payload: %w", err)
	}

	var articles []domain.Article
	if len(rss.Channel.Items) > 0 {
		for _, row := range rss.Channel.Items {
			if a, ok := p.article(source, row.Title, row.Link, row.Description, row.PubDate); ok {
				articles = append(articles, a)
			}
			if len(articles) >= maxItems {
				break
			}
		}
		return articles, nil
	}

	var atom atomDocument
	if err := xml.Unmarshal(body, &atom); err != nil {
		return nil, fmt.Errorf("decode feed payload: %w", err)
	}
	for _, e := range atom.Entries {
		link := ""
		for _, l := range e.Links {
			if l.Rel == "" || l.Rel == "alternate" {
				link = l.Href
				break
			}
		}
		summary := e.Summary
		if strings.TrimSpace(summary) == "" {
			summary = e.Content
		}
		published := e.Published
		if published == "" {
			published = e.Updated
		}
		if a, ok := p.article(source, e.Title, link, summary, published); ok {
			articles = append(articles, a)
		}
		if len(articles) >= maxItems {
			break
		}
	}
	return articles, nil
}

func (p *RSSProvider) article(source, title, link, summary, published string) (domain.Article, bool) {
	headline := sanitizeText(html.UnescapeString(title), maxHeadlineLen)
	if headline == "" {
		return domain.Article{}, false
	}
	at := parseRSSDate(published)
	if at.IsZero() {
		at = p.now()
	}
	return domain.Article{
		Source:      source,
		Headline:    headline,
		Summary:     sanitizeText(html.UnescapeString(htmlStrip(summary)), maxSummaryLen),
		Link:        strings.TrimSpace(link),
		PublishedAt: at.UTC(),
	}, true
}

func parseRSSDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339, "2006-01-02T15:04:05-0700"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func htmlStrip(in string) string {
	if strings.TrimSpace(in) == "" {
		return ""
	}
	var b strings.Builder
	inside := false
	for _, r := range in {
		switch r {
		case '<':
			inside = true
			continue
		case '>':
			inside = false
			b.WriteRune(' ')
			continue
		}
		if !inside {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sanitizeText collapses whitespace and truncates to maxLen runes.
func sanitizeText(in string, maxLen int) string {
	in = strings.Join(strings.Fields(in), " ")
	if maxLen > 0 {
		if r := []rune(in); len(r) > maxLen {
			in = strings.TrimSpace(string(r[:maxLen]))
		}
	}
	return in
}
