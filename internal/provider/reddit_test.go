package provider

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func TestRedditFetchHot(t *testing.T) {
	p := NewRedditProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "https://example.com"
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/r/Bitcoin/hot.json" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		if req.Header.Get("User-Agent") == "" {
			t.Fatalf("expected user-agent header")
		}
		body := `{"data":{"children":[` +
			`{"data":{"id":"pin","title":"Daily discussion","stickied":true,"created_utc":1771009000}},` +
			`{"data":{"id":"abc123","title":"BTC breaks out","selftext":"Market is moving up","created_utc":1771009800,"permalink":"/r/Bitcoin/comments/abc123/post","url":"https://example.com/fallback"}},` +
			`{"data":{"id":"","title":"no id"}}]}}`
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
			Header:     make(http.Header),
		}, nil
	})}

	items, err := p.FetchHot(context.Background(), "Bitcoin", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Source != "reddit/r/Bitcoin" || item.Headline != "BTC breaks out" || item.Summary != "Market is moving up" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.Link != "https://example.com/r/Bitcoin/comments/abc123/post" {
		t.Fatalf("unexpected permalink url: %s", item.Link)
	}
	if !item.PublishedAt.Equal(time.Unix(1771009800, 0).UTC()) {
		t.Fatalf("unexpected published time %v", item.PublishedAt)
	}
}

func TestRedditFetchHotRequiresSubreddit(t *testing.T) {
	p := NewRedditProvider(trace.NewNoopTracerProvider().Tracer("test"))
	if _, err := p.FetchHot(context.Background(), "  ", 5); err == nil {
		t.Fatal("expected error for empty subreddit")
	}
}
