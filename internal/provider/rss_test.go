package provider

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func xmlResponse(body string, status int) roundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
			Header:     make(http.Header),
		}, nil
	}
}

func TestRSSFetchFeed(t *testing.T) {
	p := NewRSSProvider(trace.NewNoopTracerProvider().Tracer("test"))
	long := strings.Repeat("word ", 80)
	p.client = &http.Client{Transport: xmlResponse(`<?xml version="1.0"?><rss version="2.0"><channel><title>Example Feed</title>`+
		`<item><title>Bitcoin &amp; ETF adoption rises</title><link>https://news.example/btc</link><description><![CDATA[<p>Bitcoin growth continues</p>]]></description><pubDate>Fri, 13 Feb 2026 10:00:00 +0000</pubDate></item>`+
		`<item><title>   </title><link>https://news.example/empty</link></item>`+
		`<item><title>Undated</title><description>`+long+`</description><pubDate>yesterday</pubDate></item>`+
		`</channel></rss>`, http.StatusOK)}
	fixed := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	items, err := p.FetchFeed(context.Background(), "coindesk", "https://news.example/rss", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	first := items[0]
	if first.Source != "coindesk" || first.Headline != "Bitcoin & ETF adoption rises" {
		t.Fatalf("unexpected item: %+v", first)
	}
	if first.Summary != "Bitcoin growth continues" {
		t.Fatalf("expected html stripped summary, got %q", first.Summary)
	}
	if !first.PublishedAt.Equal(time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected published time %v", first.PublishedAt)
	}

	second := items[1]
	if !second.PublishedAt.Equal(fixed) {
		t.Fatalf("unparseable date should fall back to now, got %v", second.PublishedAt)
	}
	if n := len([]rune(second.Summary)); n > maxSummaryLen {
		t.Fatalf("summary should be truncated to %d runes, got %d", maxSummaryLen, n)
	}
}

func TestRSSFetchAtomFeed(t *testing.T) {
	p := NewRSSProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.client = &http.Client{Transport: xmlResponse(`<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom">`+
		`<entry><title>Exchange hack drains wallets</title><link rel="alternate" href="https://atom.example/a"/><summary>Funds lost</summary><published>2026-02-13T08:30:00Z</published></entry>`+
		`<entry><title>Second</title><link href="https://atom.example/b"/><updated>2026-02-13T09:00:00Z</updated></entry>`+
		`</feed>`, http.StatusOK)}

	items, err := p.FetchFeed(context.Background(), "theblock", "https://atom.example/feed", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected maxItems to cap results, got %d", len(items))
	}
	if items[0].Link != "https://atom.example/a" || items[0].Summary != "Funds lost" {
		t.Fatalf("unexpected atom item: %+v", items[0])
	}
}

func TestRSSFetchFeedErrors(t *testing.T) {
	p := NewRSSProvider(trace.NewNoopTracerProvider().Tracer("test"))
	if _, err := p.FetchFeed(context.Background(), "x", " ", 10); err == nil {
		t.Fatal("expected error for empty url")
	}

	p.client = &http.Client{Transport: xmlResponse("gone", http.StatusNotFound)}
	if _, err := p.FetchFeed(context.Background(), "x", "https://news.example/rss", 10); err == nil {
		t.Fatal("expected error for non-200 status")
	}

	p.client = &http.Client{Transport: xmlResponse("<rss><channel>", http.StatusOK)}
	if _, err := p.FetchFeed(context.Background(), "x", "https://news.example/rss", 10); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSanitizeTextTruncatesRunes(t *testing.T) {
	if got := sanitizeText("  a\n\tb   c ", 0); got != "a b c" {
		t.Fatalf("unexpected sanitize result %q", got)
	}
	if got := sanitizeText("ééééé", 3); got != "ééé" {
		t.Fatalf("expected rune-aware truncation, got %q", got)
	}
}
