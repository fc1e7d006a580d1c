package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"news-pulse/internal/sentiment"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadModelMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadModel(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Thresholds.Sentiment != 0.03 || cfg.Thresholds.Momentum != 0.02 {
		t.Fatalf("unexpected thresholds: %+v", cfg.Thresholds)
	}
	if cfg.EnsemblePolicy() != sentiment.PolicySymmetric {
		t.Fatalf("expected symmetric policy, got %s", cfg.Policy)
	}
	w := cfg.EnsembleWeights()
	if w[sentiment.ScorerValence] != 0.35 || w[sentiment.ScorerLexicon] != 0.15 {
		t.Fatalf("unexpected weights: %v", w)
	}
	fc := cfg.Forecast()
	if fc.Lookback != time.Hour || fc.MinArticles != 3 || fc.ExpectedVolume != 10 {
		t.Fatalf("unexpected forecast config: %+v", fc)
	}
	if fc.Weights.Momentum != 0.3 || fc.Weights.Volume != 0.2 {
		t.Fatalf("unexpected confidence weights: %+v", fc.Weights)
	}
}

func TestLoadModelPartialFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "model.yaml", `
policy: negative_bias
weights:
  vader: 0.5
thresholds:
  sentiment: 0.05
prediction:
  lookback_minutes: 30
`)
	cfg, err := LoadModel(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EnsemblePolicy() != sentiment.PolicyNegativeBias {
		t.Fatalf("expected negative bias policy")
	}
	if cfg.Weights.Vader != 0.5 || cfg.Weights.TextBlob != 0.15 {
		t.Fatalf("unexpected weights: %+v", cfg.Weights)
	}
	if cfg.Thresholds.Sentiment != 0.05 || cfg.Thresholds.Momentum != 0.02 {
		t.Fatalf("unexpected thresholds: %+v", cfg.Thresholds)
	}
	if cfg.Forecast().Lookback != 30*time.Minute {
		t.Fatalf("unexpected lookback %s", cfg.Forecast().Lookback)
	}
}

func TestLoadModelRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"policy":                   "policy: optimistic\n",
		"weight":                   "weights:\n  vader: -1\n",
		"lookback":                 "prediction:\n  lookback_minutes: -5\n",
		"zero sentiment threshold": "thresholds:\n  sentiment: 0\n",
		"zero momentum threshold":  "thresholds:\n  momentum: 0\n",
		"negative threshold":       "thresholds:\n  momentum: -0.1\n",
		"yaml":                     "weights: [1, 2\n",
	}
	for name, body := range cases {
		if _, err := LoadModel(writeFile(t, name+".yaml", body)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadSources(t *testing.T) {
	sources, err := LoadSources(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources.Feeds) != 14 || sources.Feeds[0].Name != "ambcrypto" || len(sources.Subreddits) != 0 {
		t.Fatalf("unexpected built-in sources: %+v", sources)
	}

	path := writeFile(t, "feeds.yaml", `
sources:
  zeta: https://zeta.example/feed
  alpha: https://alpha.example/rss
subreddits: [Bitcoin]
`)
	sources, err = LoadSources(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources.Feeds) != 2 || sources.Feeds[0].Name != "alpha" || sources.Feeds[1].URL != "https://zeta.example/feed" {
		t.Fatalf("unexpected feeds: %v", sources.Feeds)
	}
	if len(sources.Subreddits) != 1 || sources.Subreddits[0] != "Bitcoin" {
		t.Fatalf("unexpected subreddits: %v", sources.Subreddits)
	}

	if _, err := LoadSources(writeFile(t, "bad.yaml", "sources:\n  broken: not-a-url\n")); err == nil {
		t.Fatal("expected validation error for bad url")
	}
	if _, err := LoadSources(writeFile(t, "badsub.yaml", "subreddits: [\"r/Bitcoin\"]\n")); err == nil {
		t.Fatal("expected validation error for subreddit path")
	}
}
