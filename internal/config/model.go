package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"news-pulse/internal/forecast"
	"news-pulse/internal/sentiment"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type ScorerWeights struct {
	Vader       float64 `yaml:"vader" default:"0.35" validate:"gte=0"`
	TextBlob    float64 `yaml:"textblob" default:"0.15" validate:"gte=0"`
	Transformer float64 `yaml:"transformer" default:"0.35" validate:"gte=0"`
	Lexicon     float64 `yaml:"lexicon" default:"0.15" validate:"gte=0"`
}

type Thresholds struct {
	Sentiment float64 `yaml:"sentiment" default:"0.03" validate:"gt=0"`
	Momentum  float64 `yaml:"momentum" default:"0.02" validate:"gt=0"`
}

type Prediction struct {
	LookbackMinutes int `yaml:"lookback_minutes" default:"60" validate:"gt=0"`
	MinArticles     int `yaml:"min_articles" default:"3" validate:"gte=0"`
	ExpectedVolume  int `yaml:"expected_volume" default:"10" validate:"gt=0"`
}

type ConfidenceWeights struct {
	Momentum float64 `yaml:"momentum" default:"0.3" validate:"gte=0"`
	Strength float64 `yaml:"strength" default:"0.2" validate:"gte=0"`
	Ratio    float64 `yaml:"ratio" default:"0.3" validate:"gte=0"`
	Volume   float64 `yaml:"volume" default:"0.2" validate:"gte=0"`
}

// ModelConfig is the typed form of model.yaml.
type ModelConfig struct {
	Policy            string            `yaml:"policy" default:"symmetric" validate:"oneof=symmetric negative_bias"`
	Weights           ScorerWeights     `yaml:"weights"`
	Thresholds        Thresholds        `yaml:"thresholds"`
	Prediction        Prediction        `yaml:"prediction"`
	ConfidenceWeights ConfidenceWeights `yaml:"confidence_weights"`
}

// LoadModel reads model.yaml. A missing file yields the defaults; keys
// absent from the file keep their defaults.
func LoadModel(path string) (*ModelConfig, error) {
	cfg := &ModelConfig{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("model config defaults: %w", err)
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", path).Msg("model config not found, using defaults")
	case err != nil:
		return nil, fmt.Errorf("read model config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse model config: %w", err)
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	return cfg, nil
}

func (m *ModelConfig) EnsembleWeights() sentiment.Weights {
	return sentiment.Weights{
		sentiment.ScorerValence:    m.Weights.Vader,
		sentiment.ScorerPolarity:   m.Weights.TextBlob,
		sentiment.ScorerClassifier: m.Weights.Transformer,
		sentiment.ScorerLexicon:    m.Weights.Lexicon,
	}
}

func (m *ModelConfig) EnsemblePolicy() sentiment.Policy {
	return sentiment.ParsePolicy(m.Policy)
}

func (m *ModelConfig) Forecast() forecast.Config {
	return forecast.Config{
		Lookback:           time.Duration(m.Prediction.LookbackMinutes) * time.Minute,
		MinArticles:        m.Prediction.MinArticles,
		MomentumThreshold:  m.Thresholds.Momentum,
		SentimentThreshold: m.Thresholds.Sentiment,
		ExpectedVolume:     m.Prediction.ExpectedVolume,
		Weights: forecast.ConfidenceWeights{
			Momentum: m.ConfidenceWeights.Momentum,
			Strength: m.ConfidenceWeights.Strength,
			Ratio:    m.ConfidenceWeights.Ratio,
			Volume:   m.ConfidenceWeights.Volume,
		},
	}
}

// Feed is one RSS source.
type Feed struct {
	Name string
	URL  string
}

// NewsSources lists where the ingest cycle collects articles from.
type NewsSources struct {
	Feeds      []Feed
	Subreddits []string
}

type sourcesFile struct {
	Sources    map[string]string `yaml:"sources" validate:"dive,required,url"`
	Subreddits []string          `yaml:"subreddits" validate:"dive,required,excludesall=/"`
}

var defaultFeeds = map[string]string{
	"coindesk":       "https://www.coindesk.com/arc/outboundfeeds/rss/",
	"cointelegraph":  "https://cointelegraph.com/rss",
	"cryptonews":     "https://cryptonews.com/news/feed",
	"decrypt":        "https://decrypt.co/feed",
	"beincrypto":     "https://beincrypto.com/feed/",
	"bitcoinist":     "https://bitcoinist.com/feed/",
	"cryptoslate":    "https://cryptoslate.com/feed/",
	"newsbtc":        "https://www.newsbtc.com/feed/",
	"ambcrypto":      "https://ambcrypto.com/feed/",
	"cryptopotato":   "https://cryptopotato.com/feed/",
	"theblock":       "https://www.theblock.co/rss.xml",
	"cryptobriefing": "https://cryptobriefing.com/feed/",
	"dailyhodl":      "https://dailyhodl.com/feed/",
	"bitcoincom":     "https://news.bitcoin.com/feed/",
}

// LoadSources reads the feed list, sorted by name. A missing file or an
// empty sources map yields the built-in feeds. Subreddits are optional.
func LoadSources(path string) (*NewsSources, error) {
	file := sourcesFile{}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", path).Msg("feeds config not found, using built-in feeds")
	case err != nil:
		return nil, fmt.Errorf("read feeds config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse feeds config: %w", err)
		}
		if err := validate.Struct(file); err != nil {
			return nil, fmt.Errorf("invalid feeds config: %w", err)
		}
	}
	if len(file.Sources) == 0 {
		file.Sources = defaultFeeds
	}

	out := &NewsSources{
		Feeds:      make([]Feed, 0, len(file.Sources)),
		Subreddits: file.Subreddits,
	}
	for name, url := range file.Sources {
		out.Feeds = append(out.Feeds, Feed{Name: name, URL: url})
	}
	sort.Slice(out.Feeds, func(i, j int) bool { return out.Feeds[i].Name < out.Feeds[j].Name })
	return out, nil
}
