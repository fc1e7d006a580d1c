package forecast

import (
	"math"
	"time"

	"news-pulse/internal/domain"
)

const (
	maxConfidence    = 0.95
	consensusShare   = 0.6
	consensusBoost   = 1.2
	ratioDecision    = 0.3
	strengthFloor    = 0.001
	momentumScale    = 5.0
	defaultExpected  = 10
	defaultLookback  = time.Hour
	defaultMinCount  = 3
	defaultMomentum  = 0.02
	defaultSentiment = 0.03
)

// ConfidenceWeights blends the four confidence sub-signals. Defaults sum to 1.
type ConfidenceWeights struct {
	Momentum float64
	Strength float64
	Ratio    float64
	Volume   float64
}

func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{Momentum: 0.3, Strength: 0.2, Ratio: 0.3, Volume: 0.2}
}

// Config holds the thresholds of the rule engine.
type Config struct {
	Lookback           time.Duration
	MinArticles        int
	MomentumThreshold  float64
	SentimentThreshold float64
	ExpectedVolume     int
	Weights            ConfidenceWeights
}

func DefaultConfig() Config {
	return Config{
		Lookback:           defaultLookback,
		MinArticles:        defaultMinCount,
		MomentumThreshold:  defaultMomentum,
		SentimentThreshold: defaultSentiment,
		ExpectedVolume:     defaultExpected,
		Weights:            DefaultConfidenceWeights(),
	}
}

// Engine turns a scored series into a directional call. It holds no state
// between calls.
type Engine struct {
	cfg Config
}

// NewEngine fills unset or non-positive settings with the defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.MomentumThreshold <= 0 {
		cfg.MomentumThreshold = defaultMomentum
	}
	if cfg.SentimentThreshold <= 0 {
		cfg.SentimentThreshold = defaultSentiment
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = defaultLookback
	}
	if cfg.MinArticles < 0 {
		cfg.MinArticles = 0
	}
	if cfg.ExpectedVolume <= 0 {
		cfg.ExpectedVolume = defaultExpected
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config { return e.cfg }

// Forecast compares the last Lookback of news against the day so far.
// The day starts at midnight in now's location.
func (e *Engine) Forecast(series []domain.ScoredArticle, now time.Time) domain.Forecast {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daily := Aggregate(series, dayStart, now, e.cfg.SentimentThreshold)
	recent := Aggregate(series, now.Add(-e.cfg.Lookback), now, e.cfg.SentimentThreshold)

	momentum := recent.AvgSentiment - daily.AvgSentiment
	return domain.Forecast{
		Direction:  e.direction(recent, momentum),
		Confidence: e.confidence(recent, daily, momentum),
		Momentum:   momentum,
		Recent:     recent,
		Daily:      daily,
		At:         now,
	}
}

func (e *Engine) direction(recent domain.WindowAnalysis, momentum float64) domain.Direction {
	switch {
	case recent.TotalArticles == 0 || recent.TotalArticles < e.cfg.MinArticles:
		return domain.DirectionNeutral
	case math.Abs(momentum) < e.cfg.MomentumThreshold:
		switch {
		case recent.SentimentRatio > ratioDecision:
			return domain.DirectionUp
		case recent.SentimentRatio < -ratioDecision:
			return domain.DirectionDown
		default:
			return domain.DirectionNeutral
		}
	case momentum > 0:
		return domain.DirectionUp
	default:
		return domain.DirectionDown
	}
}

func (e *Engine) confidence(recent, daily domain.WindowAnalysis, momentum float64) float64 {
	n := float64(recent.TotalArticles)
	if n == 0 {
		return 0
	}

	volume := unit(n / float64(e.cfg.ExpectedVolume))
	strength := unit(recent.SentimentStrength / math.Max(daily.SentimentStrength, strengthFloor))
	momentumConf := unit(math.Abs(momentum) * momentumScale)
	ratio := unit(math.Abs(recent.SentimentRatio))

	w := e.cfg.Weights
	total := w.Momentum*momentumConf + w.Strength*strength + w.Ratio*ratio + w.Volume*volume

	if recent.TotalArticles < e.cfg.MinArticles {
		total *= n / float64(e.cfg.MinArticles)
	} else if math.Max(float64(recent.Positive), float64(recent.Negative))/n > consensusShare {
		total *= consensusBoost
	}
	return math.Min(unit(total), maxConfidence)
}

func unit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
