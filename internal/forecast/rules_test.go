package forecast

import (
	"testing"
	"time"

	"news-pulse/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastMomentumUp(t *testing.T) {
	var series []domain.ScoredArticle
	// morning news was bearish
	for i := 0; i < 6; i++ {
		series = append(series, scored(base.Add(-5*time.Hour+time.Duration(i)*time.Minute), -1, 0.8))
	}
	for i := 0; i < 8; i++ {
		series = append(series, scored(base.Add(-time.Duration(i+1)*time.Minute), 1, 0.9))
	}
	for i := 0; i < 4; i++ {
		series = append(series, scored(base.Add(-time.Duration(i+20)*time.Minute), -1, 0.2))
	}

	f := NewEngine(DefaultConfig()).Forecast(series, base)

	require.Equal(t, 12, f.Recent.TotalArticles)
	require.Equal(t, 18, f.Daily.TotalArticles)
	assert.Greater(t, f.Momentum, 0.02)
	assert.Equal(t, domain.DirectionUp, f.Direction)
	assert.Greater(t, f.Confidence, 0.0)
	assert.LessOrEqual(t, f.Confidence, 0.95)
	assert.Equal(t, base, f.At)
}

func TestForecastRatioFallbackWhenMomentumFlat(t *testing.T) {
	var series []domain.ScoredArticle
	for i := 0; i < 8; i++ {
		series = append(series, scored(base.Add(-time.Duration(i+1)*time.Minute), 1, 0.9))
	}
	for i := 0; i < 4; i++ {
		series = append(series, scored(base.Add(-time.Duration(i+20)*time.Minute), -1, 0.2))
	}

	f := NewEngine(DefaultConfig()).Forecast(series, base)

	// recent and daily windows hold the same articles
	assert.InDelta(t, 0.0, f.Momentum, 1e-12)
	assert.InDelta(t, 1.0/3, f.Recent.SentimentRatio, 1e-9)
	assert.Equal(t, domain.DirectionUp, f.Direction)
}

func TestForecastRatioFallbackNeutral(t *testing.T) {
	series := []domain.ScoredArticle{
		scored(base.Add(-time.Minute), 1, 0.9),
		scored(base.Add(-2*time.Minute), -1, 0.9),
		scored(base.Add(-3*time.Minute), 0, 0.5),
	}
	f := NewEngine(DefaultConfig()).Forecast(series, base)
	assert.Equal(t, domain.DirectionNeutral, f.Direction)
}

func TestForecastMomentumDown(t *testing.T) {
	var series []domain.ScoredArticle
	for i := 0; i < 10; i++ {
		series = append(series, scored(base.Add(-3*time.Hour-time.Duration(i)*time.Minute), 1, 0.9))
	}
	for i := 0; i < 4; i++ {
		series = append(series, scored(base.Add(-time.Duration(i+1)*time.Minute), -1, 0.7))
	}
	f := NewEngine(DefaultConfig()).Forecast(series, base)
	assert.Less(t, f.Momentum, 0.0)
	assert.Equal(t, domain.DirectionDown, f.Direction)
}

func TestForecastInsufficientArticlesIsNeutral(t *testing.T) {
	series := []domain.ScoredArticle{
		scored(base.Add(-time.Minute), 1, 1),
		scored(base.Add(-2*time.Minute), 1, 1),
	}
	f := NewEngine(DefaultConfig()).Forecast(series, base)

	assert.Equal(t, domain.DirectionNeutral, f.Direction)
	assert.Equal(t, 2, f.Recent.TotalArticles)
	assert.LessOrEqual(t, f.Confidence, 0.95)
}

func TestForecastEmptySeries(t *testing.T) {
	f := NewEngine(DefaultConfig()).Forecast(nil, base)
	assert.Equal(t, domain.DirectionNeutral, f.Direction)
	assert.Equal(t, 0.0, f.Confidence)
	assert.Equal(t, 0.0, f.Momentum)

	cfg := DefaultConfig()
	cfg.MinArticles = 0
	f = NewEngine(cfg).Forecast(nil, base)
	assert.Equal(t, domain.DirectionNeutral, f.Direction)
	assert.Equal(t, 0.0, f.Confidence)
}

func TestForecastConfidenceCeiling(t *testing.T) {
	var series []domain.ScoredArticle
	for i := 0; i < 6; i++ {
		series = append(series, scored(base.Add(-8*time.Hour), -1, 1))
	}
	for i := 0; i < 30; i++ {
		series = append(series, scored(base.Add(-time.Duration(i)*time.Minute), 1, 1))
	}
	f := NewEngine(DefaultConfig()).Forecast(series, base)
	assert.Equal(t, domain.DirectionUp, f.Direction)
	assert.Equal(t, 0.95, f.Confidence)
}

func TestForecastConsensusBoost(t *testing.T) {
	series := []domain.ScoredArticle{
		scored(base.Add(-time.Minute), 1, 0.5),
		scored(base.Add(-2*time.Minute), 1, 0.5),
		scored(base.Add(-3*time.Minute), 1, 0.5),
		scored(base.Add(-4*time.Minute), 1, 0.5),
		scored(base.Add(-5*time.Minute), 0, 0.5),
	}
	f := NewEngine(DefaultConfig()).Forecast(series, base)

	// momentum 0, strength 1, ratio 1, volume 0.5; 4 of 5 positive boosts by 1.2
	assert.Equal(t, domain.DirectionUp, f.Direction)
	assert.InDelta(t, (0.2*1+0.3*1+0.2*0.5)*1.2, f.Confidence, 1e-9)
}

func TestForecastConsensusBoostNeedsMoreThanSixtyPercent(t *testing.T) {
	series := []domain.ScoredArticle{
		scored(base.Add(-time.Minute), 1, 0.5),
		scored(base.Add(-2*time.Minute), 1, 0.5),
		scored(base.Add(-3*time.Minute), 1, 0.5),
		scored(base.Add(-4*time.Minute), 0, 0.5),
		scored(base.Add(-5*time.Minute), 0, 0.5),
	}
	f := NewEngine(DefaultConfig()).Forecast(series, base)

	// exactly 3 of 5 is not a consensus
	assert.InDelta(t, 0.2*1+0.3*1+0.2*0.5, f.Confidence, 1e-9)
}

func TestNewEngineReplacesNonPositiveThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MomentumThreshold = 0
	cfg.SentimentThreshold = -1
	engine := NewEngine(cfg)

	assert.Equal(t, 0.02, engine.Config().MomentumThreshold)
	assert.Equal(t, 0.03, engine.Config().SentimentThreshold)

	flat := []domain.ScoredArticle{
		scored(base.Add(-time.Minute), 0, 0.9),
		scored(base.Add(-2*time.Minute), 0, 0.9),
		scored(base.Add(-3*time.Minute), 0, 0.9),
	}
	f := engine.Forecast(flat, base)
	assert.Equal(t, domain.DirectionNeutral, f.Direction)
}

func TestForecastConfidenceScalesBelowMinimum(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinArticles = 4
	series := []domain.ScoredArticle{
		scored(base.Add(-time.Minute), 1, 1),
		scored(base.Add(-2*time.Minute), 1, 1),
	}
	f := NewEngine(cfg).Forecast(series, base)

	// momentum 0, strength 1, ratio 1, volume 0.2, then halved for 2 of 4 articles
	want := (0.2*1 + 0.3*1 + 0.2*0.2) * 0.5
	assert.InDelta(t, want, f.Confidence, 1e-9)
}

func TestForecastDailyWindowStartsAtLocalMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2024, 5, 10, 1, 0, 0, 0, loc)
	series := []domain.ScoredArticle{
		scored(time.Date(2024, 5, 9, 23, 30, 0, 0, loc), 1, 1),
		scored(time.Date(2024, 5, 10, 0, 30, 0, 0, loc), 1, 1),
	}
	f := NewEngine(DefaultConfig()).Forecast(series, now)
	assert.Equal(t, 1, f.Daily.TotalArticles)
	assert.Equal(t, 1, f.Recent.TotalArticles)
}

func TestForecastConfidenceAlwaysBounded(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	for n := 0; n < 25; n++ {
		var series []domain.ScoredArticle
		for i := 0; i < n; i++ {
			s := 1
			if i%3 == 0 {
				s = -1
			}
			series = append(series, scored(base.Add(-time.Duration(i*7)*time.Minute), s, float64(i%10)/10))
		}
		f := engine.Forecast(series, base)
		assert.GreaterOrEqual(t, f.Confidence, 0.0)
		assert.LessOrEqual(t, f.Confidence, 0.95)
		assert.GreaterOrEqual(t, f.Recent.SentimentRatio, -1.0)
		assert.LessOrEqual(t, f.Recent.SentimentRatio, 1.0)
	}
}
