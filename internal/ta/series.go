package ta

import (
	"math"
	"time"

	"news-pulse/internal/domain"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HourlySentiment buckets series into the 24 hours of day, in day's
// location, and returns the confidence-weighted mean label of each hour.
// Hours without articles, or whose confidences sum to zero, are NaN.
func HourlySentiment(series []domain.ScoredArticle, day time.Time) []float64 {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	labels := make([][]float64, 24)
	weights := make([][]float64, 24)
	for _, s := range series {
		at := s.PublishedAt.In(day.Location())
		if at.Before(start) {
			continue
		}
		h := int(at.Sub(start) / time.Hour)
		if h >= 24 {
			continue
		}
		labels[h] = append(labels[h], float64(domain.NormalizeSentiment(s.Sentiment)))
		weights[h] = append(weights[h], domain.NormalizeConfidence(s.Confidence))
	}

	out := make([]float64, 24)
	for h := range out {
		if len(labels[h]) == 0 || floats.Sum(weights[h]) == 0 {
			out[h] = math.NaN()
			continue
		}
		out[h] = stat.Mean(labels[h], weights[h])
	}
	return out
}

// FillGaps carries the last seen value forward over NaN slots. Leading NaNs
// become 0.
func FillGaps(values []float64) []float64 {
	out := make([]float64, len(values))
	last := 0.0
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = last
			continue
		}
		out[i] = v
		last = v
	}
	return out
}

func EMASeries(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	if period <= 1 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	alpha := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// PercentChange is the relative move from the first to the last value.
func PercentChange(values []float64) float64 {
	if len(values) < 2 || values[0] == 0 {
		return 0
	}
	return (values[len(values)-1] - values[0]) / values[0] * 100
}
