package forecast

import (
	"math"
	"time"

	"news-pulse/internal/domain"

	"gonum.org/v1/gonum/stat"
)

// Aggregate summarises the scored articles published inside [start, end].
// Both bounds are inclusive. Articles are re-bucketed on sentiment×confidence
// against sentimentThreshold, independently of their stored label.
//
// When the window has articles but every confidence is zero the weighted
// average is undefined; AvgSentiment is reported as 0 and ZeroConfidence is
// set.
func Aggregate(series []domain.ScoredArticle, start, end time.Time, sentimentThreshold float64) domain.WindowAnalysis {
	out := domain.WindowAnalysis{Start: start, End: end}

	labels := make([]float64, 0, len(series))
	confidences := make([]float64, 0, len(series))
	var strength float64
	for _, item := range series {
		at := item.PublishedAt
		if at.Before(start) || at.After(end) {
			continue
		}
		label := float64(domain.NormalizeSentiment(item.Sentiment))
		conf := domain.NormalizeConfidence(item.Confidence)
		labels = append(labels, label)
		confidences = append(confidences, conf)

		weighted := label * conf
		strength += math.Abs(weighted)
		switch {
		case weighted > sentimentThreshold:
			out.Positive++
		case weighted < -sentimentThreshold:
			out.Negative++
		default:
			out.Neutral++
		}
	}

	n := len(labels)
	if n == 0 {
		return out
	}
	out.TotalArticles = n

	var confSum float64
	for _, c := range confidences {
		confSum += c
	}
	if confSum == 0 {
		out.ZeroConfidence = true
	} else {
		out.AvgSentiment = stat.Mean(labels, confidences)
	}
	out.AvgConfidence = stat.Mean(confidences, nil)
	out.SentimentStrength = strength / float64(n)

	if classified := out.Positive + out.Negative; classified > 0 {
		out.SentimentRatio = float64(out.Positive-out.Negative) / float64(classified)
	}
	if n >= 2 {
		out.SentimentVolatility = stat.StdDev(labels, nil)
	}
	return out
}
