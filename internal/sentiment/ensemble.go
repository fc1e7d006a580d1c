package sentiment

import (
	"math"
	"strings"
	"time"

	"news-pulse/internal/domain"

	"github.com/moznion/go-optional"
)

const (
	ScorerValence    = "vader"
	ScorerPolarity   = "textblob"
	ScorerClassifier = "transformer"
	ScorerLexicon    = "lexicon"

	DetailCombined    = "combined"
	DetailCombinedRaw = "combined_raw"
)

// Scorer is an always-available text scorer.
type Scorer interface {
	Name() string
	Score(text string) float64
}

// OptionalScorer may have no opinion, e.g. when its backing model could not
// be loaded. None means "leave me out of the sum".
type OptionalScorer interface {
	Name() string
	Score(text string) optional.Option[float64]
}

// Weights maps scorer name to its ensemble weight.
type Weights map[string]float64

var defaultWeights = Weights{
	ScorerValence:    0.35,
	ScorerPolarity:   0.15,
	ScorerClassifier: 0.35,
	ScorerLexicon:    0.15,
}

func DefaultWeights() Weights {
	out := make(Weights, len(defaultWeights))
	for k, v := range defaultWeights {
		out[k] = v
	}
	return out
}

// For returns the configured weight, falling back to the default for names
// the caller did not set.
func (w Weights) For(name string) float64 {
	if v, ok := w[name]; ok {
		return v
	}
	return defaultWeights[name]
}

// Policy decides how the combined score is shaped before thresholding.
type Policy string

const (
	// PolicySymmetric thresholds the raw weighted sum.
	PolicySymmetric Policy = "symmetric"
	// PolicyNegativeBias damps positive sums by 0.8 and amplifies negative
	// sums by 1.2 so bad news crosses the threshold more readily.
	PolicyNegativeBias Policy = "negative_bias"
)

func ParsePolicy(v string) Policy {
	switch Policy(strings.ToLower(strings.TrimSpace(v))) {
	case PolicyNegativeBias:
		return PolicyNegativeBias
	default:
		return PolicySymmetric
	}
}

// Result is the ensemble verdict for one piece of text.
type Result struct {
	Sentiment  int                `json:"sentiment"`
	Confidence float64            `json:"confidence"`
	Score      float64            `json:"score"`
	Detail     map[string]float64 `json:"detail"`
	Available  []string           `json:"available"`
}

// Ensemble combines independent scorers with caller supplied weights.
type Ensemble struct {
	scorers  []Scorer
	optional []OptionalScorer
	policy   Policy
}

func NewEnsemble(policy Policy, scorers []Scorer, optionalScorers ...OptionalScorer) *Ensemble {
	if policy == "" {
		policy = PolicySymmetric
	}
	return &Ensemble{scorers: scorers, optional: optionalScorers, policy: policy}
}

// NewDefaultEnsemble wires the valence, polarity and lexicon scorers plus an
// optional classifier slot (nil for none).
func NewDefaultEnsemble(policy Policy, classifier OptionalScorer) *Ensemble {
	scorers := []Scorer{NewValenceScorer(), NewPolarityScorer(), NewLexiconScorer()}
	if classifier == nil {
		return NewEnsemble(policy, scorers)
	}
	return NewEnsemble(policy, scorers, classifier)
}

func (e *Ensemble) Policy() Policy { return e.policy }

// Analyze scores headline and summary together. Unavailable optional scorers
// contribute nothing and their weight is not redistributed.
func (e *Ensemble) Analyze(headline, summary string, weights Weights, threshold float64) Result {
	text := strings.TrimSpace(strings.TrimSpace(headline) + " " + strings.TrimSpace(summary))
	detail := make(map[string]float64, len(e.scorers)+len(e.optional)+2)
	available := make([]string, 0, len(e.scorers)+len(e.optional))

	combined := 0.0
	for _, s := range e.scorers {
		v := finite(s.Score(text))
		detail[s.Name()] = v
		available = append(available, s.Name())
		combined += weights.For(s.Name()) * v
	}
	for _, s := range e.optional {
		v := s.Score(text)
		if !v.IsSome() {
			detail[s.Name()] = 0
			continue
		}
		val := finite(v.Unwrap())
		detail[s.Name()] = val
		available = append(available, s.Name())
		combined += weights.For(s.Name()) * val
	}

	if e.policy == PolicyNegativeBias {
		detail[DetailCombinedRaw] = combined
		if combined > 0 {
			combined *= 0.8
		} else {
			combined *= 1.2
		}
	}
	detail[DetailCombined] = combined

	return Result{
		Sentiment:  Classify(combined, threshold),
		Confidence: math.Min(math.Abs(combined), 1.0),
		Score:      combined,
		Detail:     detail,
		Available:  available,
	}
}

// Score runs Analyze on an article and stamps the result.
func (e *Ensemble) Score(article domain.Article, weights Weights, threshold float64, now time.Time) domain.ScoredArticle {
	res := e.Analyze(article.Headline, article.Summary, weights, threshold)
	return domain.ScoredArticle{
		Article:         article,
		Sentiment:       res.Sentiment,
		Confidence:      res.Confidence,
		RawScore:        res.Score,
		ComponentScores: res.Detail,
		ScoredAt:        now,
	}
}

// Classify maps a score onto {-1, 0, 1} using a symmetric threshold.
func Classify(score, threshold float64) int {
	switch {
	case score > threshold:
		return domain.SentimentPositive
	case score < -threshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
