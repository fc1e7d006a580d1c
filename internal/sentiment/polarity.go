package sentiment

// polarityWords holds word polarities in [-1, 1], adjective-heavy like a
// general purpose pattern lexicon.
var polarityWords = map[string]float64{
	"amazing": 0.6, "awful": -1.0, "bad": -0.7, "best": 1.0, "better": 0.5,
	"big": 0.0, "bright": 0.7, "bullish": 0.5, "bearish": -0.5, "cheap": 0.4,
	"clear": 0.1, "confident": 0.5, "critical": -0.2, "dangerous": -0.6,
	"disappointing": -0.6, "easy": 0.43, "excellent": 1.0, "exciting": 0.3,
	"fake": -0.5, "fantastic": 0.4, "favorable": 0.6, "fine": 0.42,
	"good": 0.7, "great": 0.8, "happy": 0.8, "hard": -0.29, "healthy": 0.5,
	"high": 0.16, "higher": 0.25, "huge": 0.4, "illegal": -0.5, "important": 0.4,
	"impressive": 1.0, "large": 0.21, "long": -0.05, "low": 0.0, "lower": 0.0,
	"major": 0.06, "massive": 0.0, "negative": -0.3, "new": 0.14, "nice": 0.6,
	"optimistic": 0.5, "perfect": 1.0, "poor": -0.4, "positive": 0.23,
	"promising": 0.5, "record": 0.0, "robust": 0.5, "sad": -0.5, "safe": 0.5,
	"scary": -0.5, "severe": -0.5, "sharp": -0.13, "significant": 0.38,
	"slow": -0.3, "solid": 0.0, "stable": 0.2, "strong": 0.43, "stronger": 0.43,
	"successful": 0.75, "terrible": -1.0, "uncertain": -0.2, "unstable": -0.4,
	"volatile": -0.2, "weak": -0.38, "weaker": -0.38, "wonderful": 1.0,
	"worried": -0.3, "worse": -0.4, "worst": -1.0, "wrong": -0.5,
}

var intensifiers = map[string]float64{
	"very": 1.3, "really": 1.3, "extremely": 1.5, "highly": 1.3,
	"incredibly": 1.5, "quite": 1.1, "so": 1.3, "too": 1.2, "most": 1.4,
	"slightly": 0.8, "somewhat": 0.8, "fairly": 0.9,
}

// PolarityScorer averages the polarity of opinion words, scaling by a
// preceding intensifier and halving-and-flipping after a negation.
type PolarityScorer struct{}

func NewPolarityScorer() PolarityScorer { return PolarityScorer{} }

func (PolarityScorer) Name() string { return ScorerPolarity }

func (PolarityScorer) Score(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var (
		sum      float64
		assessed int
		negate   bool
		factor   = 1.0
	)
	for _, tok := range tokens {
		if _, ok := negationWords[tok.lower]; ok {
			negate = true
			continue
		}
		if m, ok := intensifiers[tok.lower]; ok {
			factor *= m
			continue
		}
		p, ok := polarityWords[tok.lower]
		if !ok {
			continue
		}
		p *= factor
		if negate {
			p *= -0.5
		}
		sum += clamp(p, -1, 1)
		assessed++
		negate = false
		factor = 1.0
	}
	if assessed == 0 {
		return 0
	}
	return clamp(sum/float64(assessed), -1, 1)
}
