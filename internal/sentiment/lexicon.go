package sentiment

import "strings"

type lexiconGroup struct {
	name   string
	weight float64
	terms  []string
}

// Strong groups outweigh weak ones and negative groups outweigh positive
// ones of the same strength.
var marketLexicon = []lexiconGroup{
	{
		name:   "strong_positive",
		weight: 1.5,
		terms: []string{
			"surge", "skyrocket", "record high", "breakthrough", "bull run",
			"soar", "rally", "moonshot", "all-time high",
		},
	},
	{
		name:   "positive",
		weight: 1.0,
		terms: []string{
			"gain", "rise", "growth", "adoption", "upgrade", "partnership",
			"optimistic", "recover", "momentum", "bullish",
		},
	},
	{
		name:   "strong_negative",
		weight: -2.0,
		terms: []string{
			"crash", "plunge", "collapse", "scam", "hack", "breach",
			"lawsuit", "fraud", "crackdown", "ban", "meltdown",
		},
	},
	{
		name:   "negative",
		weight: -1.2,
		terms: []string{
			"drop", "fall", "decline", "risk", "bearish", "volatile",
			"uncertainty", "warning", "pressure", "concern",
		},
	},
	{
		name:   "neutral",
		weight: 0.3,
		terms: []string{
			"stable", "steady", "unchanged", "hold", "consolidate",
			"range-bound", "sideways", "maintain",
		},
	},
}

// LexiconScorer scores text by counting market keywords per weighted group.
// The result is unbounded.
type LexiconScorer struct{}

func NewLexiconScorer() LexiconScorer { return LexiconScorer{} }

func (LexiconScorer) Name() string { return ScorerLexicon }

func (LexiconScorer) Score(text string) float64 {
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return 0
	}
	total := 0.0
	for _, group := range marketLexicon {
		hits := 0
		for _, term := range group.terms {
			hits += strings.Count(t, term)
		}
		total += float64(hits) * group.weight
	}
	return total
}

// LexiconBreakdown returns the keyword hit count per group, for audit output.
func LexiconBreakdown(text string) map[string]int {
	t := strings.ToLower(text)
	out := make(map[string]int, len(marketLexicon))
	for _, group := range marketLexicon {
		hits := 0
		for _, term := range group.terms {
			hits += strings.Count(t, term)
		}
		out[group.name] = hits
	}
	return out
}
