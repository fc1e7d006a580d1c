package sentiment

import (
	"bufio"
	_ "embed"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

//go:embed valence_lexicon.tsv
var valenceLexiconTSV string

const (
	boosterIncr     = 0.293
	boosterDecr     = -0.293
	capsEmphasis    = 0.733
	negationScalar  = -0.74
	exclaimEmphasis = 0.292
	questionWeight  = 0.18
	normalizeAlpha  = 15.0
)

var boosterWords = map[string]float64{
	"absolutely": boosterIncr, "amazingly": boosterIncr, "completely": boosterIncr,
	"considerably": boosterIncr, "deeply": boosterIncr, "enormously": boosterIncr,
	"entirely": boosterIncr, "especially": boosterIncr, "extremely": boosterIncr,
	"greatly": boosterIncr, "highly": boosterIncr, "hugely": boosterIncr,
	"incredibly": boosterIncr, "massive": boosterIncr, "massively": boosterIncr,
	"more": boosterIncr, "most": boosterIncr, "particularly": boosterIncr,
	"really": boosterIncr, "remarkably": boosterIncr, "sharply": boosterIncr,
	"significantly": boosterIncr, "so": boosterIncr, "strongly": boosterIncr,
	"substantially": boosterIncr, "totally": boosterIncr, "tremendously": boosterIncr,
	"very": boosterIncr,
	"almost": boosterDecr, "barely": boosterDecr, "hardly": boosterDecr,
	"less": boosterDecr, "little": boosterDecr, "marginally": boosterDecr,
	"partly": boosterDecr, "scarcely": boosterDecr, "slightly": boosterDecr,
	"somewhat": boosterDecr,
}

var negationWords = map[string]struct{}{
	"aint": {}, "arent": {}, "cannot": {}, "cant": {}, "couldnt": {}, "didnt": {},
	"doesnt": {}, "dont": {}, "hadnt": {}, "hasnt": {}, "havent": {}, "isnt": {},
	"neither": {}, "never": {}, "no": {}, "nobody": {}, "none": {}, "nor": {},
	"not": {}, "nothing": {}, "nowhere": {}, "shouldnt": {}, "wasnt": {},
	"werent": {}, "without": {}, "wont": {}, "wouldnt": {},
}

// ValenceScorer is a rule-based valence scorer: word valences adjusted for
// boosters, negation, capitalisation, contrast and punctuation, normalised
// into [-1, 1].
type ValenceScorer struct {
	once    sync.Once
	lexicon map[string]float64
}

func NewValenceScorer() *ValenceScorer { return &ValenceScorer{} }

func (v *ValenceScorer) Name() string { return ScorerValence }

func (v *ValenceScorer) load() {
	v.once.Do(func() {
		v.lexicon = parseValenceLexicon(valenceLexiconTSV)
	})
}

func parseValenceLexicon(raw string) map[string]float64 {
	out := make(map[string]float64, 256)
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		val, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		out[strings.ToLower(fields[0])] = val
	}
	return out
}

type valenceToken struct {
	raw   string
	lower string
}

func tokenize(text string) []valenceToken {
	fields := strings.Fields(text)
	out := make([]valenceToken, 0, len(fields))
	for _, f := range fields {
		trimmed := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(strings.ReplaceAll(trimmed, "'", ""))
		lower = strings.ReplaceAll(lower, "’", "")
		out = append(out, valenceToken{raw: trimmed, lower: lower})
	}
	return out
}

func isShouting(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func (v *ValenceScorer) Score(text string) float64 {
	v.load()
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	shoutingTokens := 0
	for _, tok := range tokens {
		if len([]rune(tok.raw)) > 1 && isShouting(tok.raw) {
			shoutingTokens++
		}
	}
	capsDiffer := shoutingTokens > 0 && shoutingTokens < len(tokens)

	valences := make([]float64, len(tokens))
	butAt := -1
	for i, tok := range tokens {
		if tok.lower == "but" && butAt < 0 {
			butAt = i
		}
		val, ok := v.lexicon[tok.lower]
		if !ok {
			continue
		}
		if capsDiffer && len([]rune(tok.raw)) > 1 && isShouting(tok.raw) {
			val += math.Copysign(capsEmphasis, val)
		}
		negated := false
		for dist := 1; dist <= 3 && i-dist >= 0; dist++ {
			prev := tokens[i-dist].lower
			if scalar, ok := boosterWords[prev]; ok {
				if val < 0 {
					scalar = -scalar
				}
				switch dist {
				case 2:
					scalar *= 0.95
				case 3:
					scalar *= 0.9
				}
				val += scalar
			}
			if _, ok := negationWords[prev]; ok {
				negated = true
			}
		}
		if negated {
			val *= negationScalar
		}
		valences[i] = val
	}

	if butAt >= 0 {
		for i := range valences {
			switch {
			case i < butAt:
				valences[i] *= 0.5
			case i > butAt:
				valences[i] *= 1.5
			}
		}
	}

	sum := 0.0
	for _, val := range valences {
		sum += val
	}
	if sum == 0 {
		return 0
	}

	emphasis := math.Min(float64(strings.Count(text, "!")), 4) * exclaimEmphasis
	if q := strings.Count(text, "?"); q > 1 {
		emphasis += math.Min(float64(q), 3) * questionWeight
	}
	sum += math.Copysign(emphasis, sum)

	return clamp(sum/math.Sqrt(sum*sum+normalizeAlpha), -1, 1)
}
