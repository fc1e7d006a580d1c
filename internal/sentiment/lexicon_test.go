package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexiconScorerEmptyText(t *testing.T) {
	s := NewLexiconScorer()
	assert.Equal(t, 0.0, s.Score(""))
	assert.Equal(t, 0.0, s.Score("   "))
}

func TestLexiconScorerPositiveHeadline(t *testing.T) {
	s := NewLexiconScorer()
	got := s.Score("BTC surges to record high, bullish rally")
	// surge, record high, rally (strong) + bullish (positive)
	assert.InDelta(t, 3*1.5+1.0, got, 1e-9)
	assert.Greater(t, got, 0.0)
}

func TestLexiconScorerNegativeHeadline(t *testing.T) {
	s := NewLexiconScorer()
	got := s.Score("exchange hack causes crash and meltdown")
	assert.InDelta(t, 3*-2.0, got, 1e-9)
	assert.Less(t, got, 0.0)
}

func TestLexiconScorerCountsRepeatsAndIsCaseInsensitive(t *testing.T) {
	s := NewLexiconScorer()
	assert.InDelta(t, 2*-2.0, s.Score("HACK after hack"), 1e-9)
	assert.InDelta(t, 0.3, s.Score("Price holds"), 1e-9)
}

func TestLexiconNegativeOutweighsPositive(t *testing.T) {
	s := NewLexiconScorer()
	assert.Less(t, s.Score("rally then crash"), 0.0)
	assert.Less(t, s.Score("gain then drop"), 0.0)
}

func TestLexiconBreakdown(t *testing.T) {
	got := LexiconBreakdown("Surge and rally despite lawsuit, price stable")
	assert.Equal(t, 2, got["strong_positive"])
	assert.Equal(t, 1, got["strong_negative"])
	assert.Equal(t, 1, got["neutral"])
	assert.Equal(t, 0, got["negative"])
}
