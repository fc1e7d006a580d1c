package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolarityScorer(t *testing.T) {
	s := NewPolarityScorer()

	assert.Equal(t, 0.0, s.Score(""))
	assert.Equal(t, 0.0, s.Score("miners moved coins today"))
	assert.InDelta(t, 0.7, s.Score("a good day"), 1e-9)
	assert.InDelta(t, -0.35, s.Score("not good"), 1e-9)
	assert.InDelta(t, 0.91, s.Score("very good"), 1e-9)
	assert.InDelta(t, (0.7-0.7)/2, s.Score("good news, bad timing"), 1e-9)
}

func TestPolarityScorerClampsIntensifiedWords(t *testing.T) {
	s := NewPolarityScorer()
	got := s.Score("extremely perfect")
	assert.LessOrEqual(t, got, 1.0)
	assert.Equal(t, 1.0, got)
}
