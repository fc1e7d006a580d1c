package sentiment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

var errClassifierDisabled = errors.New("classifier disabled")

// Classification is a single label verdict from an external classifier.
type Classification struct {
	Label string
	Score float64
}

// Classifier labels text as positive, negative or neutral with a score in [0, 1].
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// ClassifierFactory builds the classifier on first use. Returning an error
// leaves the scorer permanently unavailable for the process lifetime.
type ClassifierFactory func() (Classifier, error)

// ClassifierScorer adapts an expensive, possibly unavailable classifier to the
// ensemble. Initialisation happens at most once, even under concurrent use.
type ClassifierScorer struct {
	name    string
	factory ClassifierFactory
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker

	once    sync.Once
	clf     Classifier
	initErr error
}

func NewClassifierScorer(factory ClassifierFactory, timeout time.Duration) *ClassifierScorer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ClassifierScorer{
		name:    ScorerClassifier,
		factory: factory,
		timeout: timeout,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "sentiment-classifier",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("classifier breaker state change")
			},
		}),
	}
}

func (s *ClassifierScorer) Name() string {
	if s == nil {
		return ScorerClassifier
	}
	return s.name
}

func (s *ClassifierScorer) init() {
	s.once.Do(func() {
		if s.factory == nil {
			s.initErr = errClassifierDisabled
			return
		}
		s.clf, s.initErr = s.factory()
		if s.initErr != nil {
			log.Warn().Err(s.initErr).Str("scorer", s.name).Msg("classifier unavailable, scoring without it")
		}
	})
}

// Available reports whether the classifier initialised successfully.
func (s *ClassifierScorer) Available() bool {
	s.init()
	return s.initErr == nil && s.clf != nil
}

func (s *ClassifierScorer) Score(text string) optional.Option[float64] {
	if s == nil || !s.Available() {
		return optional.None[float64]()
	}

	out, err := s.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		return s.clf.Classify(ctx, text)
	})
	if err != nil {
		log.Debug().Err(err).Str("scorer", s.name).Msg("classifier call failed")
		return optional.None[float64]()
	}
	c, ok := out.(Classification)
	if !ok {
		return optional.None[float64]()
	}
	return optional.Some(classificationScore(c))
}

func classificationScore(c Classification) float64 {
	label := strings.ToLower(c.Label)
	score := clamp(c.Score, 0, 1)
	switch {
	case strings.Contains(label, "positive"):
		return score
	case strings.Contains(label, "negative"):
		return -score
	default:
		return 0
	}
}
