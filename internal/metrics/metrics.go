package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes pipeline and forecast metrics to Prometheus.
type Recorder struct {
	articlesFetched   *prometheus.CounterVec
	articlesDuplicate prometheus.Counter
	articlesScored    *prometheus.CounterVec
	scorerAvailable   *prometheus.GaugeVec
	forecasts         *prometheus.CounterVec
	forecastConf      prometheus.Gauge
	forecastMomentum  prometheus.Gauge
	lastPrice         *prometheus.GaugeVec
	eventsPublished   prometheus.Counter
	errorsTotal       *prometheus.CounterVec
	latency           *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		articlesFetched: f.NewCounterVec(prometheus.CounterOpts{
			Name: "newspulse_articles_fetched_total",
			Help: "Articles fetched from news sources",
		}, []string{"source"}),
		articlesDuplicate: f.NewCounter(prometheus.CounterOpts{
			Name: "newspulse_articles_duplicate_total",
			Help: "Fetched articles dropped as already seen that day",
		}),
		articlesScored: f.NewCounterVec(prometheus.CounterOpts{
			Name: "newspulse_articles_scored_total",
			Help: "Articles scored by the ensemble, by label",
		}, []string{"sentiment"}),
		scorerAvailable: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "newspulse_scorer_available",
			Help: "1 when the scorer contributed to the last scored article",
		}, []string{"scorer"}),
		forecasts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "newspulse_forecasts_total",
			Help: "Forecasts produced, by direction",
		}, []string{"direction"}),
		forecastConf: f.NewGauge(prometheus.GaugeOpts{
			Name: "newspulse_forecast_confidence",
			Help: "Confidence of the latest forecast",
		}),
		forecastMomentum: f.NewGauge(prometheus.GaugeOpts{
			Name: "newspulse_forecast_momentum",
			Help: "Sentiment momentum of the latest forecast",
		}),
		lastPrice: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "newspulse_last_price_usd",
			Help: "Last recorded spot price",
		}, []string{"symbol"}),
		eventsPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "newspulse_events_published_total",
			Help: "Scored-article events written to the event stream",
		}),
		errorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "newspulse_errors_total",
			Help: "Errors encountered, by kind",
		}, []string{"type"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "newspulse_operation_duration_seconds",
			Help:    "Duration of operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (r *Recorder) RecordFetched(source string, n int) {
	r.articlesFetched.WithLabelValues(source).Add(float64(n))
}

func (r *Recorder) RecordDuplicates(n int) {
	r.articlesDuplicate.Add(float64(n))
}

func (r *Recorder) RecordScored(sentiment int) {
	r.articlesScored.WithLabelValues(strconv.Itoa(sentiment)).Inc()
}

// RecordScorerAvailability marks each known scorer up or down.
func (r *Recorder) RecordScorerAvailability(known, available []string) {
	up := make(map[string]bool, len(available))
	for _, name := range available {
		up[name] = true
	}
	for _, name := range known {
		v := 0.0
		if up[name] {
			v = 1
		}
		r.scorerAvailable.WithLabelValues(name).Set(v)
	}
}

func (r *Recorder) RecordForecast(direction string, confidence, momentum float64) {
	r.forecasts.WithLabelValues(direction).Inc()
	r.forecastConf.Set(confidence)
	r.forecastMomentum.Set(momentum)
}

func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

func (r *Recorder) RecordPublished(n int) {
	r.eventsPublished.Add(float64(n))
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
