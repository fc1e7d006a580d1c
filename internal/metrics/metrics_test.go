package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounters(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordFetched("coindesk", 3)
	r.RecordFetched("coindesk", 2)
	r.RecordDuplicates(4)
	r.RecordScored(1)
	r.RecordScored(1)
	r.RecordScored(-1)
	r.RecordForecast("UP", 0.6, 0.1)
	r.RecordLastPrice("BTC", 65000)
	r.RecordError("feed")

	if got := testutil.ToFloat64(r.articlesFetched.WithLabelValues("coindesk")); got != 5 {
		t.Fatalf("expected 5 fetched, got %v", got)
	}
	if got := testutil.ToFloat64(r.articlesDuplicate); got != 4 {
		t.Fatalf("expected 4 duplicates, got %v", got)
	}
	if got := testutil.ToFloat64(r.articlesScored.WithLabelValues("1")); got != 2 {
		t.Fatalf("expected 2 positive, got %v", got)
	}
	if got := testutil.ToFloat64(r.forecastConf); got != 0.6 {
		t.Fatalf("expected confidence 0.6, got %v", got)
	}
	if got := testutil.ToFloat64(r.lastPrice.WithLabelValues("BTC")); got != 65000 {
		t.Fatalf("unexpected last price %v", got)
	}
}

func TestRecordScorerAvailability(t *testing.T) {
	r := New(prometheus.NewRegistry())
	r.RecordScorerAvailability([]string{"vader", "transformer"}, []string{"vader"})

	if got := testutil.ToFloat64(r.scorerAvailable.WithLabelValues("vader")); got != 1 {
		t.Fatalf("expected vader up, got %v", got)
	}
	if got := testutil.ToFloat64(r.scorerAvailable.WithLabelValues("transformer")); got != 0 {
		t.Fatalf("expected transformer down, got %v", got)
	}
}

func TestNewOnSeparateRegistries(t *testing.T) {
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
