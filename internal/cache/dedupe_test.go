package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"news-pulse/internal/domain"

	"github.com/redis/go-redis/v9"
)

type fakeSets struct {
	sets     map[string]map[string]struct{}
	expires  map[string]time.Duration
	addErr   error
	checkErr error
}

func newFakeSets() *fakeSets {
	return &fakeSets{sets: map[string]map[string]struct{}{}, expires: map[string]time.Duration{}}
}

func (f *fakeSets) SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd {
	if f.addErr != nil {
		return redis.NewIntResult(0, f.addErr)
	}
	set, ok := f.sets[key]
	if !ok {
		set = map[string]struct{}{}
		f.sets[key] = set
	}
	var added int64
	for _, m := range members {
		s := m.(string)
		if _, ok := set[s]; !ok {
			set[s] = struct{}{}
			added++
		}
	}
	return redis.NewIntResult(added, nil)
}

func (f *fakeSets) SMIsMember(ctx context.Context, key string, members ...interface{}) *redis.BoolSliceCmd {
	if f.checkErr != nil {
		return redis.NewBoolSliceResult(nil, f.checkErr)
	}
	out := make([]bool, len(members))
	for i, m := range members {
		_, out[i] = f.sets[key][m.(string)]
	}
	return redis.NewBoolSliceResult(out, nil)
}

func (f *fakeSets) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func TestHeadlineDeduperFiltersRepeats(t *testing.T) {
	day1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)
	sets := newFakeSets()
	d := NewHeadlineDeduper(sets, time.Hour)

	batch := []domain.Article{
		{Headline: "Bitcoin rallies", PublishedAt: day1},
		{Headline: "  BITCOIN   rallies ", PublishedAt: day1},
		{Headline: "Bitcoin rallies", PublishedAt: day2},
	}
	fresh, dups, err := d.FilterNew(context.Background(), batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fresh) != 2 || dups != 1 {
		t.Fatalf("expected 2 fresh and 1 duplicate, got %d/%d", len(fresh), dups)
	}
	if err := d.MarkSeen(context.Background(), fresh); err != nil {
		t.Fatalf("mark seen: %v", err)
	}
	if sets.expires["news:seen:2024-05-01"] != time.Hour || sets.expires["news:seen:2024-05-02"] != time.Hour {
		t.Fatalf("expected both day keys to expire, got %v", sets.expires)
	}

	fresh, dups, err = d.FilterNew(context.Background(), batch[:1])
	if err != nil || len(fresh) != 0 || dups != 1 {
		t.Fatalf("second pass should see a duplicate, got fresh=%d dups=%d err=%v", len(fresh), dups, err)
	}
}

func TestHeadlineDeduperFilterDoesNotMark(t *testing.T) {
	sets := newFakeSets()
	d := NewHeadlineDeduper(sets, 0)
	batch := []domain.Article{{Headline: "ETF inflows climb", PublishedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}}

	for i := 0; i < 2; i++ {
		fresh, dups, err := d.FilterNew(context.Background(), batch)
		if err != nil || len(fresh) != 1 || dups != 0 {
			t.Fatalf("pass %d: expected the headline to stay fresh until marked, got fresh=%d dups=%d err=%v", i, len(fresh), dups, err)
		}
	}
	if len(sets.sets) != 0 {
		t.Fatalf("filter must not write, got %v", sets.sets)
	}
}

func TestHeadlineDeduperPropagatesErrors(t *testing.T) {
	sets := newFakeSets()
	sets.checkErr = errors.New("down")
	sets.addErr = errors.New("down")
	d := NewHeadlineDeduper(sets, 0)
	if _, _, err := d.FilterNew(context.Background(), []domain.Article{{Headline: "x"}}); err == nil {
		t.Fatal("expected filter error")
	}
	if err := d.MarkSeen(context.Background(), []domain.Article{{Headline: "x"}}); err == nil {
		t.Fatal("expected mark error")
	}
}
