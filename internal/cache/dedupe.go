package cache

import (
	"context"
	"fmt"
	"time"

	"news-pulse/internal/domain"

	"github.com/redis/go-redis/v9"
)

const seenKeyPrefix = "news:seen:"

type SetClient interface {
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMIsMember(ctx context.Context, key string, members ...interface{}) *redis.BoolSliceCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// HeadlineDeduper remembers which headlines were already stored per UTC day.
type HeadlineDeduper struct {
	client SetClient
	ttl    time.Duration
}

// NewHeadlineDeduper keeps each day's set for ttl, two days when ttl <= 0.
func NewHeadlineDeduper(client SetClient, ttl time.Duration) *HeadlineDeduper {
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &HeadlineDeduper{client: client, ttl: ttl}
}

// FilterNew returns the articles whose headline is not yet marked on their
// day. It does not mark anything; repeats inside the batch count as
// duplicates.
func (d *HeadlineDeduper) FilterNew(ctx context.Context, articles []domain.Article) ([]domain.Article, int, error) {
	byKey, order := groupByDay(articles)
	seen := make(map[string]map[string]bool, len(byKey))
	for _, key := range order {
		members := byKey[key]
		args := make([]interface{}, len(members))
		for i, m := range members {
			args[i] = m
		}
		hits, err := d.client.SMIsMember(ctx, key, args...).Result()
		if err != nil {
			return nil, 0, fmt.Errorf("check seen headlines: %w", err)
		}
		seen[key] = make(map[string]bool, len(members))
		for i, m := range members {
			seen[key][m] = i < len(hits) && hits[i]
		}
	}

	fresh := make([]domain.Article, 0, len(articles))
	batch := make(map[string]struct{}, len(articles))
	dups := 0
	for _, a := range articles {
		key, member := seenKeyPrefix+a.Day(), domain.HeadlineKey(a.Headline)
		if _, ok := batch[key+"\x00"+member]; ok || seen[key][member] {
			dups++
			continue
		}
		batch[key+"\x00"+member] = struct{}{}
		fresh = append(fresh, a)
	}
	return fresh, dups, nil
}

// MarkSeen records the headlines on their day's set and refreshes its TTL.
// Call it once the articles are safely stored.
func (d *HeadlineDeduper) MarkSeen(ctx context.Context, articles []domain.Article) error {
	byKey, order := groupByDay(articles)
	for _, key := range order {
		members := byKey[key]
		args := make([]interface{}, len(members))
		for i, m := range members {
			args[i] = m
		}
		if err := d.client.SAdd(ctx, key, args...).Err(); err != nil {
			return fmt.Errorf("mark headlines seen: %w", err)
		}
		if err := d.client.Expire(ctx, key, d.ttl).Err(); err != nil {
			return fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return nil
}

func groupByDay(articles []domain.Article) (map[string][]string, []string) {
	byKey := make(map[string][]string)
	var order []string
	for _, a := range articles {
		key := seenKeyPrefix + a.Day()
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], domain.HeadlineKey(a.Headline))
	}
	return byKey, order
}
