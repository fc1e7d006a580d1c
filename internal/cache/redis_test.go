package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func stubRedis(t *testing.T) *string {
	t.Helper()
	origNewClient := newRedisClient
	origPing := pingRedis
	t.Cleanup(func() {
		newRedisClient = origNewClient
		pingRedis = origPing
		Client = nil
	})

	var capturedAddr string
	newRedisClient = func(opts *redis.Options) *redis.Client {
		capturedAddr = opts.Addr
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return nil
	}
	return &capturedAddr
}

func TestInitRedisWithCustomAddr(t *testing.T) {
	t.Setenv("REDIS_URL", "redis:9999")
	addr := stubRedis(t)

	InitRedis(context.Background())
	if *addr != "redis:9999" {
		t.Fatalf("expected custom addr, got %s", *addr)
	}
	if Client == nil {
		t.Fatal("expected shared client to be set")
	}
}

func TestInitRedisDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	addr := stubRedis(t)

	InitRedis(context.Background())
	if *addr != defaultRedisAddr {
		t.Fatalf("expected default addr, got %s", *addr)
	}
}

func TestRedisOptionsFromURL(t *testing.T) {
	opts, err := redisOptions("redis://:secret@cache.internal:6380/2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache.internal:6380" || opts.DB != 2 || opts.Password != "secret" {
		t.Fatalf("unexpected options: addr=%s db=%d", opts.Addr, opts.DB)
	}
	if opts.ReadTimeout != time.Second || opts.DialTimeout != 3*time.Second {
		t.Fatalf("expected fail-fast timeouts, got read=%s dial=%s", opts.ReadTimeout, opts.DialTimeout)
	}
}

func TestRedisOptionsRejectsBadURL(t *testing.T) {
	if _, err := redisOptions("redis://cache.internal:6380/not-a-db"); err == nil {
		t.Fatal("expected parse error")
	}
}
