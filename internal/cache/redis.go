package cache

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultRedisAddr = "localhost:6379"

// Client is shared by the headline deduper, the forecast cache and the
// price cache.
var Client *redis.Client

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	parseRedisURL = redis.ParseURL
)

// InitRedis connects Client from REDIS_URL, which may be a bare host:port
// or a redis:// URL, and exits the process when Redis is unreachable.
func InitRedis(ctx context.Context) {
	opts, err := redisOptions(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse REDIS_URL")
	}

	Client = newRedisClient(opts)
	if err := pingRedis(ctx, Client); err != nil {
		log.Fatal().Err(err).Str("addr", opts.Addr).Msg("failed to connect to Redis")
	}
	log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("connected to Redis")
}

func redisOptions(raw string) (*redis.Options, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = defaultRedisAddr
	}
	opts := &redis.Options{Addr: raw}
	if strings.HasPrefix(raw, "redis://") || strings.HasPrefix(raw, "rediss://") {
		parsed, err := parseRedisURL(raw)
		if err != nil {
			return nil, err
		}
		opts = parsed
	}
	// Cache calls sit on request paths; fail fast instead of stalling them.
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 3 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = time.Second
	}
	return opts, nil
}
