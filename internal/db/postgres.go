package db

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var Pool *pgxpool.Pool

var (
	newPool = pgxpool.NewWithConfig
	pingDB  = func(ctx context.Context, pool *pgxpool.Pool) error {
		return pool.Ping(ctx)
	}
)

// InitPostgres connects the shared pool from DATABASE_URL and exits the
// process when the database is unreachable.
func InitPostgres(ctx context.Context) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse DATABASE_URL")
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := newPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create postgres pool")
	}
	if err := pingDB(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Postgres")
	}
	Pool = pool
	log.Info().Msg("connected to Postgres")
}
