package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news-pulse/internal/app"
	"news-pulse/internal/bot"
	"news-pulse/internal/cache"
	"news-pulse/internal/config"
	"news-pulse/internal/db"
	"news-pulse/internal/handler"
	"news-pulse/internal/job"
	"news-pulse/internal/mcpserver"
	"news-pulse/pkg/logger"
	"news-pulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "news-pulse/docs"
)

const serviceName = "news-pulse"

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	initLoggerFunc    = logger.Init
	initPostgresFunc  = db.InitPostgres
	initRedisFunc     = cache.InitRedis
	initTracerFunc    = tracing.InitTracer
	runMigrationsFunc = func(ctx context.Context) error {
		if db.Pool == nil {
			return nil
		}
		m, err := db.NewMigrator(db.Pool)
		if err != nil {
			return err
		}
		n, err := m.Up(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("applied", n).Msg("database migrations complete")
		return nil
	}
	buildOptionsFunc = func() app.Options {
		opts := app.Options{Redis: cache.Client, Registerer: prometheus.DefaultRegisterer}
		if db.Pool != nil {
			opts.Pool = db.Pool
		}
		return opts
	}
	buildAppFunc           = app.Build
	startNewsJobFunc       = func(j *job.NewsJob, ctx context.Context) { go j.Start(ctx) }
	startPollerFunc        = func(p *job.PricePoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc   = func(token string, a *app.App) { bot.StartTelegramBot(token, a.Pipeline, a.Prices) }
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.New
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           News Pulse API
// @version         1.0
// @description     Crypto news sentiment scoring and short-horizon BTC direction forecasts.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	_ = loadEnvFunc()

	cfg := loadConfigFunc()
	if err := initLoggerFunc(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Warn().Err(err).Msg("invalid log settings, using defaults")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	tp, tracer, err := initTracerFunc(ctx, serviceName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	if err := runMigrationsFunc(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	a, err := buildAppFunc(cfg, tracer, buildOptionsFunc())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build services")
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error().Err(err).Msg("error closing services")
		}
	}()

	// Background collectors, stopped by ctx cancel.
	newsJob := job.NewNewsJob(tracer, a.Pipeline, time.Duration(cfg.NewsPollSecs)*time.Second)
	startNewsJobFunc(newsJob, ctx)
	poller := job.NewPricePoller(tracer, a.Prices, cfg.PricePollSecs, cfg.RetentionDays)
	startPollerFunc(poller, ctx)

	startTelegramBotFunc(cfg.TelegramBotToken, a)

	var mcpSrv *http.Server
	if cfg.MCPHTTPEnabled {
		tools := mcpserver.New(a.Pipeline, tracing.Version, time.Duration(cfg.MCPRequestTimeoutSecs)*time.Second)
		mcpSrv = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort),
			Handler: tools.HTTPHandler(cfg.MCPAuthToken),
		}
		go func() {
			log.Info().Str("addr", mcpSrv.Addr).Msg("MCP HTTP transport listening")
			if err := startHTTPServerFunc(mcpSrv); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("mcp listen")
			}
		}()
	}

	h := newHandlerFunc(tracer, a.Pipeline, a.Prices, cfg.APIKey)
	if db.Pool != nil {
		h.AddHealthCheck("postgres", db.Pool.Ping)
	}
	if cache.Client != nil {
		h.AddHealthCheck("redis", func(ctx context.Context) error {
			return cache.Client.Ping(ctx).Err()
		})
	}

	r := newRouterFunc()
	r.Use(gin.Recovery(), handler.RequestLogger(), otelgin.Middleware(serviceName))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if mcpSrv != nil {
		if err := shutdownHTTPServerFunc(mcpSrv, shutdownCtx); err != nil {
			log.Error().Err(err).Msg("mcp server forced to shutdown")
		}
	}
	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
