package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"news-pulse/internal/app"
	"news-pulse/internal/cache"
	"news-pulse/internal/config"
	"news-pulse/internal/dashboard"
	"news-pulse/internal/db"
	"news-pulse/pkg/logger"
	"news-pulse/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	gossh "golang.org/x/crypto/ssh"
)

// ctxKey is a typed context key to avoid collisions.
type ctxKey string

const sshUserKey ctxKey = "ssh_user"

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initLoggerFunc         = logger.Init
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	loadAuthorizedKeysFunc = dashboard.LoadAuthorizedKeys
	buildOptionsFunc       = func() app.Options {
		opts := app.Options{Redis: cache.Client}
		if db.Pool != nil {
			opts.Pool = db.Pool
		}
		return opts
	}
	buildAppFunc      = app.Build
	newWishServerFunc = wish.NewServer
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

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

	tp, tracer, err := initTracerFunc(ctx, "news-pulse-ssh")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	a, err := buildAppFunc(cfg, tracer, buildOptionsFunc())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build services")
	}
	defer a.Close()

	keys, err := loadAuthorizedKeysFunc(cfg.SSHAuthorizedKeysPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load authorized keys")
	}
	log.Info().Int("keys", keys.Len()).Msg("SSH authorized keys loaded")

	addr := fmt.Sprintf("%s:%d", cfg.SSHHost, cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			fingerprint := gossh.FingerprintSHA256(key)
			name, ok := keys.Lookup(key)
			if !ok {
				log.Warn().Str("fingerprint", fingerprint).Str("user", ctx.User()).Msg("SSH auth denied")
				return false
			}
			ctx.SetValue(sshUserKey, name)
			log.Info().Str("user", name).Str("fingerprint", fingerprint).Msg("SSH auth accepted")
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				username, _ := s.Context().Value(sshUserKey).(string)
				if username == "" {
					username = "unknown"
				}

				model := dashboard.NewModel(dashboard.Services{
					Pipeline: a.Pipeline,
					Prices:   a.Prices,
					Username: username,
				})
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create SSH server")
	}

	if srv != nil {
		go func() {
			log.Info().Str("addr", addr).Msg("SSH dashboard listening")
			if err := srv.ListenAndServe(); err != nil {
				log.Info().Err(err).Msg("SSH server stopped")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("SSH server shutdown error")
		}
	}

	log.Info().Msg("SSH server exited")
}
