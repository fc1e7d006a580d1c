package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"news-pulse/internal/app"
	"news-pulse/internal/config"
	"news-pulse/internal/dashboard"

	"github.com/charmbracelet/ssh"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	dir := t.TempDir()
	restore := stubSSHDeps(&config.Config{
		SSHHost:               "127.0.0.1",
		SSHPort:               2222,
		SSHHostKeyPath:        filepath.Join(dir, "host_key"),
		SSHAuthorizedKeysPath: filepath.Join(dir, "authorized_keys"),
		ModelConfigPath:       filepath.Join(dir, "model.yaml"),
		FeedsConfigPath:       filepath.Join(dir, "feeds.yaml"),
	})
	defer restore()

	var wishOpts int
	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) {
		wishOpts = len(ops)
		return nil, nil
	}

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
	if wishOpts != 4 {
		t.Fatalf("expected address, host key, auth and middleware options, got %d", wishOpts)
	}
}

func stubSSHDeps(cfg *config.Config) func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitLogger := initLoggerFunc
	origInitPostgres := initPostgresFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origLoadKeys := loadAuthorizedKeysFunc
	origOptions := buildOptionsFunc
	origBuildApp := buildAppFunc
	origNewWishServer := newWishServerFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config { return cfg }
	initLoggerFunc = func(string, string) error { return nil }
	initPostgresFunc = func(context.Context) {}
	initRedisFunc = func(context.Context) {}
	initTracerFunc = func(ctx context.Context, service string) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	loadAuthorizedKeysFunc = dashboard.LoadAuthorizedKeys
	buildOptionsFunc = func() app.Options { return app.Options{} }
	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) {
		return nil, nil
	}
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initLoggerFunc = origInitLogger
		initPostgresFunc = origInitPostgres
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		loadAuthorizedKeysFunc = origLoadKeys
		buildOptionsFunc = origOptions
		buildAppFunc = origBuildApp
		newWishServerFunc = origNewWishServer
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
	}
}
