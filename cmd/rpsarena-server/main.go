package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mcoot/rpsarena/internal/api"
	"github.com/mcoot/rpsarena/internal/factory"
	"github.com/mcoot/rpsarena/internal/jobs"
	redisstorage "github.com/mcoot/rpsarena/internal/storage/redis"
)

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	if err := newCmd(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	appCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.storage,
	}
	if cfg.storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.redisURL
		redisCfg.Namespace = cfg.redisNamespace
		appCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(appCfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("closing application", slog.String("error", err.Error()))
		}
	}()

	if cfg.statsInterval > 0 {
		sched, err := jobs.NewScheduler(logger)
		if err != nil {
			return err
		}
		reporter := jobs.NewStatsReporter(app.Hub, app.Storage, logger)
		if err := sched.Every(jobs.StatsJobName, cfg.statsInterval, reporter.Report); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Shutdown(); err != nil {
				logger.Error("stopping scheduler", slog.String("error", err.Error()))
			}
		}()
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		Hub:       app.Hub,
		Random:    app.Random,
		PublicURL: cfg.publicURL,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.bind
	serverConfig.Port = cfg.port
	server := api.NewServer(router, serverConfig, logger)

	// Closing the hub sends close frames to every WebSocket
	server.OnShutdown(app.Hub.Close)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.storage))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
