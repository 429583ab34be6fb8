package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"StockInsight/internal/auth"
	"StockInsight/internal/cache"
	"StockInsight/internal/collector"
	"StockInsight/internal/config"
	"StockInsight/internal/engine"
	"StockInsight/internal/forecast"
	"StockInsight/internal/logger"
	"StockInsight/internal/metrics"
	"StockInsight/internal/notifier"
	"StockInsight/internal/scheduler"
	"StockInsight/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stockinsight: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if !collector.ValidRange(cfg.DataSource.ForecastRange) {
		return fmt.Errorf("data_source.forecast_range %q is not a supported range", cfg.DataSource.ForecastRange)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("StockInsight starting")

	m := metrics.New()

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "rest":
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	log.Info("data source", zap.String("provider", fetcher.Name()))

	col := collector.NewCollector(fetcher, engine.New(log, m), log, m)

	// Init prediction cache
	store, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	// Init Telegram notifier
	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		sender = tn
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, store, sender, cfg.Watchlist, log)
	if err := sched.RegisterAll(cfg.Schedule.CacheSweepCron, cfg.Schedule.DigestCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, sending digest now")
		go sched.RunDigestNow()
	}

	gin.SetMode(gin.ReleaseMode)
	api := server.New(server.Options{
		Analyzer:       col,
		Forecaster:     forecast.LinearTrend{},
		Cache:          store,
		Verifier:       auth.NewVerifier(cfg.Auth.JWTSecret),
		Metrics:        m,
		Logger:         log,
		Location:       loc,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ForecastRange:  cfg.DataSource.ForecastRange,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	log.Info("StockInsight stopped")
	return nil
}

// openCache builds the configured backend. A SQLite file that cannot be
// opened degrades to no caching rather than refusing to start.
func openCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("prediction cache", zap.String("backend", "redis"), zap.String("addr", cfg.Cache.Redis.Addr))
		return cache.NewRedisCache(client, cfg.Cache.TTL), nil
	case "none":
		log.Info("prediction cache disabled")
		return cache.NewNoopCache(), nil
	}

	if dir := filepath.Dir(cfg.Cache.SQLitePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	c, err := cache.NewSQLiteCache(cfg.Cache.SQLitePath, log, cache.WithTTL(cfg.Cache.TTL))
	if err != nil {
		log.Warn("init sqlite cache failed, caching disabled", zap.Error(err))
		return cache.NewNoopCache(), nil
	}
	log.Info("prediction cache", zap.String("backend", "sqlite"), zap.String("path", cfg.Cache.SQLitePath))
	return c, nil
}
