package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"dutychart/internal/api"
	"dutychart/internal/config"
	"dutychart/internal/metrics"
	"dutychart/internal/notify"
	"dutychart/internal/session"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("DUTYCHART_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	store, err := session.Open(cfg.Session.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open session store")
	}
	defer store.Close()

	if token := os.Getenv("DUTYCHART_ACCESS_TOKEN"); token != "" {
		if err := store.SetTokens(token, os.Getenv("DUTYCHART_REFRESH_TOKEN")); err != nil {
			logger.Fatal().Err(err).Msg("failed to store tokens")
		}
	}

	metrics.Register()

	client := api.NewClient(cfg.Backend.BaseURL, store, &logger)
	client.SetTimeout(cfg.BackendTimeout())
	client.UseRateLimit(cfg.Backend.RatePerSecond)
	if cfg.Redis.Address != "" && cfg.Redis.CacheTTLSeconds > 0 {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		client.UseRedisCache(rdb, cfg.CacheTTL())
	}

	inbox := notify.NewInbox(client, nil, &logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
	inbox.Refresh(ctx)
	cancel()
	logger.Info().Int("unread", inbox.Unread()).Msg("notification inbox loaded")

	listener := notify.NewListener(notify.ListenerConfig{
		BaseURL:        cfg.Backend.WebsocketURL,
		Tokens:         store,
		OnNotification: inbox.Receive,
		ReconnectDelay: cfg.ReconnectDelay(),
		Logger:         &logger,
	})
	if err := listener.Start(); err != nil {
		logger.Warn().Err(err).Msg("notification channel not started")
	}
	defer listener.Close()

	if cfg.Monitoring.PrometheusEnabled {
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort)
			logger.Info().Str("addr", addr).Msg("serving metrics")
			if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
}
