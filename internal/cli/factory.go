package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/botforge"
	"github.com/aretw0/botforge/internal/adapters/memory"
	"github.com/aretw0/botforge/internal/adapters/redis"
	"github.com/aretw0/botforge/internal/config"
	"github.com/aretw0/botforge/internal/logging"
	"github.com/aretw0/botforge/pkg/observability"
	"github.com/aretw0/botforge/pkg/ports"
)

// NewLogger builds the application logger from the config. Quiet mode keeps
// warnings and errors only.
func NewLogger(cfg config.Config, quiet bool) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if quiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	return logging.New(level, logging.Format(cfg.LogFormat)), nil
}

// NewGenerator wires a Generator with the cache selected by cfg. The returned
// close function releases the cache connection.
func NewGenerator(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *observability.Metrics) (*botforge.Generator, func() error, error) {
	opts := []botforge.Option{botforge.WithLogger(logger)}
	if metrics != nil {
		opts = append(opts, botforge.WithMetrics(metrics))
	}

	closeFn := func() error { return nil }
	cache, closer, err := newCache(ctx, cfg, logger)
	if err != nil {
		return nil, closeFn, err
	}
	if closer != nil {
		closeFn = closer
	}
	if cache != nil {
		opts = append(opts, botforge.WithCache(cache, cfg.Cache.TTL))
	}

	return botforge.New(opts...), closeFn, nil
}

func newCache(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.Cache, func() error, error) {
	if !cfg.Cache.Enabled {
		return nil, nil, nil
	}
	if cfg.Redis.Addr == "" {
		return memory.New(), nil, nil
	}

	var redisOpts []redis.Option
	if cfg.Redis.Prefix != "" {
		redisOpts = append(redisOpts, redis.WithPrefix(cfg.Redis.Prefix))
	}
	cache := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redisOpts...)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		cache.Close()
		return nil, nil, fmt.Errorf("redis cache at %s unavailable: %w", cfg.Redis.Addr, err)
	}
	logger.Debug("Using redis cache", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return cache, cache.Close, nil
}
