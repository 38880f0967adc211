package memcache_fx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fitfunnel/internal/config"
	"fitfunnel/internal/infra"
	mem "fitfunnel/pkg/memcache"
)

var Module = fx.Provide(provideRedisClient, provideSessionStore)

const sweepInterval = time.Minute

// provideRedisClient returns nil when neither store is backed by Redis.
func provideRedisClient(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*redis.Client, error) {
	if !cfg.UsesRedis() {
		return nil, nil
	}

	client, err := infra.InitRedis(context.Background(), cfg.Storage.RedisURL)
	if err != nil {
		return nil, err
	}
	logger.Info("redis connected", zap.String("addr", client.Options().Addr))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func provideSessionStore(lc fx.Lifecycle, cfg config.Config, client *redis.Client, logger *zap.Logger) mem.Store {
	if cfg.Storage.SessionDriver == "redis" {
		return mem.NewRedisStore(client, "fitfunnel:quiz:")
	}

	store := mem.NewMemoryStore()
	StartSweeper(lc, store, logger.Named("sessions"))
	return store
}

// StartSweeper drops expired entries from store every minute while the
// app runs.
func StartSweeper(lc fx.Lifecycle, store *mem.MemoryStore, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go store.SweepEvery(ctx, sweepInterval, func(n int) {
				if n > 0 {
					logger.Debug("expired entries removed", zap.Int("count", n))
				}
			})
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
