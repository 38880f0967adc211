package db_fx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fitfunnel/cmd/fx/memcache_fx"
	"fitfunnel/internal/config"
	"fitfunnel/internal/infra"
	"fitfunnel/internal/repositories"
	mem "fitfunnel/pkg/memcache"
)

var Module = fx.Provide(provideSnapshotRepository)

func provideSnapshotRepository(lc fx.Lifecycle, cfg config.Config, client *redis.Client, logger *zap.Logger) (repositories.SnapshotRepositoryInterface, error) {
	driver := cfg.Storage.SnapshotDriver
	logger.Info("snapshot store", zap.String("driver", driver))

	switch driver {
	case "memory":
		store := mem.NewMemoryStore()
		memcache_fx.StartSweeper(lc, store, logger.Named("snapshots"))
		return repositories.NewKVSnapshotRepository(store), nil

	case "redis":
		return repositories.NewKVSnapshotRepository(mem.NewRedisStore(client, "fitfunnel:")), nil

	case "postgres":
		db, err := infra.InitPostgresql(cfg.Storage.PostgresURL)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				infra.ClosePostgresql(db, logger)
				return nil
			},
		})
		return repositories.NewSnapshotRepository(db), nil

	case "sqlite":
		db, err := infra.InitSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return db.Close()
			},
		})
		return repositories.NewSQLiteSnapshotRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported snapshot driver: %s", driver)
	}
}
