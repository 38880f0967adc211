package controllers_fx

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"fitfunnel/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewQuizController),
	fx.Provide(controllers.NewAnalysisController),
	fx.Provide(controllers.NewMetricsController),
	fx.Provide(controllers.NewPlansController),
	fx.Provide(controllers.NewSnapshotController),
	fx.Provide(provideHealthController))

func provideHealthController(client *redis.Client) *controllers.HealthController {
	checks := map[string]controllers.HealthCheck{}
	if client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return controllers.NewHealthController(checks)
}
