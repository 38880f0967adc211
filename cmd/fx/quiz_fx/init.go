package quiz_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"fitfunnel/internal/config"
	"fitfunnel/internal/repositories"
	"fitfunnel/internal/services"
	mem "fitfunnel/pkg/memcache"
)

var Module = fx.Options(
	fx.Provide(
		services.DefaultCatalog,
		services.NewMetricsService,
		services.NewRecommendationService,
		provideSnapshotService,
		provideQuizService,
		func(s *services.QuizService) services.QuizServiceInterface { return s },
	),
	fx.Invoke(drainNotifications),
)

func provideSnapshotService(repo repositories.SnapshotRepositoryInterface, cfg config.Config, logger *zap.Logger) services.SnapshotServiceInterface {
	return services.NewSnapshotService(repo, cfg.Storage.SnapshotTTL, logger.Named("snapshot"))
}

func provideQuizService(
	store mem.Store,
	catalog *services.Catalog,
	recommender services.RecommendationServiceInterface,
	analysis services.AnalysisServiceInterface,
	snapshots services.SnapshotServiceInterface,
	notifier services.NotificationServiceInterface,
	cfg config.Config,
	logger *zap.Logger,
) *services.QuizService {
	return services.NewQuizService(store, catalog, recommender, analysis, snapshots, notifier, services.QuizSettings{
		DiscountMin:       cfg.Quiz.DiscountMin,
		DiscountMax:       cfg.Quiz.DiscountMax,
		InterstitialDelay: cfg.Quiz.InterstitialDelay,
		SubmitTimeout:     cfg.Quiz.SubmitTimeout,
		SessionTTL:        cfg.Quiz.SessionTTL,
		NotifyTimeout:     cfg.Mail.Timeout,
	}, logger.Named("quiz"))
}

// drainNotifications waits for in-flight lead emails on shutdown, up to the
// stop deadline.
func drainNotifications(lc fx.Lifecycle, quiz *services.QuizService, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			done := make(chan struct{})
			go func() {
				quiz.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-ctx.Done():
				logger.Warn("shutdown before lead emails finished")
			}
			return nil
		},
	})
}
