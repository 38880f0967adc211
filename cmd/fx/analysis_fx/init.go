package analysis_fx

import (
	"context"
	"io"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"fitfunnel/internal/config"
	"fitfunnel/internal/services"
	"fitfunnel/pkg/utils"
)

var Module = fx.Provide(
	ProvideTextClient,
	ProvideAnalysisService)

// ProvideTextClient returns nil when no API key is configured; analyses then
// use the local fallback.
func ProvideTextClient(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (utils.TextGenerationClientInterface, error) {
	if !cfg.Text.Enabled() {
		logger.Warn("text provider not configured, analyses will use the fallback", zap.String("provider", cfg.Text.Provider))
		return nil, nil
	}

	client, err := utils.NewTextGenerationClient(context.Background(), utils.TextClientConfig{
		Provider: cfg.Text.Provider,
		APIKey:   cfg.Text.APIKey,
		Model:    cfg.Text.Model,
		BaseURL:  cfg.Text.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("text provider ready", zap.String("provider", cfg.Text.Provider), zap.String("model", client.ModelID()))
	closeOnStop(lc, client, logger)
	return client, nil
}

// closeOnStop releases clients that hold a connection, such as Gemini's
// gRPC channel.
func closeOnStop(lc fx.Lifecycle, client any, logger *zap.Logger) {
	closer, ok := client.(io.Closer)
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := closer.Close(); err != nil {
				logger.Warn("text provider close failed", zap.Error(err))
				return err
			}
			return nil
		},
	})
}

func ProvideAnalysisService(client utils.TextGenerationClientInterface, cfg config.Config, logger *zap.Logger) services.AnalysisServiceInterface {
	return services.NewAnalysisService(client, services.AnalysisOptions{
		Temperature: cfg.Text.Temperature,
		MaxTokens:   cfg.Text.MaxTokens,
		Timeout:     cfg.Text.Timeout,
	}, logger.Named("analysis"))
}
