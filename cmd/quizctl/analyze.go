package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fitfunnel/internal/config"
	"fitfunnel/internal/services"
	"fitfunnel/pkg/utils"
)

func newAnalyzeCmd() *cobra.Command {
	var promptOnly bool
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Call the configured text provider for a profile",
		Long:  "Reads TEXT_PROVIDER and the provider key from the environment (or .env) and prints the validated analysis.",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, metrics := services.WithMetrics(profileFromFlags(cmd))
			if metrics == nil {
				return utils.ErrInvalidProfile
			}
			if promptOnly {
				_, err := cmd.OutOrStdout().Write([]byte(services.BuildAnalysisPrompt(profile, *metrics) + "\n"))
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.Text.Enabled() {
				return errors.New("text provider not configured: set TEXT_PROVIDER and its API key")
			}
			client, err := utils.NewTextGenerationClient(cmd.Context(), utils.TextClientConfig{
				Provider: cfg.Text.Provider,
				APIKey:   cfg.Text.APIKey,
				Model:    cfg.Text.Model,
				BaseURL:  cfg.Text.BaseURL,
			})
			if err != nil {
				return err
			}

			logger, _ := zap.NewDevelopment()
			defer func() { _ = logger.Sync() }()
			svc := services.NewAnalysisService(client, services.AnalysisOptions{
				Temperature: cfg.Text.Temperature,
				MaxTokens:   cfg.Text.MaxTokens,
				Timeout:     cfg.Text.Timeout,
			}, logger)

			result, err := svc.Analyze(cmd.Context(), profile)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().BoolVar(&promptOnly, "prompt", false, "Only print the prompt that would be sent")
	return cmd
}
