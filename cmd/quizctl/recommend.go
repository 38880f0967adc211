package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fitfunnel/internal/services"
)

func newRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show the plan the rules pick for a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, metrics := services.WithMetrics(profileFromFlags(cmd))
			if metrics == nil {
				return fmt.Errorf("invalid weight %q or height %q", p.Weight, p.Height)
			}
			category, _ := services.ParseBMICategory(metrics.BMICategory)
			plan := services.NewRecommendationService().Recommend(
				category,
				services.NormalizeActivity(p.ActivityLevel),
				services.NormalizeGoal(p.Goal),
			)
			return printJSON(cmd.OutOrStdout(), plan)
		},
	}
	addProfileFlags(cmd)
	return cmd
}
