package main

import (
	"github.com/spf13/cobra"

	"fitfunnel/internal/models/request_models"
	"fitfunnel/internal/services"
)

func newMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Compute BMI, BMR, protein and water targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := profileFromFlags(cmd)
			resp := services.NewMetricsService().Calculate(request_models.MetricsRequest{
				Weight:   p.Weight,
				Height:   p.Height,
				Age:      p.Age,
				Sex:      p.Sex,
				Goal:     p.Goal,
				Activity: p.ActivityLevel,
				Climate:  p.Climate,
			})
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	addProfileFlags(cmd)
	return cmd
}
