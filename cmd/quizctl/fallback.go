package main

import (
	"github.com/spf13/cobra"

	"fitfunnel/internal/services"
)

func newFallbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fallback",
		Short: "Print the offline analysis used when the text provider fails",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), services.FallbackAnalysis(profileFromFlags(cmd)))
		},
	}
	addProfileFlags(cmd)
	return cmd
}
