package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"fitfunnel/internal/models/request_models"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quizctl",
		Short:         "Operator tools for the fitness quiz",
		Long:          "quizctl runs the quiz calculators, plan rules and analysis outside the HTTP server.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newMetricsCmd())
	root.AddCommand(newRecommendCmd())
	root.AddCommand(newQuestionsCmd())
	root.AddCommand(newFallbackCmd())
	root.AddCommand(newAnalyzeCmd())
	return root
}

func Execute() error {
	return rootCmd.Execute()
}

// addProfileFlags registers the measurement flags shared by the profile
// based commands.
func addProfileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("name", "", "Client name")
	f.String("weight", "", "Weight in kg, e.g. 70 or 70,5")
	f.String("height", "", "Height in m or cm, e.g. 1,75 or 175")
	f.String("age", "", "Age in years")
	f.String("sex", "", "masculino or feminino")
	f.String("goal", "", "emagrecer, ganhar_massa, manter or saude")
	f.String("activity", "", "baixa, moderada or alta")
	f.String("climate", "", "quente, normal or frio")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("height")
}

func profileFromFlags(cmd *cobra.Command) request_models.Profile {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return request_models.Profile{
		Name:          get("name"),
		Weight:        get("weight"),
		Height:        get("height"),
		Age:           get("age"),
		Sex:           get("sex"),
		Goal:          get("goal"),
		ActivityLevel: get("activity"),
		Climate:       get("climate"),
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
