package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fitfunnel/internal/services"
)

func newQuestionsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the quiz questions in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := services.DefaultCatalog()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), catalog.Questions())
			}

			out := cmd.OutOrStdout()
			for i, q := range catalog.Questions() {
				required := ""
				if q.Required {
					required = " *"
				}
				fmt.Fprintf(out, "%2d  %-14s %-14s %s%s\n", i, q.ID, q.Type, q.Question, required)
				if len(q.Options) > 0 {
					values := make([]string, len(q.Options))
					for j, o := range q.Options {
						values[j] = o.Value
					}
					fmt.Fprintf(out, "    options: %s\n", strings.Join(values, ", "))
				}
				if msg, ok := catalog.Interstitial(i); ok {
					fmt.Fprintf(out, "    interstitial: %s\n", msg)
				}
				if i == catalog.DiscountStep() {
					fmt.Fprintln(out, "    discount unlocks after this step")
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
	return cmd
}
