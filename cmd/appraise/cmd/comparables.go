package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func comparablesCmd() *cobra.Command {
	var (
		category string
		brand    string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "comparables",
		Short: "List recent comparable sales for a segment",
		Example: `  appraise comparables --category electronics --brand Apple

  # Limit the result set
  appraise comparables --category electronics --brand Samsung --limit 5`,
		RunE: func(_ *cobra.Command, _ []string) error {
			resp, err := newClient().ListComparables(context.Background(), category, brand, limit)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}

			if len(resp.Comparables) == 0 {
				fmt.Println("No comparable sales found.")
				return nil
			}

			fmt.Printf("Showing %d comparable sales\n\n", resp.Total)
			return printComparablesTable(resp.Comparables)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&brand, "brand", "", "brand")
	cmd.Flags().IntVar(&limit, "limit", 50, "number of results")
	cobra.CheckErr(cmd.MarkFlagRequired("category"))
	cobra.CheckErr(cmd.MarkFlagRequired("brand"))

	return cmd
}
