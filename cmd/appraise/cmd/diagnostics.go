package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/gearmarket/market-appraiser/internal/api/client"
)

func diagnosticsCmd() *cobra.Command {
	diagRoot := &cobra.Command{
		Use:   "diagnostics",
		Short: "Manage diagnostic reports",
	}

	diagRoot.AddCommand(
		diagnosticsAddCmd(),
		diagnosticsLatestCmd(),
	)

	return diagRoot
}

func diagnosticsAddCmd() *cobra.Command {
	var (
		battery     int
		performance int
		condition   string
	)

	cmd := &cobra.Command{
		Use:   "add <listing-id>",
		Short: "Attach a diagnostic report to a listing",
		Example: `  appraise diagnostics add abc123 --battery 88 --performance 92 \
    --condition good`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			report, err := newClient().CreateDiagnostic(
				context.Background(),
				args[0],
				&apiclient.CreateDiagnosticRequest{
					BatteryHealth:    battery,
					PerformanceScore: performance,
					OverallCondition: condition,
				},
			)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(report)
			}

			fmt.Printf("Attached diagnostic report %s to listing %s\n", report.ID, args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&battery, "battery", 0, "battery health percentage (0-100)")
	cmd.Flags().IntVar(&performance, "performance", 0, "performance score (0-100)")
	cmd.Flags().StringVar(&condition, "condition", "", "overall condition (excellent, good, fair, poor)")
	cobra.CheckErr(cmd.MarkFlagRequired("battery"))
	cobra.CheckErr(cmd.MarkFlagRequired("performance"))
	cobra.CheckErr(cmd.MarkFlagRequired("condition"))

	return cmd
}

func diagnosticsLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "latest <listing-id>",
		Short:   "Show the latest diagnostic report for a listing",
		Example: `  appraise diagnostics latest abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			report, err := newClient().GetLatestDiagnostic(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(report)
			}

			return printDiagnostic(report)
		},
	}
}
