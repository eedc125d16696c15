package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func valueCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "value <listing-id>",
		Short:   "Estimate a listing's market value",
		Example: `  appraise value abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			result, err := newClient().GetValue(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(result)
			}

			return printValuation(result)
		},
	}
}

func analysisCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "analysis <listing-id>",
		Short:   "Show a listing's market analysis and price position",
		Example: `  appraise analysis abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			analysis, err := newClient().GetAnalysis(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(analysis)
			}

			return printAnalysis(analysis)
		},
	}
}

func trustCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "trust <listing-id>",
		Short:   "Show a listing's trust score",
		Example: `  appraise trust abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			rating, err := newClient().GetTrust(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(rating)
			}

			return printTrust(rating)
		},
	}
}
