// Package cmd implements the CLI commands for market-appraiser.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "market-appraiser",
	Short: "Estimate market value for resale marketplace listings",
	Long: "An API-first service that aggregates comparable sales for consumer resale\n" +
		"listings, applies condition and battery-health adjustments, classifies price\n" +
		"positions, and sends deal alerts for underpriced items.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
