package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func alertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "alerts",
		Short:   "List pending deal alerts",
		Example: `  appraise alerts`,
		RunE: func(_ *cobra.Command, _ []string) error {
			resp, err := newClient().ListPendingAlerts(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}

			if len(resp.Alerts) == 0 {
				fmt.Println("No pending alerts.")
				return nil
			}

			fmt.Printf("%d pending alerts\n\n", resp.Total)
			return printAlertsTable(resp.Alerts)
		},
	}
}
