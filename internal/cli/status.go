package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dashboard summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			stats, err := apiClient.Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to load stats: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(stats)
			}

			fmt.Println("Processimo Dashboard")
			fmt.Println(strings.Repeat("=", 40))
			fmt.Printf("  Plan:             %s\n", stats.Subscription)
			fmt.Printf("  Active agents:    %d\n", stats.ActiveAgents)
			fmt.Printf("  Active teams:     %d\n", stats.ActiveTeams)
			fmt.Printf("  Pending payments: %d\n", stats.PendingPayments)
			fmt.Printf("  Monthly spend:    %s\n", formatPrice(stats.MonthlySpend))

			statuses := make([]string, 0, len(stats.WorkflowRequests))
			for status := range stats.WorkflowRequests {
				statuses = append(statuses, status)
			}
			sort.Strings(statuses)
			fmt.Println("  Workflow requests:")
			for _, status := range statuses {
				fmt.Printf("    %-10s %d\n", status, stats.WorkflowRequests[status])
			}

			// Readiness is informational here, the stats call already proved the API is up
			if ready, err := apiClient.Ready(ctx); err == nil {
				fmt.Printf("  Server:           %s storage, %s payments\n", ready.Storage, ready.Payments)
			} else {
				fmt.Printf("  Server:           degraded (%v)\n", err)
			}
			return nil
		},
	}
}
