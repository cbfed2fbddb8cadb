package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/pratik-mahalle/processimo/pkg/client"
	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands (admin role required)",
	}

	cmd.AddCommand(newAdminRequestCmd())
	cmd.AddCommand(newAdminAgentCmd())
	cmd.AddCommand(newAdminSubscriptionCmd())

	return cmd
}

func newAdminRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Manage all workflow requests",
	}

	var page, pageSize int
	list := &cobra.Command{
		Use:   "list",
		Short: "List workflow requests of every user",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient.Admin().ListWorkflowRequests(context.Background(), &client.ListOptions{
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return fmt.Errorf("failed to list requests: %w", err)
			}
			if getOutputFormat() != "table" {
				return printOutput(result)
			}
			if err := renderRequests(result.Items); err != nil {
				return err
			}
			fmt.Printf("\nPage %d of %d (%d total)\n", result.Page, result.TotalPages, result.TotalItems)
			return nil
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&pageSize, "page-size", 20, "items per page")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "status <id> <pending|approved|rejected|completed>",
		Short: "Set the status of a workflow request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req, err := apiClient.Admin().SetWorkflowStatus(context.Background(), id, strings.ToLower(args[1]))
			if err != nil {
				return fmt.Errorf("failed to update request: %w", err)
			}
			if getOutputFormat() != "table" {
				return printOutput(req)
			}
			fmt.Printf("Request %d is now %s\n", req.ID, formatStatus(req.Status))
			return nil
		},
	})

	return cmd
}

func newAdminAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage the agent catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an agent without live subscriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := apiClient.Admin().DeleteAgent(context.Background(), id); err != nil {
				if apiErr, ok := client.AsAPIError(err); ok && apiErr.IsConflict() {
					return fmt.Errorf("agent %d still has live subscriptions", id)
				}
				return fmt.Errorf("failed to delete agent: %w", err)
			}
			fmt.Printf("Agent %d deleted\n", id)
			return nil
		},
	})

	return cmd
}

func newAdminSubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Subscription maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "canceling",
		Short: "List subscriptions waiting on remote cancellation",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := apiClient.Admin().CancelingSubscriptions(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list canceling subscriptions: %w", err)
			}
			if getOutputFormat() != "table" {
				return printOutput(out)
			}
			fmt.Printf("Agent subscriptions: %d\n", len(out.Agent))
			fmt.Printf("Team subscriptions:  %d\n", len(out.Team))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reconcile",
		Short: "Retry remote cancellation now",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := apiClient.Admin().Reconcile(context.Background())
			if err != nil {
				return fmt.Errorf("reconcile failed: %w", err)
			}
			if getOutputFormat() != "table" {
				return printOutput(reports)
			}
			t := NewTable("KIND", "CHECKED", "CANCELED", "FAILED")
			for _, r := range reports {
				t.AddRow(r.Kind, fmt.Sprint(r.Checked), fmt.Sprint(len(r.Canceled)), fmt.Sprint(len(r.Failed)))
			}
			t.Render()
			return nil
		},
	})

	return cmd
}
