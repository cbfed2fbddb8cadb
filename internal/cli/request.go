package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pratik-mahalle/processimo/pkg/client"
	"github.com/spf13/cobra"
)

func newRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "request",
		Aliases: []string{"requests"},
		Short:   "Custom workflow requests",
	}

	var (
		name, description, complexity, integrations string
		priority                                    int
		teamID                                      int64
	)
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Submit a custom workflow request",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.SubmitWorkflowRequest{
				Name:        name,
				Description: description,
				Complexity:  complexity,
			}
			if cmd.Flags().Changed("priority") {
				req.Priority = &priority
			}
			if integrations != "" {
				req.Integrations = &integrations
			}
			if teamID > 0 {
				req.TeamID = &teamID
			}

			created, err := apiClient.WorkflowRequests().Submit(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to submit request: %w", err)
			}
			if getOutputFormat() != "table" {
				return printOutput(created)
			}
			fmt.Printf("Request %d submitted (%s, priority %s)\n", created.ID, formatStatus(created.Status), created.Priority)
			return nil
		},
	}
	submit.Flags().StringVar(&name, "name", "", "short name")
	submit.Flags().StringVar(&description, "description", "", "what should be automated")
	submit.Flags().StringVar(&complexity, "complexity", "basic", "basic, advanced or enterprise")
	submit.Flags().IntVar(&priority, "priority", 5, "1 (highest) to 10")
	submit.Flags().StringVar(&integrations, "integrations", "", "systems to integrate with")
	submit.Flags().Int64Var(&teamID, "team", 0, "related agent team id")
	_ = submit.MarkFlagRequired("name")
	_ = submit.MarkFlagRequired("description")
	cmd.AddCommand(submit)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your workflow requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := apiClient.WorkflowRequests().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list requests: %w", err)
			}
			return renderRequests(reqs)
		},
	})

	return cmd
}

func renderRequests(reqs []client.WorkflowRequest) error {
	if getOutputFormat() != "table" {
		return printOutput(reqs)
	}
	if len(reqs) == 0 {
		fmt.Println("No workflow requests found")
		return nil
	}
	t := NewTable("ID", "USER", "NAME", "COMPLEXITY", "PRIORITY", "STATUS", "CREATED")
	for _, r := range reqs {
		t.AddRow(
			strconv.FormatInt(r.ID, 10),
			strconv.FormatInt(r.UserID, 10),
			truncate(r.Name, 32),
			r.Complexity,
			r.Priority,
			formatStatus(r.Status),
			r.CreatedAt.Format("2006-01-02"),
		)
	}
	t.Render()
	return nil
}
