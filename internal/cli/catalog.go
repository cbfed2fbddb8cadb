package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pratik-mahalle/processimo/pkg/client"
	"github.com/spf13/cobra"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "agent",
		Aliases:     []string{"agents"},
		Short:       "Browse AI agents",
		Annotations: publicCommand(),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			agents, err := apiClient.Agents().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list agents: %w", err)
			}
			return renderAgents(agents)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "featured",
		Short: "List agents with a popular, new or enterprise badge",
		RunE: func(cmd *cobra.Command, args []string) error {
			agents, err := apiClient.Agents().Featured(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list featured agents: %w", err)
			}
			return renderAgents(agents)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show agent details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			agent, err := apiClient.Agents().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get agent: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(agent)
			}
			fmt.Printf("ID:          %d\n", agent.ID)
			fmt.Printf("Name:        %s\n", agent.Name)
			fmt.Printf("Category:    %s\n", agent.Category)
			fmt.Printf("Price:       %s\n", formatPrice(agent.Price))
			fmt.Printf("Team:        %s\n", formatID(agent.TeamID))
			if agent.TeamRole != nil {
				fmt.Printf("Role:        %s\n", *agent.TeamRole)
			}
			fmt.Printf("Description: %s\n", agent.Description)
			if agent.Features != "" {
				fmt.Printf("Features:    %s\n", agent.Features)
			}
			return nil
		},
	})

	return cmd
}

func renderAgents(agents []client.Agent) error {
	if getOutputFormat() != "table" {
		return printOutput(agents)
	}
	if len(agents) == 0 {
		fmt.Println("No agents found")
		return nil
	}

	t := NewTable("ID", "NAME", "CATEGORY", "PRICE", "TEAM", "BADGES")
	for _, a := range agents {
		t.AddRow(
			strconv.FormatInt(a.ID, 10),
			truncate(a.Name, 32),
			a.Category,
			formatPrice(a.Price),
			formatID(a.TeamID),
			formatBadges(map[string]bool{"popular": a.IsPopular, "new": a.IsNew, "enterprise": a.IsEnterprise}),
		)
	}
	t.Render()
	return nil
}

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "team",
		Aliases:     []string{"teams"},
		Short:       "Browse agent teams",
		Annotations: publicCommand(),
	}

	var featured bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List agent teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var (
				teams []client.Team
				err   error
			)
			if featured {
				teams, err = apiClient.Teams().Featured(ctx)
			} else {
				teams, err = apiClient.Teams().List(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to list teams: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(teams)
			}
			if len(teams) == 0 {
				fmt.Println("No agent teams found")
				return nil
			}
			t := NewTable("ID", "NAME", "CATEGORY", "PRICE", "STEPS", "BADGES")
			for _, team := range teams {
				t.AddRow(
					strconv.FormatInt(team.ID, 10),
					truncate(team.Name, 32),
					team.Category,
					formatPrice(team.Price),
					strconv.Itoa(len(team.Workflow)),
					formatBadges(map[string]bool{"popular": team.IsPopular, "featured": team.IsFeatured}),
				)
			}
			t.Render()
			return nil
		},
	}
	list.Flags().BoolVar(&featured, "featured", false, "only popular or featured teams")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a team with its members and workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			detail, err := apiClient.Teams().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get team: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(detail)
			}
			fmt.Printf("ID:       %d\n", detail.ID)
			fmt.Printf("Name:     %s\n", detail.Name)
			fmt.Printf("Category: %s\n", detail.Category)
			fmt.Printf("Price:    %s\n", formatPrice(detail.Price))
			if detail.Target != "" {
				fmt.Printf("Target:   %s\n", detail.Target)
			}
			if detail.Impact != "" {
				fmt.Printf("Impact:   %s\n", detail.Impact)
			}

			fmt.Println()
			fmt.Println("Workflow:")
			t := NewTable("STEP", "AGENT", "AGENT ID", "DESCRIPTION")
			for _, s := range detail.Workflow {
				t.AddRow(strconv.Itoa(s.Step), s.AgentName, formatID(s.AgentID), truncate(s.Description, 60))
			}
			t.Render()

			fmt.Println()
			fmt.Println("Members:")
			return renderAgents(detail.Agents)
		},
	})

	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
