package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pratik-mahalle/processimo/pkg/client"
	"github.com/spf13/cobra"
)

func kindArg(raw string) (string, error) {
	switch raw {
	case client.KindAgent, client.KindTeam:
		return raw, nil
	}
	return "", fmt.Errorf("kind must be %q or %q", client.KindAgent, client.KindTeam)
}

func newSubscribeCmd() *cobra.Command {
	var complete bool

	cmd := &cobra.Command{
		Use:       "subscribe <agent|team> <id>",
		Short:     "Start a subscription to an agent or agent team",
		Long:      "Creates a payment intent and a pending subscription. With --complete the subscription is activated right away, which only succeeds once the payment intent has settled.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{client.KindAgent, client.KindTeam},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindArg(args[0])
			if err != nil {
				return err
			}
			productID, err := parseID(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			checkout, err := apiClient.Subscriptions().Checkout(ctx, kind, productID)
			if err != nil {
				return fmt.Errorf("checkout failed: %w", err)
			}

			if !complete {
				if getOutputFormat() != "table" {
					return printOutput(checkout)
				}
				fmt.Printf("Pending subscription %d created\n", checkout.SubscriptionID)
				fmt.Printf("Client secret:     %s\n", checkout.ClientSecret)
				fmt.Printf("Payment intent:    %s\n", checkout.PaymentIntentID())
				fmt.Printf("Complete it with:  processimo subscription complete %s %d --payment-intent %s\n",
					kind, checkout.SubscriptionID, checkout.PaymentIntentID())
				return nil
			}

			sub, err := apiClient.Subscriptions().Complete(ctx, kind, checkout.SubscriptionID, checkout.PaymentIntentID())
			if err != nil {
				return fmt.Errorf("subscription %d created but not activated: %w", checkout.SubscriptionID, err)
			}
			return renderSubscription(sub)
		},
	}

	cmd.Flags().BoolVar(&complete, "complete", false, "activate immediately (sandbox payments)")
	return cmd
}

func newSubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"subscriptions", "sub"},
		Short:   "Manage your subscriptions",
	}

	var kind string
	list := &cobra.Command{
		Use:   "list",
		Short: "List your subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			kinds := []string{client.KindAgent, client.KindTeam}
			if kind != "" {
				k, err := kindArg(kind)
				if err != nil {
					return err
				}
				kinds = []string{k}
			}

			var all []client.Subscription
			for _, k := range kinds {
				subs, err := apiClient.Subscriptions().List(ctx, k)
				if err != nil {
					return fmt.Errorf("failed to list %s subscriptions: %w", k, err)
				}
				all = append(all, subs...)
			}

			if getOutputFormat() != "table" {
				return printOutput(all)
			}
			if len(all) == 0 {
				fmt.Println("No subscriptions found")
				return nil
			}
			t := NewTable("ID", "KIND", "PRODUCT", "STATUS", "STARTED", "ENDED")
			for _, s := range all {
				ended := "-"
				if s.EndDate != nil {
					ended = s.EndDate.Format("2006-01-02")
				}
				t.AddRow(
					strconv.FormatInt(s.ID, 10),
					s.Kind,
					productOf(s),
					formatStatus(s.Status),
					s.StartDate.Format("2006-01-02"),
					ended,
				)
			}
			t.Render()
			return nil
		},
	}
	list.Flags().StringVar(&kind, "kind", "", "agent or team (default both)")
	cmd.AddCommand(list)

	var intentID string
	completeCmd := &cobra.Command{
		Use:   "complete <agent|team> <id>",
		Short: "Activate a pending subscription once its payment succeeded",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindArg(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			sub, err := apiClient.Subscriptions().Complete(context.Background(), k, id, intentID)
			if err != nil {
				return fmt.Errorf("failed to complete subscription: %w", err)
			}
			return renderSubscription(sub)
		},
	}
	completeCmd.Flags().StringVar(&intentID, "payment-intent", "", "payment intent id")
	_ = completeCmd.MarkFlagRequired("payment-intent")
	cmd.AddCommand(completeCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <agent|team> <id>",
		Short: "Cancel a subscription",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindArg(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			sub, err := apiClient.Subscriptions().Cancel(context.Background(), k, id)
			if err != nil {
				return fmt.Errorf("failed to cancel subscription: %w", err)
			}
			if sub.Status == client.StatusCanceling {
				fmt.Println("Remote cancellation is pending and will be retried automatically")
			}
			return renderSubscription(sub)
		},
	})

	return cmd
}

func productOf(s client.Subscription) string {
	if s.TeamID != nil {
		return "team " + strconv.FormatInt(*s.TeamID, 10)
	}
	return "agent " + formatID(s.AgentID)
}

func renderSubscription(s *client.Subscription) error {
	if getOutputFormat() != "table" {
		return printOutput(s)
	}
	fmt.Printf("Subscription %d (%s)\n", s.ID, productOf(*s))
	fmt.Printf("Status:  %s\n", formatStatus(s.Status))
	fmt.Printf("Started: %s\n", s.StartDate.Format("2006-01-02 15:04"))
	if s.EndDate != nil {
		fmt.Printf("Ended:   %s\n", s.EndDate.Format("2006-01-02 15:04"))
	}
	return nil
}
