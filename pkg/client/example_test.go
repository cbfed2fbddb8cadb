package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/pratik-mahalle/processimo/pkg/client"
)

// Example demonstrates basic usage of the Processimo client
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:5000",
	})

	ctx := context.Background()

	loginResp, err := c.Login(ctx, "alice", "password123")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Logged in as: %s\n", loginResp.User.Username)

	agents, err := c.Agents().List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Found %d agents\n", len(agents))
}

// ExampleSubscriptionService_Checkout walks through buying an agent
func ExampleSubscriptionService_Checkout() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:5000",
	})
	ctx := context.Background()

	if _, err := c.Login(ctx, "alice", "password123"); err != nil {
		log.Fatal(err)
	}

	checkout, err := c.Subscriptions().Checkout(ctx, client.KindAgent, 1)
	if err != nil {
		log.Fatal(err)
	}

	// The client secret goes to the payment form; once the intent succeeds
	// the subscription is completed with the intent id.
	fmt.Printf("Pending subscription %d\n", checkout.SubscriptionID)
}

// ExampleAdminService_SetWorkflowStatus demonstrates an admin status change
func ExampleAdminService_SetWorkflowStatus() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:5000",
	})
	ctx := context.Background()

	if _, err := c.Login(ctx, "admin", "admin123"); err != nil {
		log.Fatal(err)
	}

	req, err := c.Admin().SetWorkflowStatus(ctx, 1, "approved")
	if err != nil {
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.IsForbidden() {
			log.Fatal("not an admin")
		}
		log.Fatal(err)
	}
	fmt.Printf("Request %d is %s\n", req.ID, req.Status)
}
