package client

import (
	"context"
	"fmt"
)

// AgentService handles agent catalog calls
type AgentService struct {
	client *Client
}

// List retrieves every agent
func (s *AgentService) List(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	if err := s.client.doRequest(ctx, "GET", "/api/agents", nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// Featured retrieves agents carrying a badge
func (s *AgentService) Featured(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	if err := s.client.doRequest(ctx, "GET", "/api/agents/featured", nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// Get retrieves a single agent
func (s *AgentService) Get(ctx context.Context, id int64) (*Agent, error) {
	var agent Agent
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/agents/%d", id), nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// Mine retrieves the agents the current user actively subscribes to
func (s *AgentService) Mine(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	if err := s.client.doRequest(ctx, "GET", "/api/user/agents", nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}
