package client

import (
	"context"
	"fmt"
)

// TeamService handles agent team catalog calls
type TeamService struct {
	client *Client
}

// List retrieves every team
func (s *TeamService) List(ctx context.Context) ([]Team, error) {
	var teams []Team
	if err := s.client.doRequest(ctx, "GET", "/api/agent-teams", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Featured retrieves popular or featured teams
func (s *TeamService) Featured(ctx context.Context) ([]Team, error) {
	var teams []Team
	if err := s.client.doRequest(ctx, "GET", "/api/agent-teams/featured", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Get retrieves a team with its member agents
func (s *TeamService) Get(ctx context.Context, id int64) (*TeamDetail, error) {
	var detail TeamDetail
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/agent-teams/%d", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Mine retrieves the teams the current user actively subscribes to
func (s *TeamService) Mine(ctx context.Context) ([]Team, error) {
	var teams []Team
	if err := s.client.doRequest(ctx, "GET", "/api/user/agent-teams", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}
