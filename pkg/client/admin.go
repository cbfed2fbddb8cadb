package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// AdminService wraps the admin endpoints
type AdminService struct {
	client *Client
}

// CreateAgentRequest is the body for a new agent
type CreateAgentRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         int64   `json:"price"`
	Category      string  `json:"category"`
	Features      string  `json:"features,omitempty"`
	IconClass     string  `json:"iconClass,omitempty"`
	IconBgClass   string  `json:"iconBgClass,omitempty"`
	GradientClass string  `json:"gradientClass,omitempty"`
	IsPopular     bool    `json:"isPopular,omitempty"`
	IsNew         bool    `json:"isNew,omitempty"`
	IsEnterprise  bool    `json:"isEnterprise,omitempty"`
	TeamID        *int64  `json:"teamId,omitempty"`
	TeamRole      *string `json:"teamRole,omitempty"`
}

// CreateTeamRequest is the body for a new agent team
type CreateTeamRequest struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Price         int64          `json:"price"`
	Target        string         `json:"target,omitempty"`
	Impact        string         `json:"impact,omitempty"`
	Workflow      []WorkflowStep `json:"workflow,omitempty"`
	IconClass     string         `json:"iconClass,omitempty"`
	GradientClass string         `json:"gradientClass,omitempty"`
	IsPopular     bool           `json:"isPopular,omitempty"`
	IsFeatured    bool           `json:"isFeatured,omitempty"`
}

// CancelingSubscriptions lists subscriptions waiting on remote cancellation
type CancelingSubscriptions struct {
	Agent []Subscription `json:"agentSubscriptions"`
	Team  []Subscription `json:"teamSubscriptions"`
}

// CreateAgent adds an agent to the catalog
func (s *AdminService) CreateAgent(ctx context.Context, req CreateAgentRequest) (*Agent, error) {
	var agent Agent
	if err := s.client.doRequest(ctx, "POST", "/api/admin/agents", req, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// UpdateAgent sends a partial update; keys follow the agent JSON field names
func (s *AdminService) UpdateAgent(ctx context.Context, id int64, patch map[string]interface{}) (*Agent, error) {
	var agent Agent
	if err := s.client.doRequest(ctx, "PATCH", fmt.Sprintf("/api/admin/agents/%d", id), patch, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// DeleteAgent removes an agent without live subscriptions
func (s *AdminService) DeleteAgent(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/admin/agents/%d", id), nil, nil)
}

// CreateTeam adds an agent team to the catalog
func (s *AdminService) CreateTeam(ctx context.Context, req CreateTeamRequest) (*Team, error) {
	var team Team
	if err := s.client.doRequest(ctx, "POST", "/api/admin/agent-teams", req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// UpdateTeam sends a partial update; keys follow the team JSON field names
func (s *AdminService) UpdateTeam(ctx context.Context, id int64, patch map[string]interface{}) (*Team, error) {
	var team Team
	if err := s.client.doRequest(ctx, "PATCH", fmt.Sprintf("/api/admin/agent-teams/%d", id), patch, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// DeleteTeam removes a team without live subscriptions
func (s *AdminService) DeleteTeam(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/admin/agent-teams/%d", id), nil, nil)
}

// ListWorkflowRequests retrieves one page of every user's requests
func (s *AdminService) ListWorkflowRequests(ctx context.Context, opts *ListOptions) (*Page[WorkflowRequest], error) {
	query := url.Values{}
	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
	}
	path := "/api/admin/workflow-requests"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page Page[WorkflowRequest]
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetWorkflowStatus sets pending, approved, rejected or completed
func (s *AdminService) SetWorkflowStatus(ctx context.Context, id int64, status string) (*WorkflowRequest, error) {
	body := map[string]string{"status": status}
	var req WorkflowRequest
	if err := s.client.doRequest(ctx, "PATCH", fmt.Sprintf("/api/admin/workflow-requests/%d", id), body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// CancelingSubscriptions lists subscriptions stuck in canceling
func (s *AdminService) CancelingSubscriptions(ctx context.Context) (*CancelingSubscriptions, error) {
	var out CancelingSubscriptions
	if err := s.client.doRequest(ctx, "GET", "/api/admin/subscriptions/canceling", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reconcile runs a reconciliation pass now
func (s *AdminService) Reconcile(ctx context.Context) ([]ReconcileReport, error) {
	var out struct {
		Reports []ReconcileReport `json:"reports"`
	}
	if err := s.client.doRequest(ctx, "POST", "/api/admin/subscriptions/reconcile", nil, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}
