package client

import "context"

// WorkflowService handles custom workflow requests
type WorkflowService struct {
	client *Client
}

// SubmitWorkflowRequest is the body of a new request
type SubmitWorkflowRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Complexity   string  `json:"complexity"` // basic, advanced or enterprise
	Priority     *int    `json:"priority,omitempty"`
	Integrations *string `json:"integrations,omitempty"`
	TeamID       *int64  `json:"teamId,omitempty"`
}

// Submit opens a pending request
func (s *WorkflowService) Submit(ctx context.Context, req SubmitWorkflowRequest) (*WorkflowRequest, error) {
	var created WorkflowRequest
	if err := s.client.doRequest(ctx, "POST", "/api/workflow-requests", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// List retrieves the current user's requests
func (s *WorkflowService) List(ctx context.Context) ([]WorkflowRequest, error) {
	var reqs []WorkflowRequest
	if err := s.client.doRequest(ctx, "GET", "/api/user/workflow-requests", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}
