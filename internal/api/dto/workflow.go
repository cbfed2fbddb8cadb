package dto

// UpdateWorkflowStatusRequest is the admin status override
type UpdateWorkflowStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
