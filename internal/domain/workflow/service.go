package workflow

import "context"

// Service records workflow requests and their admin-managed status
type Service interface {
	// Submit validates input and stores a pending request for userID
	Submit(ctx context.Context, userID int64, input SubmitInput) (*Request, error)

	ListByUser(ctx context.Context, userID int64) ([]*Request, error)

	// List returns a page of all requests plus the total count
	List(ctx context.Context, limit, offset int) ([]*Request, int, error)

	// SetStatus sets any of the four statuses; anything else is an invalid argument
	SetStatus(ctx context.Context, id int64, status Status) (*Request, error)
}
