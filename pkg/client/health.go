package client

import (
	"context"
	"net/http"
)

// Health reports whether the API process is up. It needs no token.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return c.probe(ctx, "/healthz")
}

// Ready reports storage, payment gateway and per-dependency state. A down
// dependency comes back as an *APIError with code SERVICE_UNAVAILABLE.
func (c *Client) Ready(ctx context.Context) (*HealthResponse, error) {
	return c.probe(ctx, "/readyz")
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Health(ctx)
	return err
}

func (c *Client) probe(ctx context.Context, path string) (*HealthResponse, error) {
	out := new(HealthResponse)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
