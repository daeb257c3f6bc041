package client

import (
	"context"
	"net/http"
)

// Health checks server liveness.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, call{op: "health", method: http.MethodGet, path: "/health"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status returns per-component health. A degraded server answers 503 with the
// same body, which is returned without error; check Status.Healthy.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var out Status
	err := c.do(ctx, call{
		op:     "status",
		method: http.MethodGet,
		path:   "/status",
		accept: []int{http.StatusServiceUnavailable},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
