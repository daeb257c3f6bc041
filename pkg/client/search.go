package client

import (
	"context"
	"errors"
)

// Search ranks stored documents against query. limit <= 0 uses the server default.
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	if query == "" {
		return nil, errors.New("mathdocs: query is required")
	}
	in := struct {
		Query string `json:"query"`
		Limit *int   `json:"limit,omitempty"`
	}{Query: query}
	if limit > 0 {
		in.Limit = &limit
	}

	var resp struct {
		Query     string        `json:"query"`
		Results   searchColumns `json:"results"`
		Timestamp string        `json:"timestamp"`
	}
	if err := c.postJSON(ctx, "search", "/search", in, &resp); err != nil {
		return nil, err
	}
	return &SearchResult{
		Query:     resp.Query,
		Hits:      resp.Results.hits(),
		Timestamp: resp.Timestamp,
	}, nil
}
