package request

import (
	"fmt"
	"strings"

	"github.com/m3360202/mathTest/internal/domain"
)

// Search parameter limits.
const (
	DefaultLimit = 5
	MaxLimit     = 100
)

// Request is a validated search query.
type Request struct {
	query string
	limit int
}

// New validates search parameters.
// Query must contain something other than whitespace. Limit must be non-negative and
// is clamped to maxLimit (MaxLimit when maxLimit <= 0); a zero limit is valid and
// yields no results.
func New(query string, limit, maxLimit int) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("query is required: %w", domain.ErrInvalidQuery)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("limit must be non-negative, got %d: %w", limit, domain.ErrInvalidQuery)
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return Request{query: query, limit: limit}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum number of results.
func (r *Request) Limit() int { return r.limit }
