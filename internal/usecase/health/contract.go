package health

import "context"

// CachePinger checks extraction cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ParserChecker checks parser service availability.
type ParserChecker interface {
	HealthCheck(ctx context.Context) error
}
