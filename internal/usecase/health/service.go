package health

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/m3360202/mathTest/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "healthy"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "unhealthy"
	// CheckDisabled marks a component that is not configured.
	CheckDisabled CheckResult = "disabled"
)

// Component names reported by Check.
const (
	ComponentParser = "parserService"
	ComponentStore  = "documentStore"
	ComponentCache  = "cache"
)

const defaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	parser  ParserChecker
	cache   CachePinger
	timeout time.Duration
}

// New creates a Service. parser and cache can be nil when not configured.
func New(parser ParserChecker, cache CachePinger) *Service {
	return &Service{parser: parser, cache: cache, timeout: defaultCheckTimeout}
}

// Check runs health checks against all components. The in-memory document
// store is always healthy; a disabled component does not degrade the status.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log := logger.FromContext(ctx)
	checks := map[string]CheckResult{ComponentStore: CheckOK}

	checks[ComponentParser] = CheckDisabled
	if s.parser != nil {
		checks[ComponentParser] = CheckOK
		if err := s.parser.HealthCheck(ctx); err != nil {
			log.Warn("Parser health check failed", zap.Error(err))
			checks[ComponentParser] = CheckError
		}
	}

	if s.cache != nil {
		checks[ComponentCache] = CheckOK
		if err := s.cache.Ping(ctx); err != nil {
			log.Warn("Cache health check failed", zap.Error(err))
			checks[ComponentCache] = CheckError
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
