package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the NLP provider is down; turns fall back to raw-question search.
	Degraded Status = "degraded"
	// Unhealthy indicates the document index is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// checkTimeout bounds each component probe.
const checkTimeout = 2 * time.Second

// Service coordinates health checks.
type Service struct {
	db    DBPinger
	nlp   NLPChecker
	index IndexChecker
	name  string
}

// New creates a Service. nlp can be nil.
func New(db DBPinger, nlp NLPChecker) *Service {
	return &Service{db: db, nlp: nlp}
}

// WithIndex also requires the named document index to exist.
func (s *Service) WithIndex(ic IndexChecker, name string) *Service {
	s.index = ic
	s.name = name
	return s
}

// Check runs health checks against all components. A failing NLP provider only
// degrades the service; turns still search on the question alone.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.nlp != nil {
		if err := probe(ctx, s.nlp.HealthCheck); err != nil {
			checks["nlp"] = CheckError
			status = Degraded
		} else {
			checks["nlp"] = CheckOK
		}
	}

	if err := probe(ctx, s.db.Ping); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	if s.index != nil && checks["database"] == CheckOK {
		exists := false
		err := probe(ctx, func(ctx context.Context) error {
			var err error
			exists, err = s.index.IndexExists(ctx, s.name)
			return err
		})
		if err != nil || !exists {
			checks["index"] = CheckError
			status = Unhealthy
		} else {
			checks["index"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}

func probe(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return fn(ctx)
}
