package hoover

import "github.com/kailas-cloud/hoover/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfigMissing     = domain.ErrConfigMissing
	ErrSearchUnavailable = domain.ErrSearchUnavailable
	ErrNLPUnavailable    = domain.ErrNLPUnavailable
	ErrNLPQuotaExceeded  = domain.ErrNLPQuotaExceeded
)
