package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigMissing signals a required startup input (dictionary, URL) is absent.
	ErrConfigMissing = errors.New("config missing")
	// ErrNLPUnavailable signals a failed or timed out extraction call.
	ErrNLPUnavailable = errors.New("nlp unavailable")
	// ErrSearchUnavailable signals a failed search call.
	ErrSearchUnavailable = errors.New("search unavailable")
	// ErrMalformedEnrichment signals a hit whose enrichment payload lacks expected fields.
	ErrMalformedEnrichment = errors.New("malformed enrichment")
	// ErrNoThumbnails signals a hit without page images; such hits are not renderable.
	ErrNoThumbnails = errors.New("no thumbnails")
	// ErrInvalidActivity signals an inbound activity that failed validation.
	ErrInvalidActivity = errors.New("invalid activity")
)

// ErrNLPQuotaExceeded signals the NLP token budget is spent. Turns treat it like any
// other NLP outage and search on the question alone.
var ErrNLPQuotaExceeded = fmt.Errorf("%w: token budget exceeded", ErrNLPUnavailable)
