package result

// Result is a single search hit.
type Result struct {
	id       string
	score    float64
	enriched string
}

// New creates a search result. enriched is the raw enrichment JSON.
func New(id string, score float64, enriched string) Result {
	return Result{id: id, score: score, enriched: enriched}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }

// Enriched returns the raw enrichment payload.
func (r *Result) Enriched() string { return r.enriched }

// Set is an ordered page of hits together with the backend's total match count.
type Set struct {
	hits  []Result
	total int
}

// NewSet creates a result set.
func NewSet(hits []Result, total int) Set {
	return Set{hits: hits, total: total}
}

// Hits returns the hits in backend rank order.
func (s *Set) Hits() []Result { return s.hits }

// Total returns the number of matching documents, which may exceed len(Hits()).
func (s *Set) Total() int { return s.total }
