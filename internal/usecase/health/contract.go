package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// NLPChecker checks NLP provider availability.
type NLPChecker interface {
	HealthCheck(ctx context.Context) error
}

// IndexChecker reports whether the document index exists.
type IndexChecker interface {
	IndexExists(ctx context.Context, name string) (bool, error)
}
