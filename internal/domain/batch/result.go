// Package batch describes per-file outcomes of a bulk ingest.
package batch

// ItemStatus is the processing outcome of a single ingested file.
type ItemStatus string

// Ingest item status values.
const (
	StatusOK      ItemStatus = "ok"
	StatusError   ItemStatus = "error"
	StatusSkipped ItemStatus = "skipped"
)

// Result is the outcome of ingesting one file.
type Result struct {
	path   string
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a result for a stored document.
func NewOK(path, id string) Result { return Result{path: path, id: id, status: StatusOK} }

// NewError creates a result for a file that could not be stored.
func NewError(path, id string, err error) Result {
	return Result{path: path, id: id, status: StatusError, err: err}
}

// NewSkipped creates a result for a file with nothing renderable (no page images).
func NewSkipped(path, id string, reason error) Result {
	return Result{path: path, id: id, status: StatusSkipped, err: reason}
}

// Path returns the source file.
func (r Result) Path() string { return r.path }

// ID returns the document identifier derived from the file name.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error or skip reason, if any.
func (r Result) Err() error { return r.err }
