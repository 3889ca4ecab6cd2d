package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hoover/internal/domain"
	dombatch "github.com/kailas-cloud/hoover/internal/domain/batch"
	domdoc "github.com/kailas-cloud/hoover/internal/domain/document"
)

// DefaultBatchSize is the number of documents written per pipeline round trip.
const DefaultBatchSize = 100

const poolReleaseTimeout = 5 * time.Second

// Summary reports the outcome of an index run.
type Summary struct {
	IndexCreated bool
	Results      []dombatch.Result
}

// Count returns the number of results with the given status.
func (s Summary) Count(status dombatch.ItemStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status() == status {
			n++
		}
	}
	return n
}

// Service loads enrichment files and cryptonyms into the database.
type Service struct {
	docs      DocumentRepository
	crypts    CryptonymRepository
	workers   int
	batchSize int
	logger    *zap.Logger
}

// New creates an ingest service.
func New(docs DocumentRepository, crypts CryptonymRepository, logger *zap.Logger) *Service {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		docs: docs, crypts: crypts,
		workers: workers, batchSize: DefaultBatchSize,
		logger: logger,
	}
}

// WithWorkers configures the number of parsing workers.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// WithBatchSize configures the number of documents per write.
func (s *Service) WithBatchSize(n int) *Service {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

type parsed struct {
	path string
	id   string
	doc  domdoc.Document
	err  error
}

// IndexDir creates the index if needed and stores every *.json enrichment file under dir.
// One bad file never stops the run; its failure is reported in the summary.
func (s *Service) IndexDir(ctx context.Context, dir string, recreate bool) (Summary, error) {
	created, err := s.docs.EnsureIndex(ctx, recreate)
	if err != nil {
		return Summary{}, fmt.Errorf("ensure index: %w", err)
	}
	summary := Summary{IndexCreated: created}

	paths, err := listDocuments(dir)
	if err != nil {
		return summary, err
	}
	s.logger.Info("indexing documents",
		zap.String("dir", dir),
		zap.Int("files", len(paths)),
		zap.Int("workers", s.workers),
		zap.Bool("index_created", created),
	)

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return summary, fmt.Errorf("create worker pool: %w", err)
	}
	defer func() { _ = pool.ReleaseTimeout(poolReleaseTimeout) }()

	out := make(chan parsed, s.workers)
	go func() {
		var wg sync.WaitGroup
		for _, p := range paths {
			if ctx.Err() != nil {
				break
			}
			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				out <- load(dir, p)
			}); err != nil {
				wg.Done()
				out <- parsed{path: p, id: documentID(dir, p), err: fmt.Errorf("submit: %w", err)}
			}
		}
		wg.Wait()
		close(out)
	}()

	pending := make([]parsed, 0, s.batchSize)
	for f := range out {
		switch {
		case errors.Is(f.err, domain.ErrNoThumbnails):
			summary.Results = append(summary.Results, dombatch.NewSkipped(f.path, f.id, f.err))
		case f.err != nil:
			s.logger.Warn("skipping document", zap.String("path", f.path), zap.Error(f.err))
			summary.Results = append(summary.Results, dombatch.NewError(f.path, f.id, f.err))
		default:
			pending = append(pending, f)
			if len(pending) >= s.batchSize {
				summary.Results = append(summary.Results, s.flush(ctx, pending)...)
				pending = pending[:0]
			}
		}
	}
	if len(pending) > 0 {
		summary.Results = append(summary.Results, s.flush(ctx, pending)...)
	}

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("index %s: %w", dir, err)
	}
	return summary, nil
}

func (s *Service) flush(ctx context.Context, batch []parsed) []dombatch.Result {
	docs := make([]domdoc.Document, len(batch))
	for i, f := range batch {
		docs[i] = f.doc
	}

	results := make([]dombatch.Result, len(batch))
	err := s.docs.SaveBatch(ctx, docs)
	if err != nil {
		s.logger.Error("save batch", zap.Int("documents", len(batch)), zap.Error(err))
	}
	for i, f := range batch {
		if err != nil {
			results[i] = dombatch.NewError(f.path, f.id, err)
		} else {
			results[i] = dombatch.NewOK(f.path, f.id)
		}
	}
	return results
}

// LoadCryptonyms replaces the stored dictionary with entries.
func (s *Service) LoadCryptonyms(ctx context.Context, entries map[string]string) (int, error) {
	if len(entries) == 0 {
		return 0, fmt.Errorf("%w: no cryptonyms to load", domain.ErrConfigMissing)
	}
	if err := s.crypts.Replace(ctx, entries); err != nil {
		return 0, err
	}
	s.logger.Info("cryptonyms loaded", zap.Int("entries", len(entries)))
	return len(entries), nil
}

func load(dir, path string) parsed {
	id := documentID(dir, path)
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return parsed{path: path, id: id, err: fmt.Errorf("read: %w", err)}
	}
	doc, err := domdoc.New(id, data)
	return parsed{path: path, id: id, doc: doc, err: err}
}

// documentID is the path relative to dir without its extension, '/'-separated,
// so equal file names in different folders stay distinct.
func documentID(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
}

func listDocuments(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".json") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return paths, nil
}
