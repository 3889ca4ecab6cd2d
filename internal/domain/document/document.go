package document

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/domain/enrichment"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+(/[a-zA-Z0-9_.-]+)*$`)

// MaxEnrichmentSize is the maximum enrichment payload size in bytes.
const MaxEnrichmentSize = 16 << 20

// Document is an enriched archive document ready for indexing (immutable value object).
type Document struct {
	id       string
	name     string
	content  string
	pages    int
	enriched string
}

// New validates an enrichment payload and creates a Document.
// ID: '/'-separated segments of [a-zA-Z0-9_.-], 1-256 chars. The payload must carry page images and final text.
func New(id string, enriched []byte) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be '/'-separated segments of letters, digits, dots, underscores and hyphens")
	}
	if len(enriched) > MaxEnrichmentSize {
		return Document{}, fmt.Errorf("enrichment too large (max %d bytes)", MaxEnrichmentSize)
	}

	payload, err := enrichment.Parse(enriched)
	if err != nil {
		return Document{}, err
	}
	thumbs, ok := payload.Thumbnails()
	if !ok || len(thumbs) == 0 {
		return Document{}, domain.ErrNoThumbnails
	}
	text, ok := payload.FinalText()
	if !ok {
		return Document{}, fmt.Errorf("%w: missing %s", domain.ErrMalformedEnrichment, enrichment.PathFinalText)
	}
	url, ok := payload.DocumentURL()
	if !ok {
		return Document{}, fmt.Errorf("%w: missing %s storage fields", domain.ErrMalformedEnrichment, enrichment.PathDocument)
	}

	return Document{
		id:       id,
		name:     nameFromURL(url),
		content:  text,
		pages:    len(thumbs),
		enriched: string(enriched),
	}, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Name returns the stored file name.
func (d *Document) Name() string { return d.name }

// Content returns the full extracted text.
func (d *Document) Content() string { return d.content }

// Pages returns the number of page images.
func (d *Document) Pages() int { return d.pages }

// Enriched returns the raw enrichment payload.
func (d *Document) Enriched() string { return d.enriched }

// nameFromURL returns the last path element of a "path?token" URL.
func nameFromURL(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	return path.Base(url)
}
