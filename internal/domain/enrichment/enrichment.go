// Package enrichment reads the enrichment payload attached to an indexed document.
package enrichment

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/hoover/internal/domain"
)

// Field paths written by the indexing pipeline.
const (
	PathThumbnails = "/document/normalized_images/*/imageStoreUri"
	PathFinalText  = "/document/finalText"
	PathDocument   = "/document"

	FieldStoragePath = "metadata_storage_path"
	FieldSASToken    = "metadata_storage_sas_token"
)

// Payload is a flat JSON object keyed by field path. Accessors report presence
// instead of failing, so callers decide what a missing field means.
type Payload struct {
	fields map[string]json.RawMessage
}

// Parse decodes a payload. Anything but a JSON object is ErrMalformedEnrichment.
func Parse(data []byte) (Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", domain.ErrMalformedEnrichment, err)
	}
	if fields == nil {
		return Payload{}, fmt.Errorf("%w: payload is null", domain.ErrMalformedEnrichment)
	}
	return Payload{fields: fields}, nil
}

// Has reports whether path is present (null counts as absent).
func (p Payload) Has(path string) bool {
	raw, ok := p.fields[path]
	return ok && string(raw) != "null"
}

// String returns the string at path.
func (p Payload) String(path string) (string, bool) {
	raw, ok := p.fields[path]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Strings returns the string list at path. Non-string elements make the field absent.
func (p Payload) Strings(path string) ([]string, bool) {
	raw, ok := p.fields[path]
	if !ok {
		return nil, false
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil || ss == nil {
		return nil, false
	}
	return ss, true
}

// Object returns the nested object at path.
func (p Payload) Object(path string) (Payload, bool) {
	raw, ok := p.fields[path]
	if !ok {
		return Payload{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Payload{}, false
	}
	return Payload{fields: fields}, true
}

// Thumbnails returns the page thumbnail URIs in page order.
func (p Payload) Thumbnails() ([]string, bool) {
	return p.Strings(PathThumbnails)
}

// FinalText returns the full extracted text.
func (p Payload) FinalText() (string, bool) {
	return p.String(PathFinalText)
}

// DocumentURL returns the storage path joined with its access token as "path?token".
func (p Payload) DocumentURL() (string, bool) {
	doc, ok := p.Object(PathDocument)
	if !ok {
		return "", false
	}
	path, ok := doc.String(FieldStoragePath)
	if !ok {
		return "", false
	}
	token, ok := doc.String(FieldSASToken)
	if !ok {
		return "", false
	}
	return path + "?" + token, true
}
