// Package card turns search hits into display-ready result cards.
package card

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/domain/enrichment"
	"github.com/kailas-cloud/hoover/internal/domain/search/result"
)

// Defaults for Builder.
const (
	DefaultMaxExcerpt = 200
	DefaultPageBreak  = "[image: image1.tif]"
	Ellipsis          = "…"
)

// Card is one result in the reply carousel.
type Card struct {
	ThumbnailURL string
	Excerpt      string
	ActionURL    string
}

// Builder maps hits to cards.
type Builder struct {
	maxExcerpt int
	pageBreak  string
}

// NewBuilder creates a Builder. Zero values take the package defaults.
func NewBuilder(maxExcerpt int, pageBreak string) *Builder {
	if maxExcerpt <= 0 {
		maxExcerpt = DefaultMaxExcerpt
	}
	if pageBreak == "" {
		pageBreak = DefaultPageBreak
	}
	return &Builder{maxExcerpt: maxExcerpt, pageBreak: pageBreak}
}

// Build creates the card for hit. Any error means the hit has nothing to render.
func (b *Builder) Build(hit result.Result) (Card, error) {
	payload, err := enrichment.Parse([]byte(hit.Enriched()))
	if err != nil {
		return Card{}, err
	}

	thumbs, ok := payload.Thumbnails()
	if !ok || len(thumbs) == 0 {
		return Card{}, domain.ErrNoThumbnails
	}
	// Multi-page documents open with an identification form; page two is the first of interest.
	multiPage := len(thumbs) > 1
	thumb := thumbs[0]
	if multiPage {
		thumb = thumbs[1]
	}

	docURL, ok := payload.DocumentURL()
	if !ok {
		return Card{}, fmt.Errorf("%w: missing %s storage fields", domain.ErrMalformedEnrichment, enrichment.PathDocument)
	}

	text, ok := payload.FinalText()
	if !ok {
		return Card{}, fmt.Errorf("%w: missing %s", domain.ErrMalformedEnrichment, enrichment.PathFinalText)
	}
	if multiPage {
		text = b.skipCoverPage(text)
	}

	return Card{
		ThumbnailURL: thumb,
		Excerpt:      b.truncate(text),
		ActionURL:    docURL,
	}, nil
}

// Assemble builds cards for hits in order. Failed hits are reported to onSkip
// (which may be nil) and left out.
func (b *Builder) Assemble(hits []result.Result, onSkip func(hit result.Result, err error)) []Card {
	cards := make([]Card, 0, len(hits))
	for _, hit := range hits {
		c, err := b.Build(hit)
		if err != nil {
			if onSkip != nil {
				onSkip(hit, err)
			}
			continue
		}
		cards = append(cards, c)
	}
	return cards
}

func (b *Builder) skipCoverPage(text string) string {
	idx := strings.Index(text, b.pageBreak)
	if idx < 0 {
		return text
	}
	return text[idx+len(b.pageBreak):]
}

// truncate limits text to maxExcerpt runes, the last being an ellipsis when cut.
func (b *Builder) truncate(text string) string {
	if utf8.RuneCountInString(text) <= b.maxExcerpt {
		return text
	}
	runes := []rune(text)
	return string(runes[:b.maxExcerpt-1]) + Ellipsis
}
