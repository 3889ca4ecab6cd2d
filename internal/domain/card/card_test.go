package card

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/hoover/internal/domain"
	"github.com/kailas-cloud/hoover/internal/domain/search/result"
)

func makeHit(t *testing.T, thumbs []string, text string) result.Result {
	t.Helper()
	payload := map[string]any{
		"/document/finalText": text,
		"/document": map[string]string{
			"metadata_storage_path":      "https://store/docs/a.pdf",
			"metadata_storage_sas_token": "sig=1",
		},
	}
	if thumbs != nil {
		payload["/document/normalized_images/*/imageStoreUri"] = thumbs
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return result.New("hoover:doc:a", 1, string(data))
}

func TestBuild_SingleThumbnail(t *testing.T) {
	b := NewBuilder(0, "")

	c, err := b.Build(makeHit(t, []string{"https://img/0.jpg"}, "short [image: image1.tif] text"))
	require.NoError(t, err)

	assert.Equal(t, "https://img/0.jpg", c.ThumbnailURL)
	assert.Equal(t, "https://store/docs/a.pdf?sig=1", c.ActionURL)
	assert.Equal(t, "short [image: image1.tif] text", c.Excerpt, "single page text is kept whole")
}

func TestBuild_MultiPage(t *testing.T) {
	b := NewBuilder(0, "")

	c, err := b.Build(makeHit(t,
		[]string{"https://img/0.jpg", "https://img/1.jpg", "https://img/2.jpg"},
		"ROUTING SLIP [image: image1.tif] Memorandum for the record [image: image1.tif] tail",
	))
	require.NoError(t, err)

	assert.Equal(t, "https://img/1.jpg", c.ThumbnailURL)
	assert.Equal(t, " Memorandum for the record [image: image1.tif] tail", c.Excerpt)
}

func TestBuild_MultiPageWithoutMarker(t *testing.T) {
	b := NewBuilder(0, "")

	c, err := b.Build(makeHit(t, []string{"a", "b"}, "no marker here"))
	require.NoError(t, err)
	assert.Equal(t, "no marker here", c.Excerpt)
}

func TestBuild_MarkerAtStart(t *testing.T) {
	b := NewBuilder(0, "")

	c, err := b.Build(makeHit(t, []string{"a", "b"}, "[image: image1.tif]body"))
	require.NoError(t, err)
	assert.Equal(t, "body", c.Excerpt)
}

func TestBuild_Truncation(t *testing.T) {
	b := NewBuilder(0, "")

	tests := []struct {
		name      string
		text      string
		truncated bool
	}{
		{"exactly max", strings.Repeat("a", 200), false},
		{"one over", strings.Repeat("a", 201), true},
		{"long", strings.Repeat("word ", 1000), true},
		{"multibyte", strings.Repeat("é", 300), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := b.Build(makeHit(t, []string{"a"}, tc.text))
			require.NoError(t, err)

			n := utf8.RuneCountInString(c.Excerpt)
			assert.LessOrEqual(t, n, 200)
			if tc.truncated {
				assert.Equal(t, 200, n)
				assert.True(t, strings.HasSuffix(c.Excerpt, Ellipsis))
			} else {
				assert.Equal(t, tc.text, c.Excerpt)
			}
		})
	}
}

func TestBuild_CustomLimits(t *testing.T) {
	b := NewBuilder(10, "<page>")

	c, err := b.Build(makeHit(t, []string{"a", "b"}, "cover<page>0123456789abc"))
	require.NoError(t, err)
	assert.Equal(t, "012345678…", c.Excerpt)
}

func TestBuild_Skips(t *testing.T) {
	b := NewBuilder(0, "")

	tests := []struct {
		name string
		hit  result.Result
		want error
	}{
		{"no thumbnails", makeHit(t, nil, "text"), domain.ErrNoThumbnails},
		{"empty thumbnails", makeHit(t, []string{}, "text"), domain.ErrNoThumbnails},
		{"not json", result.New("x", 0, "not json"), domain.ErrMalformedEnrichment},
		{"empty payload", result.New("x", 0, ""), domain.ErrMalformedEnrichment},
		{"missing document", result.New("x", 0, `{"/document/normalized_images/*/imageStoreUri":["a"],"/document/finalText":"t"}`), domain.ErrMalformedEnrichment},
		{"missing text", result.New("x", 0, `{"/document/normalized_images/*/imageStoreUri":["a"],"/document":{"metadata_storage_path":"p","metadata_storage_sas_token":"t"}}`), domain.ErrMalformedEnrichment},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.Build(tc.hit)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestAssemble_IsolatesFailures(t *testing.T) {
	b := NewBuilder(0, "")
	hits := []result.Result{
		makeHit(t, []string{"first"}, "one"),
		result.New("bad", 0, "{"),
		makeHit(t, nil, "no images"),
		makeHit(t, []string{"cover", "second"}, "two"),
	}

	var skipped []string
	cards := b.Assemble(hits, func(hit result.Result, err error) {
		skipped = append(skipped, hit.ID())
	})

	require.Len(t, cards, 2)
	assert.Equal(t, "first", cards[0].ThumbnailURL)
	assert.Equal(t, "second", cards[1].ThumbnailURL)
	assert.Equal(t, []string{"bad", "hoover:doc:a"}, skipped)
}

func TestAssemble_NilCallback(t *testing.T) {
	b := NewBuilder(0, "")
	cards := b.Assemble([]result.Result{result.New("bad", 0, "")}, nil)
	assert.Empty(t, cards)
}
