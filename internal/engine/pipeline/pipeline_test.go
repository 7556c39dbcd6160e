package pipeline_test

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/core/ports/mocks"
	"go.fstop.ch/fstop/internal/engine/pipeline"
	"go.fstop.ch/fstop/internal/engine/variants"
	"go.uber.org/mock/gomock"
)

// newPipeline builds a pipeline whose generator is backed by mocks, with
// the cache already holding a complete entry so no conversion runs.
func newPipeline(t *testing.T, entries map[string]*domain.ImageEntry) *pipeline.Pipeline {
	t.Helper()
	ctrl := gomock.NewController(t)

	conv := mocks.NewMockConverter(ctrl)
	cache := mocks.NewMockImageCache(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_, filename string) (*domain.ImageEntry, bool) {
			e, ok := entries[filename]
			return e, ok
		}).AnyTimes()
	cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	gen := variants.NewGenerator(conv, cache, logger, []int{960, 1440}, domain.DefaultQuality())
	return pipeline.New(gen, logger)
}

func cachedEntry(source string, widths ...int) *domain.ImageEntry {
	v := make(map[int]domain.FormatSet, len(widths))
	for _, w := range widths {
		set := domain.FormatSet{}
		for _, f := range domain.OutputFormats() {
			set[f] = &domain.VariantFile{
				Filename: domain.VariantFilename(source, w, f),
				Width:    w,
				Height:   w * 2 / 3,
			}
		}
		v[w] = set
	}
	return &domain.ImageEntry{
		Original:     &domain.Dimensions{Width: 2400, Height: 1600},
		Variants:     v,
		LargestWidth: widths[len(widths)-1],
		Processed:    true,
	}
}

func TestProcess_RendersResponsiveMarkup(t *testing.T) {
	p := newPipeline(t, map[string]*domain.ImageEntry{
		"camel.jpg": cachedEntry("camel.jpg", 960, 1440),
	})

	article := &domain.Article{
		Slug:   "dunes",
		Title:  "Dunes",
		Images: []string{"camel.jpg"},
		Body:   "# Dunes\n\n![A camel](camel.jpg)\n\nSome text.\n",
	}

	out, err := p.Process(context.Background(), article, t.TempDir(), false)
	require.NoError(t, err)

	assert.Equal(t, variants.StatusCached, out.Statuses["camel.jpg"])

	g := goldie.New(t)
	g.Assert(t, "responsive_article", []byte(out.HTML))
}

func TestProcess_UnresolvedReferenceKeptVerbatim(t *testing.T) {
	p := newPipeline(t, map[string]*domain.ImageEntry{
		"camel.jpg": cachedEntry("camel.jpg", 960),
	})

	article := &domain.Article{
		Slug:   "dunes",
		Images: []string{"camel.jpg"},
		Body:   "![A camel](camel.jpg)\n\n![Missing](ghost.jpg)\n",
	}

	out, err := p.Process(context.Background(), article, t.TempDir(), false)
	require.NoError(t, err)

	assert.Contains(t, out.HTML, "<picture>")
	// ghost.jpg is not one of the article's images; its markdown survives
	// as a plain <img> rendered by the markdown engine.
	assert.Contains(t, out.HTML, `<img src="ghost.jpg" alt="Missing">`)
}

func TestProcess_FallbackImageStaysPlainReference(t *testing.T) {
	p := newPipeline(t, map[string]*domain.ImageEntry{
		// A degraded image: processed but without variants.
		"scan.jpg": {
			Original:  &domain.Dimensions{Width: 800, Height: 600},
			Processed: true,
		},
	})

	article := &domain.Article{
		Slug:   "dunes",
		Images: []string{"scan.jpg"},
		Body:   "![Old scan](scan.jpg)\n",
	}

	out, err := p.Process(context.Background(), article, t.TempDir(), false)
	require.NoError(t, err)

	assert.Equal(t, variants.StatusCached, out.Statuses["scan.jpg"])
	assert.NotContains(t, out.HTML, "<picture>")
	assert.Contains(t, out.HTML, `<img src="scan.jpg" alt="Old scan">`)
}

func TestProcess_ArticleWithoutImages(t *testing.T) {
	p := newPipeline(t, nil)

	article := &domain.Article{
		Slug: "words",
		Body: "Just *prose*.\n",
	}

	out, err := p.Process(context.Background(), article, t.TempDir(), false)
	require.NoError(t, err)

	assert.Empty(t, out.Images)
	assert.Contains(t, out.HTML, "<em>prose</em>")
}
