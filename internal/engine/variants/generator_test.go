package variants_test

import (
	"context"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.fstop.ch/fstop/internal/adapters/native"
	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/core/ports"
	"go.fstop.ch/fstop/internal/core/ports/mocks"
	"go.fstop.ch/fstop/internal/engine/variants"
	"go.uber.org/mock/gomock"
)

var testLadder = []int{960, 1100, 1440, 2200}

func newGenerator(t *testing.T, ctrl *gomock.Controller) (*variants.Generator, *mocks.MockConverter, *mocks.MockImageCache) {
	t.Helper()
	conv := mocks.NewMockConverter(ctrl)
	cache := mocks.NewMockImageCache(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	gen := variants.NewGenerator(conv, cache, logger, testLadder, domain.DefaultQuality())
	return gen, conv, cache
}

// writeTestJPEG writes a real JPEG so the degrade path can probe and copy it.
func writeTestJPEG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	require.NoError(t, jpeg.Encode(f, img, nil))
	return path
}

func completeEntry(widths []int) *domain.ImageEntry {
	v := make(map[int]domain.FormatSet, len(widths))
	for _, w := range widths {
		set := domain.FormatSet{}
		for _, f := range domain.OutputFormats() {
			set[f] = &domain.VariantFile{Filename: domain.VariantFilename("camel.jpg", w, f), Width: w}
		}
		v[w] = set
	}
	return &domain.ImageEntry{
		Original:     &domain.Dimensions{Width: 3000, Height: 2000},
		Variants:     v,
		LargestWidth: widths[len(widths)-1],
		Processed:    true,
	}
}

func TestEnsure_CompleteEntrySkipsConverter(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen, _, cache := newGenerator(t, ctrl)

	cache.EXPECT().Get("dunes", "camel.jpg").Return(completeEntry(testLadder), true)
	// No Identify, no Convert, no Put.

	result, status, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "camel.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, variants.StatusCached, status)
	assert.Equal(t, 2200, result.LargestWidth)
	assert.Equal(t, "camel-2200.jpg", result.LargestFilename)
}

func TestEnsure_FallbackEntryIsSticky(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen, _, cache := newGenerator(t, ctrl)

	cache.EXPECT().Get("dunes", "camel.jpg").Return(&domain.ImageEntry{
		Original:  &domain.Dimensions{Width: 800, Height: 600},
		Processed: true,
	}, true)

	result, status, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "camel.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, variants.StatusCached, status)
	assert.Empty(t, result.Variants)
	assert.Equal(t, "camel.jpg", result.LargestFilename)
	assert.Equal(t, 800, result.LargestWidth)
}

func TestEnsure_GeneratesFullMatrix(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen, conv, cache := newGenerator(t, ctrl)
	destDir := t.TempDir()

	cache.EXPECT().Get("dunes", "camel.jpg").Return(nil, false)
	conv.EXPECT().Identify(gomock.Any(), "src/camel.jpg").
		Return(domain.Dimensions{Width: 3000, Height: 2000}, nil)
	// 4 widths x 3 formats.
	conv.EXPECT().Convert(gomock.Any(), gomock.Any()).Return(nil).Times(12)

	var put *domain.ImageEntry
	cache.EXPECT().Put("dunes", "camel.jpg", gomock.Any()).
		DoAndReturn(func(_, _ string, e *domain.ImageEntry) error {
			put = e
			return nil
		})

	result, status, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "camel.jpg", SourcePath: "src/camel.jpg", DestDir: destDir,
	})

	require.NoError(t, err)
	assert.Equal(t, variants.StatusGenerated, status)
	assert.Equal(t, 2200, result.LargestWidth)
	assert.Equal(t, "camel-2200.jpg", result.LargestFilename)
	assert.Len(t, result.Variants, 4)

	require.NotNil(t, put)
	assert.True(t, put.Processed)
	assert.True(t, put.Complete(testLadder))
	assert.Equal(t, 2200, put.LargestWidth)
	// Height scales with the aspect ratio of the original.
	assert.Equal(t, 640, put.Variant(960, domain.FormatJPEG).Height)
}

func TestEnsure_CreatesDestinationDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen, conv, cache := newGenerator(t, ctrl)
	// The article's output directory does not exist before the first build.
	destDir := filepath.Join(t.TempDir(), "public", "dunes")

	cache.EXPECT().Get("dunes", "camel.jpg").Return(nil, false)
	conv.EXPECT().Identify(gomock.Any(), "src/camel.jpg").
		Return(domain.Dimensions{Width: 3000, Height: 2000}, nil)
	conv.EXPECT().Convert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cr ports.ConvertRequest) error {
			// A real converter fails with ENOENT if the directory is missing.
			return os.WriteFile(cr.Dest, []byte("x"), 0o600)
		}).Times(12)
	cache.EXPECT().Put("dunes", "camel.jpg", gomock.Any()).Return(nil)

	result, status, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "camel.jpg", SourcePath: "src/camel.jpg", DestDir: destDir,
	})

	require.NoError(t, err)
	assert.Equal(t, variants.StatusGenerated, status)
	assert.Len(t, result.Variants, 4)
	assert.FileExists(t, filepath.Join(destDir, "camel-960.jpg"))
	assert.FileExists(t, filepath.Join(destDir, "camel-2200.avif"))
}

func TestEnsure_FreshTreeWithNativeConverter(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockImageCache(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	gen := variants.NewGenerator(native.NewConverter(), cache, logger, testLadder, domain.DefaultQuality())

	src := writeTestJPEG(t, t.TempDir(), "camel.jpg", 1200, 800)
	destDir := filepath.Join(t.TempDir(), "public", "dunes")

	cache.EXPECT().Get("dunes", "camel.jpg").Return(nil, false)
	var put *domain.ImageEntry
	cache.EXPECT().Put("dunes", "camel.jpg", gomock.Any()).
		DoAndReturn(func(_, _ string, e *domain.ImageEntry) error {
			put = e
			return nil
		})

	result, status, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "camel.jpg", SourcePath: src, DestDir: destDir,
	})

	// The JPEG ladder is produced even though WebP and AVIF are declined.
	require.NoError(t, err)
	assert.Equal(t, variants.StatusGenerated, status)
	assert.FileExists(t, filepath.Join(destDir, "camel-960.jpg"))
	assert.FileExists(t, filepath.Join(destDir, "camel-1100.jpg"))
	assert.Equal(t, 1100, result.LargestWidth)
	assert.Equal(t, "camel-1100.jpg", result.LargestFilename)

	require.NotNil(t, put)
	assert.False(t, put.Fallback())
	assert.NotNil(t, put.Variant(960, domain.FormatJPEG))
	assert.Nil(t, put.Variant(960, domain.FormatWebP))
}

func TestEnsure_NarrowSourceGetsSingleWidth(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen, conv, cache := newGenerator(t, ctrl)

	cache.EXPECT().Get("dunes", "small.jpg").Return(nil, false)
	conv.EXPECT().Identify(gomock.Any(), gomock.Any()).
		Return(domain.Dimensions{Width: 500, Height: 400}, nil)

	var reqs []ports.ConvertRequest
	conv.EXPECT().Convert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r ports.ConvertRequest) error {
			reqs = append(reqs, r)
			return nil
		}).Times(3)
	cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	result, status, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "small.jpg", SourcePath: "src/small.jpg", DestDir: t.TempDir(),
	})

	require.NoError(t, err)
	assert.Equal(t, variants.StatusGenerated, status)
	assert.Equal(t, 500, result.LargestWidth)
	for _, r := range reqs {
		assert.Equal(t, 500, r.Width)
	}
}

func TestEnsure_HealsOnlyMissingRenditions(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen, conv, cache := newGenerator(t, ctrl)

	entry := completeEntry(testLadder)
	delete(entry.Variants[1440], domain.FormatAVIF)

	cache.EXPECT().Get("dunes", "camel.jpg").Return(entry, true)
	conv.EXPECT().Identify(gomock.Any(), gomock.Any()).
		Return(domain.Dimensions{Width: 3000, Height: 2000}, nil)

	// Exactly the one missing pair is converted.
	conv.EXPECT().Convert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r ports.ConvertRequest) error {
			assert.Equal(t, 1440, r.Width)
			assert.Equal(t, domain.FormatAVIF, r.Format)
			return nil
		})
	cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, status, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "camel.jpg", SourcePath: "src/camel.jpg", DestDir: t.TempDir(),
	})

	require.NoError(t, err)
	assert.Equal(t, variants.StatusGenerated, status)
}

func TestEnsure_ForceRegeneratesEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen, conv, cache := newGenerator(t, ctrl)

	cache.EXPECT().Get("dunes", "camel.jpg").Return(completeEntry(testLadder), true)
	conv.EXPECT().Identify(gomock.Any(), gomock.Any()).
		Return(domain.Dimensions{Width: 3000, Height: 2000}, nil)
	conv.EXPECT().Convert(gomock.Any(), gomock.Any()).Return(nil).Times(12)
	cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, status, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "camel.jpg", SourcePath: "src/camel.jpg",
		DestDir: t.TempDir(), Force: true,
	})

	require.NoError(t, err)
	assert.Equal(t, variants.StatusGenerated, status)
}

func TestEnsure_ProbeFailureDegradesToCopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen, conv, cache := newGenerator(t, ctrl)

	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writeTestJPEG(t, srcDir, "broken.jpg", 640, 480)

	cache.EXPECT().Get("dunes", "broken.jpg").Return(nil, false)
	conv.EXPECT().Identify(gomock.Any(), src).
		Return(domain.Dimensions{}, errors.New("identify exploded"))

	var put *domain.ImageEntry
	cache.EXPECT().Put("dunes", "broken.jpg", gomock.Any()).
		DoAndReturn(func(_, _ string, e *domain.ImageEntry) error {
			put = e
			return nil
		})

	result, status, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "broken.jpg", SourcePath: src, DestDir: destDir,
	})

	require.NoError(t, err)
	assert.Equal(t, variants.StatusDegraded, status)
	assert.Equal(t, "broken.jpg", result.LargestFilename)
	assert.Empty(t, result.Variants)
	assert.FileExists(t, filepath.Join(destDir, "broken.jpg"))

	require.NotNil(t, put)
	assert.True(t, put.Processed)
	assert.True(t, put.Fallback())
	// Dimensions recovered by the local header probe.
	require.NotNil(t, put.Original)
	assert.Equal(t, 640, put.Original.Width)
}

func TestEnsure_AllConversionsFailedDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen, conv, cache := newGenerator(t, ctrl)

	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writeTestJPEG(t, srcDir, "stubborn.jpg", 3000, 2000)

	cache.EXPECT().Get("dunes", "stubborn.jpg").Return(nil, false)
	conv.EXPECT().Identify(gomock.Any(), src).
		Return(domain.Dimensions{Width: 3000, Height: 2000}, nil)
	conv.EXPECT().Convert(gomock.Any(), gomock.Any()).
		Return(errors.New("convert exploded")).Times(12)
	cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	result, status, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "stubborn.jpg", SourcePath: src, DestDir: destDir,
	})

	require.NoError(t, err)
	assert.Equal(t, variants.StatusDegraded, status)
	assert.Equal(t, "stubborn.jpg", result.LargestFilename)
	assert.FileExists(t, filepath.Join(destDir, "stubborn.jpg"))
}

func TestEnsure_PartialFailureKeepsSuccesses(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen, conv, cache := newGenerator(t, ctrl)

	cache.EXPECT().Get("dunes", "flaky.jpg").Return(nil, false)
	conv.EXPECT().Identify(gomock.Any(), gomock.Any()).
		Return(domain.Dimensions{Width: 1000, Height: 800}, nil)

	// AVIF fails, JPEG and WebP succeed.
	conv.EXPECT().Convert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r ports.ConvertRequest) error {
			if r.Format == domain.FormatAVIF {
				return errors.New("encoder missing")
			}
			return nil
		}).Times(3)

	var put *domain.ImageEntry
	cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_, _ string, e *domain.ImageEntry) error {
			put = e
			return nil
		})

	result, status, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "flaky.jpg", SourcePath: "src/flaky.jpg", DestDir: t.TempDir(),
	})

	require.NoError(t, err)
	assert.Equal(t, variants.StatusGenerated, status)
	assert.Equal(t, "flaky-960.jpg", result.LargestFilename)

	// Next run only needs the missing rendition, not a redo.
	require.NotNil(t, put)
	assert.True(t, put.HasVariant(960, domain.FormatJPEG))
	assert.True(t, put.HasVariant(960, domain.FormatWebP))
	assert.False(t, put.HasVariant(960, domain.FormatAVIF))
	assert.False(t, put.Complete(testLadder))
}

func TestEnsure_CachePutFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen, conv, cache := newGenerator(t, ctrl)

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false)
	conv.EXPECT().Identify(gomock.Any(), gomock.Any()).
		Return(domain.Dimensions{Width: 1000, Height: 800}, nil)
	conv.EXPECT().Convert(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("disk full"))

	_, status, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "fine.jpg", SourcePath: "src/fine.jpg", DestDir: t.TempDir(),
	})

	require.NoError(t, err)
	assert.Equal(t, variants.StatusGenerated, status)
}

func TestEnsure_QualityPerFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	conv := mocks.NewMockConverter(ctrl)
	cache := mocks.NewMockImageCache(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	gen := variants.NewGenerator(conv, cache, logger, []int{960},
		domain.Quality{JPEG: 82, WebP: 80, AVIF: 60})

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false)
	conv.EXPECT().Identify(gomock.Any(), gomock.Any()).
		Return(domain.Dimensions{Width: 2000, Height: 1000}, nil)

	quality := map[domain.Format]int{}
	conv.EXPECT().Convert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r ports.ConvertRequest) error {
			quality[r.Format] = r.Quality
			assert.True(t, r.StripMetadata)
			return nil
		}).Times(3)
	cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, _, err := gen.Ensure(context.Background(), variants.Request{
		Slug: "dunes", Filename: "q.jpg", SourcePath: "src/q.jpg", DestDir: t.TempDir(),
	})

	require.NoError(t, err)
	assert.Equal(t, map[domain.Format]int{
		domain.FormatJPEG: 82,
		domain.FormatWebP: 80,
		domain.FormatAVIF: 60,
	}, quality)
}
