// Package variants converges each source image onto the target
// width × format matrix, doing the minimum work the cache allows.
package variants

import (
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	// Header decoders for the local dimension probe on the degrade path.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/core/ports"
	"go.trai.ch/zerr"
)

// Status reports how an image was resolved, for the build summary.
type Status string

const (
	// StatusCached means the cache fully satisfied the request.
	StatusCached Status = "cached"
	// StatusGenerated means at least one new file was produced.
	StatusGenerated Status = "generated"
	// StatusDegraded means the source was copied verbatim without variants.
	StatusDegraded Status = "degraded"
)

// Request identifies one source image and where its renditions go.
type Request struct {
	Slug       string
	Filename   string
	SourcePath string
	DestDir    string

	// Force bypasses every cache fast path and regenerates all pairs.
	Force bool
}

// Generator orchestrates the converter and the cache for single images.
type Generator struct {
	converter ports.Converter
	cache     ports.ImageCache
	logger    ports.Logger
	widths    []int
	quality   domain.Quality
}

// NewGenerator creates a Generator bound to one build's cache instance.
func NewGenerator(
	converter ports.Converter,
	cache ports.ImageCache,
	logger ports.Logger,
	widths []int,
	quality domain.Quality,
) *Generator {
	return &Generator{
		converter: converter,
		cache:     cache,
		logger:    logger,
		widths:    widths,
		quality:   quality,
	}
}

// Ensure makes the on-disk renditions and the cache entry for one image
// converge to the full matrix. It always returns a usable result; the
// error is non-nil only when even the verbatim-copy degrade path failed,
// and no error here is fatal to the build.
func (g *Generator) Ensure(ctx context.Context, req Request) (*domain.VariantResult, Status, error) {
	entry, ok := g.cache.Get(req.Slug, req.Filename)

	if !req.Force && ok {
		if entry.Complete(g.widths) {
			return resultFromEntry(entry), StatusCached, nil
		}
		if entry.Fallback() {
			// Degraded once already; stays a plain copy until --force.
			return fallbackResult(entry, req.Filename), StatusCached, nil
		}
	}

	dims, err := g.converter.Identify(ctx, req.SourcePath)
	if err != nil {
		g.logger.Warn("probe failed for " + req.Filename + ", copying source as-is")
		return g.degrade(req, nil)
	}

	targets := domain.ApplicableWidths(g.widths, dims.Width)

	// The converter writes straight into the article's output directory,
	// which does not exist yet on a fresh tree.
	if err := os.MkdirAll(req.DestDir, domain.DirPerm); err != nil {
		return &domain.VariantResult{}, StatusDegraded,
			zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
	}

	variants := make(map[int]domain.FormatSet, len(targets))
	var generated, attempted, failed int

	for _, width := range targets {
		formats := domain.FormatSet{}
		for _, format := range domain.OutputFormats() {
			if !req.Force {
				if vf := entry.Variant(width, format); vf != nil {
					formats[format] = vf
					continue
				}
			}

			attempted++
			vf, convErr := g.convertOne(ctx, req, dims, width, format)
			if convErr != nil {
				failed++
				g.logger.Warn("conversion failed: " + convErr.Error())
				continue
			}
			formats[format] = vf
			generated++
		}
		if len(formats) > 0 {
			variants[width] = formats
		}
	}

	if attempted > 0 && failed == attempted && len(variants) == 0 {
		// Every conversion failed and nothing usable pre-existed.
		return g.degrade(req, &dims)
	}

	result := resultFromVariants(variants)

	if generated == 0 {
		// Everything was already satisfied pair by pair; no cache write.
		return result, StatusCached, nil
	}

	updated := &domain.ImageEntry{
		Original:     &dims,
		Variants:     variants,
		LargestWidth: result.LargestWidth,
		Size:         largestSize(variants, result.LargestWidth),
		LastModified: time.Now().UTC(),
		Processed:    true,
	}
	if err := g.cache.Put(req.Slug, req.Filename, updated); err != nil {
		g.logger.Warn("image cache not persisted: " + err.Error())
	}

	return result, StatusGenerated, nil
}

func (g *Generator) convertOne(
	ctx context.Context,
	req Request,
	dims domain.Dimensions,
	width int,
	format domain.Format,
) (*domain.VariantFile, error) {
	name := domain.VariantFilename(req.Filename, width, format)
	dest := filepath.Join(req.DestDir, name)

	err := g.converter.Convert(ctx, ports.ConvertRequest{
		Source:        req.SourcePath,
		Dest:          dest,
		Width:         width,
		Format:        format,
		Quality:       g.qualityFor(format),
		StripMetadata: true,
	})
	if err != nil {
		return nil, err
	}

	vf := &domain.VariantFile{Filename: name, Width: width}
	if dims.Width > 0 {
		vf.Height = dims.Height * width / dims.Width
	}
	if info, statErr := os.Stat(dest); statErr == nil {
		vf.Size = info.Size()
	}
	return vf, nil
}

func (g *Generator) qualityFor(format domain.Format) int {
	switch format {
	case domain.FormatWebP:
		return g.quality.WebP
	case domain.FormatAVIF:
		return g.quality.AVIF
	default:
		return g.quality.JPEG
	}
}

// degrade copies the untouched source beside the article's output and
// records a minimal cache entry so future runs know the image was
// handled, just without responsive variants.
func (g *Generator) degrade(req Request, dims *domain.Dimensions) (*domain.VariantResult, Status, error) {
	if dims == nil {
		if d, err := probeLocal(req.SourcePath); err == nil {
			dims = &d
		}
	}

	if err := copyFile(req.SourcePath, filepath.Join(req.DestDir, req.Filename)); err != nil {
		return &domain.VariantResult{}, StatusDegraded, zerr.Wrap(err, domain.ErrSourceCopyFailed.Error())
	}

	entry := &domain.ImageEntry{
		Original:     dims,
		LastModified: time.Now().UTC(),
		Processed:    true,
	}
	if dims != nil {
		entry.LargestWidth = dims.Width
	}
	if info, err := os.Stat(req.SourcePath); err == nil {
		entry.Size = info.Size()
	}
	if err := g.cache.Put(req.Slug, req.Filename, entry); err != nil {
		g.logger.Warn("image cache not persisted: " + err.Error())
	}

	return fallbackResult(entry, req.Filename), StatusDegraded, nil
}

// probeLocal reads just the image header. It backs the degrade path when
// the external tool could not even report dimensions.
func probeLocal(path string) (domain.Dimensions, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the scanned content tree
	if err != nil {
		return domain.Dimensions{}, err
	}
	defer f.Close() //nolint:errcheck // read-only close

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return domain.Dimensions{}, err
	}
	return domain.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src) //nolint:gosec // path comes from the scanned content tree
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // read-only close

	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return err
	}

	out, err := os.Create(dest) //nolint:gosec // dest is inside the build output dir
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func resultFromEntry(entry *domain.ImageEntry) *domain.VariantResult {
	result := resultFromVariants(entry.Variants)
	if result.LargestWidth == 0 {
		result.LargestWidth = entry.LargestWidth
	}
	return result
}

func fallbackResult(entry *domain.ImageEntry, filename string) *domain.VariantResult {
	result := &domain.VariantResult{LargestFilename: filename}
	if entry.Original != nil {
		result.LargestWidth = entry.Original.Width
	}
	return result
}

func resultFromVariants(variants map[int]domain.FormatSet) *domain.VariantResult {
	result := &domain.VariantResult{Variants: variants}
	// The largest width may lack a full-fidelity file after a partial
	// failure, so the fallback filename comes from the largest width
	// that has one.
	best := 0
	for width, formats := range variants {
		if width > result.LargestWidth {
			result.LargestWidth = width
		}
		if vf := formats[domain.FormatJPEG]; vf != nil && width > best {
			best = width
			result.LargestFilename = vf.Filename
		}
	}
	return result
}

func largestSize(variants map[int]domain.FormatSet, largest int) int64 {
	if vf := variants[largest][domain.FormatJPEG]; vf != nil {
		return vf.Size
	}
	return 0
}
