// Package native implements a pure-Go fallback converter used when the
// ImageMagick tools are not installed. It can only encode JPEG, so modern
// formats fail with ErrUnsupportedFormat and get healed by a later build
// once the external tool is available.
package native

import (
	"context"
	"image"
	"image/jpeg"
	"os"

	// Register the source decoders the content tree may contain.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/core/ports"
	"go.trai.ch/zerr"
)

// Converter resizes with x/image CatmullRom and encodes JPEG.
type Converter struct{}

// NewConverter creates a new native Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Identify decodes only the image header to read dimensions.
func (c *Converter) Identify(_ context.Context, path string) (domain.Dimensions, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the scanned content tree
	if err != nil {
		return domain.Dimensions{}, zerr.With(zerr.Wrap(err, domain.ErrProbeFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only close

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return domain.Dimensions{}, zerr.With(zerr.Wrap(err, domain.ErrProbeFailed.Error()), "path", path)
	}

	return domain.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// Convert produces a resized JPEG. Requests for WebP or AVIF fail with
// ErrUnsupportedFormat wrapped as a conversion failure.
func (c *Converter) Convert(_ context.Context, req ports.ConvertRequest) error {
	if req.Format != domain.FormatJPEG {
		err := zerr.Wrap(domain.ErrUnsupportedFormat, domain.ErrConversionFailed.Error())
		return zerr.With(err, "format", string(req.Format))
	}

	f, err := os.Open(req.Source) //nolint:gosec // path comes from the scanned content tree
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConversionFailed.Error()), "source", req.Source)
	}
	defer f.Close() //nolint:errcheck // read-only close

	src, _, err := image.Decode(f)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConversionFailed.Error()), "source", req.Source)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if req.Width < w {
		newH := h * req.Width / w
		dst := image.NewRGBA(image.Rect(0, 0, req.Width, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	out, err := os.Create(req.Dest) //nolint:gosec // dest is inside the build output dir
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConversionFailed.Error()), "dest", req.Dest)
	}

	if err := jpeg.Encode(out, src, &jpeg.Options{Quality: req.Quality}); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrConversionFailed.Error()), "dest", req.Dest)
	}

	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConversionFailed.Error()), "dest", req.Dest)
	}
	return nil
}
