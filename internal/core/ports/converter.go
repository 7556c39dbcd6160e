// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.fstop.ch/fstop/internal/core/domain"
)

// ConvertRequest describes one derived file to produce: one source, one
// destination, one width, one format. All external-process concerns live
// behind this boundary; nothing else in the system builds command strings.
type ConvertRequest struct {
	Source  string
	Dest    string
	Width   int
	Format  domain.Format
	Quality int

	// StripMetadata removes EXIF/XMP blocks from the output.
	StripMetadata bool
}

// Converter is the raster conversion adapter.
//
//go:generate mockgen -source=converter.go -destination=mocks/mock_converter.go -package=mocks
type Converter interface {
	// Identify probes the intrinsic dimensions of a source file. It fails
	// with domain.ErrProbeFailed when the tool is unavailable or the file
	// is unreadable; callers catch that and degrade to a verbatim copy.
	Identify(ctx context.Context, path string) (domain.Dimensions, error)

	// Convert produces exactly one derived file. It fails with
	// domain.ErrConversionFailed on tool failure or timeout and never
	// retries internally; retry and fallback policy belongs to callers.
	// Re-invocation overwrites the destination.
	Convert(ctx context.Context, req ConvertRequest) error
}
