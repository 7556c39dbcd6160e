package domain

import "go.trai.ch/zerr"

var (
	// ErrProbeFailed is returned when the intrinsic dimensions of a source
	// image cannot be determined.
	ErrProbeFailed = zerr.New("failed to probe image dimensions")

	// ErrConversionFailed is returned when an external conversion
	// invocation fails.
	ErrConversionFailed = zerr.New("image conversion failed")

	// ErrConverterUnavailable is returned when no usable conversion tool
	// can be found.
	ErrConverterUnavailable = zerr.New("image conversion tool not available")

	// ErrUnsupportedFormat is returned when a converter cannot produce the
	// requested output format.
	ErrUnsupportedFormat = zerr.New("output format not supported by converter")

	// ErrCacheMarshalFailed is returned when the image cache cannot be
	// marshaled for persistence.
	ErrCacheMarshalFailed = zerr.New("failed to marshal image cache")

	// ErrCacheWriteFailed is returned when the image cache cannot be
	// written to disk.
	ErrCacheWriteFailed = zerr.New("failed to write image cache")

	// ErrConfigReadFailed is returned when site.yaml cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read site config")

	// ErrConfigParseFailed is returned when site.yaml cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse site config")

	// ErrContentScanFailed is returned when the content tree cannot be
	// enumerated. This is the one fatal error of a build.
	ErrContentScanFailed = zerr.New("failed to scan content directory")

	// ErrArticleReadFailed is returned when an article's index.md cannot
	// be read.
	ErrArticleReadFailed = zerr.New("failed to read article")

	// ErrFrontMatterParseFailed is returned when an article's front-matter
	// block is malformed.
	ErrFrontMatterParseFailed = zerr.New("failed to parse front matter")

	// ErrMarkdownRenderFailed is returned when Markdown cannot be rendered
	// to HTML.
	ErrMarkdownRenderFailed = zerr.New("failed to render markdown")

	// ErrOutputWriteFailed is returned when a build artifact cannot be
	// written to the output directory.
	ErrOutputWriteFailed = zerr.New("failed to write output file")

	// ErrSourceCopyFailed is returned when the verbatim copy of a source
	// image fails during the degrade path.
	ErrSourceCopyFailed = zerr.New("failed to copy source image")

	// ErrBuildFailed is returned when the build cannot produce the site.
	ErrBuildFailed = zerr.New("build failed")
)
