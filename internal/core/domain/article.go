package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Article is one Markdown document plus its co-located images, identified
// by the name of the directory it lives in. Articles are built by scanning
// the content tree once at build start and are immutable for the build.
type Article struct {
	// Slug is the directory name, used in URLs and cache keys.
	Slug string

	Title    string
	Date     time.Time
	Summary  string
	Draft    bool
	Featured string

	// Body is the Markdown source without the front-matter block.
	Body string

	// Dir is the absolute path of the article's source directory.
	Dir string

	// Images are the raster image filenames found next to index.md.
	Images []string

	// Assets are co-located files that are neither markdown nor raster
	// images and get copied through unchanged.
	Assets []string
}

// HasImage reports whether the named file is one of the article's images.
func (a *Article) HasImage(name string) bool {
	for _, img := range a.Images {
		if img == name {
			return true
		}
	}
	return false
}

// RepresentativeImage picks the image used for RSS enclosures and social
// metadata: the featured image when declared and present, otherwise the
// first image in directory order. Empty when the article has no images.
func (a *Article) RepresentativeImage() string {
	if a.Featured != "" && a.HasImage(a.Featured) {
		return a.Featured
	}
	if len(a.Images) > 0 {
		return a.Images[0]
	}
	return ""
}

// IsRasterImage reports whether the filename has a supported source
// image extension.
func IsRasterImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}
