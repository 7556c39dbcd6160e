package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Format identifies one output encoding for a generated image variant.
type Format string

const (
	// FormatJPEG is the full-fidelity fallback format every browser understands.
	FormatJPEG Format = "jpeg"
	// FormatWebP is the first modern lossy format.
	FormatWebP Format = "webp"
	// FormatAVIF is the second modern lossy format.
	FormatAVIF Format = "avif"
)

// OutputFormats lists the formats generated for every variant width,
// full-fidelity first.
func OutputFormats() []Format {
	return []Format{FormatJPEG, FormatWebP, FormatAVIF}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatWebP:
		return ".webp"
	case FormatAVIF:
		return ".avif"
	}
	return "." + string(f)
}

// MIME returns the media type used in <source type=...> attributes.
func (f Format) MIME() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	case FormatAVIF:
		return "image/avif"
	}
	return "application/octet-stream"
}

// Dimensions holds the pixel size of an image.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// VariantFile describes one generated rendition on disk.
// Width and Height are recorded for raster formats only.
type VariantFile struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// FormatSet maps an output format to its generated file for one width.
// A missing key means that rendition has not been generated yet.
type FormatSet map[Format]*VariantFile

// ImageEntry is the cached derived state of one source image.
type ImageEntry struct {
	// Original holds the intrinsic dimensions of the untouched source.
	// Nil means the source was never probed successfully.
	Original *Dimensions `json:"original,omitempty"`

	// Variants maps a generated width to its per-format files.
	Variants map[int]FormatSet `json:"variants,omitempty"`

	// LargestWidth is the maximum generated width, kept so downstream
	// consumers never have to re-probe the source.
	LargestWidth int `json:"largestWidth,omitempty"`

	// Size is the byte size of the largest full-fidelity file.
	Size int64 `json:"size,omitempty"`

	LastModified time.Time `json:"lastModified"`

	// Processed marks the image as handled, including the degraded case
	// where the source was copied verbatim and Variants stays empty.
	Processed bool `json:"processed"`
}

// Variant returns the file generated for the given width and format,
// or nil if that rendition does not exist in the entry.
func (e *ImageEntry) Variant(width int, format Format) *VariantFile {
	if e == nil || e.Variants == nil {
		return nil
	}
	return e.Variants[width][format]
}

// HasVariant reports whether the given (width, format) rendition exists.
// This is the single skip predicate used by the generator; a width with
// only some formats present is "needs completion", not "done".
func (e *ImageEntry) HasVariant(width int, format Format) bool {
	return e.Variant(width, format) != nil
}

// widthComplete reports whether every output format exists for the width.
func (e *ImageEntry) widthComplete(width int) bool {
	for _, f := range OutputFormats() {
		if !e.HasVariant(width, f) {
			return false
		}
	}
	return true
}

// Complete reports whether the entry already covers the full width × format
// matrix the ladder demands for this source. It is answerable from cached
// data alone, so the unchanged-rebuild fast path costs zero converter calls.
func (e *ImageEntry) Complete(ladder []int) bool {
	if e == nil || e.Original == nil || len(e.Variants) == 0 {
		return false
	}
	for _, w := range ApplicableWidths(ladder, e.Original.Width) {
		if !e.widthComplete(w) {
			return false
		}
	}
	return true
}

// Fallback reports whether the image was handled by the copy-as-is degrade
// path: processed, probed, but without any variants.
func (e *ImageEntry) Fallback() bool {
	return e != nil && e.Processed && len(e.Variants) == 0
}

// SortedWidths returns the generated widths in ascending order.
func (e *ImageEntry) SortedWidths() []int {
	if e == nil {
		return nil
	}
	widths := make([]int, 0, len(e.Variants))
	for w := range e.Variants {
		widths = append(widths, w)
	}
	slices.Sort(widths)
	return widths
}

// ApplicableWidths intersects the configured ladder with widths that do not
// upscale the source. When the source is narrower than every ladder step,
// the source's own width is the only target.
func ApplicableWidths(ladder []int, intrinsic int) []int {
	widths := make([]int, 0, len(ladder))
	for _, w := range ladder {
		if w <= intrinsic {
			widths = append(widths, w)
		}
	}
	if len(widths) == 0 {
		return []int{intrinsic}
	}
	slices.Sort(widths)
	return widths
}

// VariantFilename names a derived file as <basename>-<width>.<ext>.
func VariantFilename(source string, width int, format Format) string {
	base := source
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return fmt.Sprintf("%s-%d%s", base, width, format.Ext())
}

// VariantResult is what the generator hands back to the content pipeline.
// The shape is stable even for the fallback case, where Variants is empty
// and LargestFilename points at the verbatim copy.
type VariantResult struct {
	Variants        map[int]FormatSet
	LargestWidth    int
	LargestFilename string
}

// Srcset builds the width-descriptor candidate list for one format,
// smallest width first. Widths lacking that format are left out.
func (r *VariantResult) Srcset(format Format) string {
	widths := make([]int, 0, len(r.Variants))
	for w := range r.Variants {
		widths = append(widths, w)
	}
	slices.Sort(widths)

	var sb strings.Builder
	for _, w := range widths {
		vf := r.Variants[w][format]
		if vf == nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s %dw", vf.Filename, w)
	}
	return sb.String()
}
