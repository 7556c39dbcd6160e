package domain

import "time"

// ManifestVersion is the schema version written to the cache document.
const ManifestVersion = "1"

// Manifest is the persisted image cache document: one entry per source
// image across the whole site, keyed by ImageKey. It is loaded once per
// build, mutated in memory, and flushed after every mutation.
type Manifest struct {
	Version     string                 `json:"version"`
	LastUpdated time.Time              `json:"lastUpdated"`
	Images      map[string]*ImageEntry `json:"images"`
}

// NewManifest returns an empty manifest at the current schema version.
func NewManifest() *Manifest {
	return &Manifest{
		Version: ManifestVersion,
		Images:  make(map[string]*ImageEntry),
	}
}

// ImageKey identifies one source image's cache entry.
func ImageKey(slug, filename string) string {
	return "articles/" + slug + "/" + filename
}

// Entry looks up the cached state for one source image.
func (m *Manifest) Entry(slug, filename string) (*ImageEntry, bool) {
	e, ok := m.Images[ImageKey(slug, filename)]
	return e, ok
}

// Merge folds an updated entry into the manifest. Top-level fields are
// overwritten; the variants map is merged width by width (and format by
// format within a width) so renditions absent from the update survive.
func (m *Manifest) Merge(slug, filename string, entry *ImageEntry) {
	key := ImageKey(slug, filename)
	existing, ok := m.Images[key]
	if !ok {
		m.Images[key] = entry
		return
	}

	// The merged maps are fresh copies; neither the caller's entry nor
	// the previous manifest entry is written through.
	merged := *entry
	merged.Variants = copyVariants(entry.Variants)
	for width, formats := range existing.Variants {
		dst, ok := merged.Variants[width]
		if !ok {
			if merged.Variants == nil {
				merged.Variants = make(map[int]FormatSet, len(existing.Variants))
			}
			merged.Variants[width] = copyFormatSet(formats)
			continue
		}
		for format, vf := range formats {
			if dst[format] == nil {
				dst[format] = vf
			}
		}
	}
	if merged.Original == nil {
		merged.Original = existing.Original
	}
	m.Images[key] = &merged
}

func copyVariants(variants map[int]FormatSet) map[int]FormatSet {
	if variants == nil {
		return nil
	}
	out := make(map[int]FormatSet, len(variants))
	for width, formats := range variants {
		out[width] = copyFormatSet(formats)
	}
	return out
}

func copyFormatSet(formats FormatSet) FormatSet {
	out := make(FormatSet, len(formats))
	for format, vf := range formats {
		out[format] = vf
	}
	return out
}
