package domain

// Quality holds the per-format encoder quality settings.
type Quality struct {
	JPEG int
	WebP int
	AVIF int
}

// Site is the resolved build configuration: site metadata plus the knobs
// driving variant generation. Produced by the config loader with defaults
// filled in, then treated as read-only.
type Site struct {
	Title       string
	Description string
	BaseURL     string
	Author      string

	// Root is the absolute path of the site directory (where site.yaml
	// and the content tree live).
	Root string

	ContentDir string
	OutputDir  string
	StaticDir  string

	// Widths is the target-width ladder considered for every image.
	Widths []int

	Quality Quality

	// FeedLimit caps the number of items emitted into the RSS feed.
	FeedLimit int
}

// DefaultWidths is the target-width ladder used when site.yaml does not
// override it.
var DefaultWidths = []int{960, 1100, 1440, 2200}

// DefaultQuality returns the encoder settings used when unconfigured.
func DefaultQuality() Quality {
	return Quality{JPEG: 82, WebP: 80, AVIF: 60}
}
