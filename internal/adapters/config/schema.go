package config

// Sitefile represents the structure of the site.yaml configuration file.
type Sitefile struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"baseURL"`
	Author      string `yaml:"author"`

	ContentDir string `yaml:"contentDir"`
	OutputDir  string `yaml:"outputDir"`
	StaticDir  string `yaml:"staticDir"`

	Images ImagesDTO `yaml:"images"`

	FeedLimit int `yaml:"feedLimit"`
}

// ImagesDTO configures variant generation.
type ImagesDTO struct {
	Widths  []int      `yaml:"widths"`
	Quality QualityDTO `yaml:"quality"`
}

// QualityDTO holds per-format encoder quality.
type QualityDTO struct {
	JPEG int `yaml:"jpeg"`
	WebP int `yaml:"webp"`
	AVIF int `yaml:"avif"`
}
