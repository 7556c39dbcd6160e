package domain

import "path/filepath"

const (
	// FstopDirName is the name of the internal metadata directory.
	FstopDirName = ".fstop"

	// CacheFileName is the name of the persisted image cache document.
	CacheFileName = "images.json"

	// SiteFileName is the name of the site configuration file.
	SiteFileName = "site.yaml"

	// ArticleFileName is the Markdown file expected in every article
	// directory.
	ArticleFileName = "index.md"

	// DefaultContentDir is the directory scanned for articles.
	DefaultContentDir = "content"

	// DefaultOutputDir is the directory the site is emitted into.
	DefaultOutputDir = "public"

	// DefaultStaticDir holds site-wide assets copied through unchanged.
	DefaultStaticDir = "static"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the image cache location relative to the site
// root. It joins .fstop and images.json.
func DefaultCachePath() string {
	return filepath.Join(FstopDirName, CacheFileName)
}
