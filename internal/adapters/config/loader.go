// Package config provides the site configuration loader.
package config

import (
	"os"
	"path/filepath"
	"slices"

	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load walks up from cwd looking for site.yaml and returns the resolved
// site configuration. When no file is found, the current directory is
// taken as the site root and defaults apply throughout.
func (l *Loader) Load(cwd string) (*domain.Site, error) {
	path, root, err := findSitefile(cwd)
	if err != nil {
		return nil, err
	}

	var sitefile Sitefile
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path found by walking up from cwd
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
		}
		if err := yaml.Unmarshal(data, &sitefile); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
		}
	} else {
		l.Logger.Warn(domain.SiteFileName + " not found, using defaults")
	}

	return resolve(root, sitefile), nil
}

// findSitefile walks up from cwd until it finds site.yaml or hits the
// filesystem root. It returns the file path (empty when absent) and the
// directory treated as the site root.
func findSitefile(cwd string) (path, root string, err error) {
	dir, err := filepath.Abs(cwd)
	if err != nil {
		return "", "", zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	start := dir
	for {
		candidate := filepath.Join(dir, domain.SiteFileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", start, nil
		}
		dir = parent
	}
}

func resolve(root string, s Sitefile) *domain.Site {
	site := &domain.Site{
		Title:       s.Title,
		Description: s.Description,
		BaseURL:     s.BaseURL,
		Author:      s.Author,
		Root:        root,
		ContentDir:  s.ContentDir,
		OutputDir:   s.OutputDir,
		StaticDir:   s.StaticDir,
		Quality: domain.Quality{
			JPEG: s.Images.Quality.JPEG,
			WebP: s.Images.Quality.WebP,
			AVIF: s.Images.Quality.AVIF,
		},
		FeedLimit: s.FeedLimit,
	}

	if site.Title == "" {
		site.Title = filepath.Base(root)
	}
	if site.ContentDir == "" {
		site.ContentDir = domain.DefaultContentDir
	}
	if site.OutputDir == "" {
		site.OutputDir = domain.DefaultOutputDir
	}
	if site.StaticDir == "" {
		site.StaticDir = domain.DefaultStaticDir
	}
	if site.FeedLimit == 0 {
		site.FeedLimit = 20
	}

	if len(s.Images.Widths) > 0 {
		site.Widths = slices.Clone(s.Images.Widths)
		slices.Sort(site.Widths)
	} else {
		site.Widths = slices.Clone(domain.DefaultWidths)
	}

	def := domain.DefaultQuality()
	if site.Quality.JPEG == 0 {
		site.Quality.JPEG = def.JPEG
	}
	if site.Quality.WebP == 0 {
		site.Quality.WebP = def.WebP
	}
	if site.Quality.AVIF == 0 {
		site.Quality.AVIF = def.AVIF
	}

	return site
}
