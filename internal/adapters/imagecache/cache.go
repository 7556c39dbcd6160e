// Package imagecache persists the image-variant manifest as a single JSON
// document under the site's .fstop directory.
package imagecache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/core/ports"
	"go.trai.ch/zerr"
)

// Cache implements ports.ImageCache with write-through persistence.
// All mutation goes through a single mutex, so callers may generate
// variants concurrently and still get single-writer puts.
type Cache struct {
	mu       sync.Mutex
	path     string
	manifest *domain.Manifest
	logger   ports.Logger

	// memoryOnly is set after the first flush failure; the build then
	// keeps working against the in-memory document and the next build
	// redoes the lost work.
	memoryOnly bool
}

// Open loads the manifest at path. A missing file yields a fresh empty
// document; a corrupt one is logged and replaced by a fresh document.
// Opening never fails the build.
func Open(path string, logger ports.Logger) *Cache {
	c := &Cache{path: path, logger: logger}
	c.manifest = c.load()
	return c
}

func (c *Cache) load() *domain.Manifest {
	data, err := os.ReadFile(c.path) //nolint:gosec // path is the build's own cache file
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("image cache unreadable, starting fresh: " + err.Error())
		}
		return domain.NewManifest()
	}

	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		c.logger.Warn("image cache corrupt, starting fresh: " + err.Error())
		return domain.NewManifest()
	}
	if m.Images == nil {
		m.Images = make(map[string]*domain.ImageEntry)
	}
	return &m
}

// Get returns the entry for (slug, filename), or false when absent.
func (c *Cache) Get(slug, filename string) (*domain.ImageEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.manifest.Entry(slug, filename)
}

// Put merges the entry and flushes the whole document to disk. The
// in-memory state is updated regardless of flush outcome; a flush failure
// is returned once, after which the cache stays memory-only for the rest
// of the build.
func (c *Cache) Put(slug, filename string, entry *domain.ImageEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.manifest.Merge(slug, filename, entry)
	c.manifest.LastUpdated = time.Now().UTC()

	if c.memoryOnly {
		return nil
	}
	if err := c.flush(); err != nil {
		c.memoryOnly = true
		return err
	}
	return nil
}

func (c *Cache) flush() error {
	data, err := json.MarshalIndent(c.manifest, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())
	}

	if err := os.MkdirAll(filepath.Dir(c.path), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}

	if err := os.WriteFile(c.path, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}

	return nil
}
