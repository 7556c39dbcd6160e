package ports

import "go.fstop.ch/fstop/internal/core/domain"

// ImageCache is the persisted image-variant cache. One instance is loaded
// at build start and owned by that build; Put calls are serialized by the
// implementation so concurrent generators stay single-writer.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ImageCache interface {
	// Get returns the entry for (slug, filename), or false when the image
	// has never been processed. It never fails.
	Get(slug, filename string) (*domain.ImageEntry, bool)

	// Put merges the entry into the in-memory document and immediately
	// flushes the whole document to disk. A flush failure is reported so
	// the caller can warn, but the in-memory state is always updated;
	// durability is best effort, not transactional.
	Put(slug, filename string, entry *domain.ImageEntry) error
}
