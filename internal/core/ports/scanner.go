package ports

import "go.fstop.ch/fstop/internal/core/domain"

// ContentScanner enumerates the source tree into articles.
//
//go:generate mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type ContentScanner interface {
	// Scan reads every article directory under dir and returns the
	// articles sorted newest first. A scan failure is the single fatal
	// error of a build.
	Scan(dir string) ([]*domain.Article, error)
}
