package ports

import "go.fstop.ch/fstop/internal/core/domain"

// ConfigLoader defines the interface for loading the site configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads site.yaml starting from the given working directory,
	// walking up until it finds one, and returns the resolved site
	// configuration with defaults applied.
	Load(cwd string) (*domain.Site, error)
}
