// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.fstop.ch/fstop/internal/adapters/config"
	_ "go.fstop.ch/fstop/internal/adapters/content"
	_ "go.fstop.ch/fstop/internal/adapters/logger"
	_ "go.fstop.ch/fstop/internal/adapters/magick"
	// Register app nodes.
	_ "go.fstop.ch/fstop/internal/app"
)
