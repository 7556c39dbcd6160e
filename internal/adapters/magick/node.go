package magick

import (
	"context"

	"github.com/grindlemire/graft"
	"go.fstop.ch/fstop/internal/adapters/logger"
	"go.fstop.ch/fstop/internal/adapters/native"
	"go.fstop.ch/fstop/internal/core/ports"
)

// NodeID is the unique identifier for the converter Graft node.
const NodeID graft.ID = "adapter.converter"

func init() {
	graft.Register(graft.Node[ports.Converter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Converter, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			conv, err := NewConverter()
			if err != nil {
				// NewConverter only fails when magick is not on PATH.
				log.Warn("magick not found on PATH, using built-in JPEG-only converter")
				return native.NewConverter(), nil
			}
			return conv, nil
		},
	})
}
