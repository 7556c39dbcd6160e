package content

import (
	"context"

	"github.com/grindlemire/graft"
	"go.fstop.ch/fstop/internal/adapters/logger"
	"go.fstop.ch/fstop/internal/core/ports"
)

// NodeID is the unique identifier for the content scanner Graft node.
const NodeID graft.ID = "adapter.content_scanner"

func init() {
	graft.Register(graft.Node[ports.ContentScanner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ContentScanner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewScanner(log), nil
		},
	})
}
