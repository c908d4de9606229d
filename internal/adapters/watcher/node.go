package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/chartcache/internal/adapters/logger"
	"go.trai.ch/chartcache/internal/core/ports"
)

// NodeID is the unique identifier for the watcher factory Graft node.
const NodeID graft.ID = "adapter.watcher"

// Factory creates a fresh watcher. Watchers hold OS resources, so they are
// only created by the commands that need one.
type Factory func() (ports.Watcher, error)

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (Factory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func() (ports.Watcher, error) {
				return New(log)
			}, nil
		},
	})
}
