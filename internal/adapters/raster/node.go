package raster

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/chartcache/internal/adapters/fonts"
	"go.trai.ch/chartcache/internal/core/ports"
)

// NodeID is the unique identifier for the rasterizer Graft node.
const NodeID graft.ID = "adapter.rasterizer"

func init() {
	graft.Register(graft.Node[ports.Rasterizer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fonts.NodeID},
		Run: func(ctx context.Context) (ports.Rasterizer, error) {
			fontSource, err := graft.Dep[ports.FontSource](ctx)
			if err != nil {
				return nil, err
			}
			return New(fontSource), nil
		},
	})
}
