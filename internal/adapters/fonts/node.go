package fonts

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/chartcache/internal/adapters/config" //nolint:depguard // Font list comes from config
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
)

// NodeID is the unique identifier for the font registry Graft node.
const NodeID graft.ID = "adapter.fonts"

func init() {
	graft.Register(graft.Node[ports.FontSource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.FontSource, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewRegistry(cfg.Fonts...), nil
		},
	})
}
