package fsstore

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/chartcache/internal/adapters/config" //nolint:depguard // Store root comes from config
	"go.trai.ch/chartcache/internal/core/domain"
)

// NodeID is the unique identifier for the filesystem snapshot store Graft node.
const NodeID graft.ID = "adapter.fs_store"

func init() {
	graft.Register(graft.Node[*Store]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (*Store, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			dir := cfg.StorePath
			if cfg.StoreBackend != domain.BackendFS || dir == "" {
				dir = filepath.Join(cfg.Root, domain.DefaultSnapshotDir())
			}
			return NewOS(dir), nil
		},
	})
}
