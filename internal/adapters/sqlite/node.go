package sqlite

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/chartcache/internal/adapters/config" //nolint:depguard // Store path comes from config
	"go.trai.ch/chartcache/internal/core/domain"
)

// NodeID is the unique identifier for the SQLite snapshot store Graft node.
const NodeID graft.ID = "adapter.sqlite_store"

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
			path := cfg.StorePath
			if cfg.StoreBackend != domain.BackendSQLite || path == "" {
				path = filepath.Join(cfg.Root, domain.DefaultSQLitePath())
			}
			// Opening is deferred to first use.
			return Open(path), nil
		},
	})
}
