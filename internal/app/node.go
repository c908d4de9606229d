package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/chartcache/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/chartcache/internal/adapters/fsstore"   //nolint:depguard // Wired in app layer
	"go.trai.ch/chartcache/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/chartcache/internal/adapters/raster"    //nolint:depguard // Wired in app layer
	"go.trai.ch/chartcache/internal/adapters/sqlite"    //nolint:depguard // Wired in app layer
	"go.trai.ch/chartcache/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/chartcache/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// StoreNodeID is the unique identifier for the configured snapshot store Graft node.
	StoreNodeID graft.ID = "app.store"
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// Store Node
	graft.Register(graft.Node[ports.BlobStore]{
		ID:        StoreNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			sqlite.NodeID,
			fsstore.NodeID,
		},
		Run: runStoreNode,
	})

	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			StoreNodeID,
			raster.NodeID,
			logger.NodeID,
			config.SettingsNodeID,
			telemetry.TracerNodeID,
			telemetry.MetricsNodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			StoreNodeID,
			logger.NodeID,
			config.SettingsNodeID,
			telemetry.ProviderNodeID,
		},
		Run: runComponentsNode,
	})
}

func runStoreNode(ctx context.Context) (ports.BlobStore, error) {
	cfg, err := graft.Dep[domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	switch cfg.StoreBackend {
	case domain.BackendSQLite, "":
		return graft.Dep[*sqlite.Store](ctx)
	case domain.BackendFS:
		return graft.Dep[*fsstore.Store](ctx)
	default:
		return nil, zerr.With(domain.ErrUnknownStoreBackend, "backend", string(cfg.StoreBackend))
	}
}

func runAppNode(ctx context.Context) (*App, error) {
	store, err := graft.Dep[ports.BlobStore](ctx)
	if err != nil {
		return nil, err
	}

	rasterizer, err := graft.Dep[ports.Rasterizer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	metrics, err := graft.Dep[ports.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	newWatcher, err := graft.Dep[watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}

	return New(store, rasterizer, log, cfg).
		WithTelemetry(tracer, metrics).
		WithWatcher(newWatcher), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.BlobStore](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	provider, err := graft.Dep[*telemetry.Provider](ctx)
	if err != nil {
		return nil, err
	}

	app.WithActivity(provider.Summary)
	if cfg.JSONLogs {
		app.SetJSONLogs(true)
	}

	return &Components{
		App:       app,
		Logger:    log,
		Config:    cfg,
		store:     store,
		telemetry: provider,
	}, nil
}
