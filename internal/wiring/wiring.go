// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/chartcache/internal/adapters/config"
	_ "go.trai.ch/chartcache/internal/adapters/fonts"
	_ "go.trai.ch/chartcache/internal/adapters/fsstore"
	_ "go.trai.ch/chartcache/internal/adapters/logger"
	_ "go.trai.ch/chartcache/internal/adapters/raster"
	_ "go.trai.ch/chartcache/internal/adapters/sqlite"
	_ "go.trai.ch/chartcache/internal/adapters/telemetry"
	_ "go.trai.ch/chartcache/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/chartcache/internal/app"
)
