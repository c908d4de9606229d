// Package app implements the application layer for chartcache.
package app

import (
	"context"
	"time"

	"go.trai.ch/chartcache/internal/adapters/telemetry"
	"go.trai.ch/chartcache/internal/adapters/watcher"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
)

// App represents the main application logic.
type App struct {
	store      ports.BlobStore
	rasterizer ports.Rasterizer
	logger     ports.Logger
	config     domain.Config

	tracer   ports.Tracer
	metrics  ports.Metrics
	activity func(context.Context) (telemetry.Summary, error)

	newWatcher     watcher.Factory
	debounceWindow time.Duration
}

// New creates a new App instance.
// The store is used as-is by the administration commands; renders go through
// a guard that turns storage failures into cache misses.
func New(
	store ports.BlobStore,
	rasterizer ports.Rasterizer,
	log ports.Logger,
	cfg domain.Config,
) *App {
	return &App{
		store:          store,
		rasterizer:     rasterizer,
		logger:         log,
		config:         cfg,
		tracer:         telemetry.NewNoOpTracer(),
		metrics:        telemetry.NoOpMetrics{},
		debounceWindow: watcher.DefaultDebounceWindow,
	}
}

// WithTelemetry sets the tracer and metrics used by renders.
func (a *App) WithTelemetry(tracer ports.Tracer, metrics ports.Metrics) *App {
	if tracer != nil {
		a.tracer = tracer
	}
	if metrics != nil {
		a.metrics = metrics
	}
	return a
}

// WithActivity sets the source of the cache activity summary reported after a render.
func (a *App) WithActivity(fn func(context.Context) (telemetry.Summary, error)) *App {
	a.activity = fn
	return a
}

// WithWatcher sets the factory used by Watch.
func (a *App) WithWatcher(factory watcher.Factory) *App {
	a.newWatcher = factory
	return a
}

// WithDebounceWindow sets how long Watch coalesces changes before invalidating.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounceWindow = d
	return a
}

// SetJSONLogs switches the logger to JSON output if it supports it.
func (a *App) SetJSONLogs(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// Activity returns the lookups and rasterizations recorded so far.
// It reports an empty summary when no telemetry provider is configured.
func (a *App) Activity(ctx context.Context) (telemetry.Summary, error) {
	if a.activity == nil {
		return telemetry.Summary{}, nil
	}
	return a.activity(ctx)
}
