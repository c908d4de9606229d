package app

import (
	"context"
	"errors"

	"go.trai.ch/chartcache/internal/adapters/telemetry"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
	Config domain.Config

	store     ports.BlobStore
	telemetry *telemetry.Provider
}

// Close releases the snapshot store and flushes telemetry.
func (c *Components) Close(ctx context.Context) error {
	var errs error
	if c.store != nil {
		errs = errors.Join(errs, c.store.Close())
	}
	if c.telemetry != nil {
		errs = errors.Join(errs, c.telemetry.Shutdown(ctx))
	}
	return errs
}
