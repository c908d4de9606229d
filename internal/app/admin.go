package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Confirmation records whether the operator explicitly agreed to a destructive action.
type Confirmation bool

const (
	// Unconfirmed rejects the action.
	Unconfirmed Confirmation = false
	// Confirmed allows the action.
	Confirmed Confirmation = true
)

// Stats aggregates the snapshots currently stored.
func (a *App) Stats(ctx context.Context) (domain.CacheStats, error) {
	stats, err := a.store.Stats(ctx)
	if err != nil {
		return domain.CacheStats{}, a.report("read cache statistics", err)
	}
	return stats, nil
}

// PurgeExpired removes expired and stale-format snapshots and returns how many were removed.
func (a *App) PurgeExpired(ctx context.Context, confirm Confirmation) (int, error) {
	if !confirm {
		return 0, domain.ErrNotConfirmed
	}

	a.logger.Info("removing expired snapshots...")
	n, err := a.store.DeleteExpired(ctx)
	if err != nil {
		return 0, a.report("remove expired snapshots", err)
	}
	a.logger.Info(fmt.Sprintf("removed %d expired snapshots", n))
	return n, nil
}

// PurgeAll removes every snapshot.
func (a *App) PurgeAll(ctx context.Context, confirm Confirmation) error {
	if !confirm {
		return domain.ErrNotConfirmed
	}

	a.logger.Info("removing all snapshots...")
	if err := a.store.DeleteAll(ctx); err != nil {
		return a.report("remove snapshots", err)
	}
	a.logger.Info("removed all snapshots")
	return nil
}

// Invalidate removes every snapshot of the given subjects, whatever their variant,
// size or theme. It returns the total number of removed snapshots.
func (a *App) Invalidate(ctx context.Context, subjectIDs ...string) (int, error) {
	var (
		total int
		errs  error
	)
	for _, id := range subjectIDs {
		n, err := a.store.DeleteBySubject(ctx, id)
		if err != nil {
			errs = errors.Join(errs, zerr.With(err, "subject", id))
			continue
		}
		total += n
		a.logger.Info(fmt.Sprintf("invalidated %d snapshots of %s", n, id))
	}
	if errs != nil {
		return total, a.report("invalidate snapshots", errs)
	}
	return total, nil
}

// report notifies the operator of a failed maintenance action and marks the
// returned error as already reported.
func (a *App) report(action string, err error) error {
	a.logger.Warn(fmt.Sprintf("failed to %s: %v", action, err))
	return errors.Join(domain.ErrMaintenanceFailed, err)
}
