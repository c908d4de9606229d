package app

import (
	"context"
	"fmt"

	"go.trai.ch/chartcache/internal/adapters/watcher"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const batchBuffer = 16

// Watch invalidates the snapshots of every subject whose data file changes below dir.
// Changes are coalesced over the debounce window. It returns once ctx is done,
// after invalidating the changes still pending.
func (a *App) Watch(ctx context.Context, dir string) error {
	if a.newWatcher == nil {
		return zerr.With(domain.ErrWatchFailed, "reason", "no watcher configured")
	}

	w, err := a.newWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	if err := w.Start(ctx, dir); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("watching %s for subject data changes", dir))

	// Invalidation of the final batch must survive the cancellation that ends the watch.
	invalidateCtx := context.WithoutCancel(ctx)

	batches := make(chan []string, batchBuffer)
	debouncer := watcher.NewDebouncer(a.debounceWindow, func(ids []string) {
		batches <- ids
	})
	drained := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		defer close(drained)
		for event := range w.Events() {
			if id, ok := watcher.SubjectID(event.Path); ok {
				debouncer.Add(id)
			}
		}
		debouncer.Flush()
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case ids := <-batches:
				a.invalidateChanged(invalidateCtx, ids)
			case <-drained:
				for {
					select {
					case ids := <-batches:
						a.invalidateChanged(invalidateCtx, ids)
					default:
						return nil
					}
				}
			}
		}
	})
	return g.Wait()
}

// invalidateChanged keeps watching after a failed invalidation; Invalidate already reported it.
func (a *App) invalidateChanged(ctx context.Context, ids []string) {
	_, _ = a.Invalidate(ctx, ids...)
}
