// Package coordinator implements the per-instance read-through snapshot cache.
//
// A Coordinator serves one display instance. It checks the store when the
// instance mounts or its key changes, and on a miss rasterizes the live scene
// exactly once. Completions are matched against a generation counter so that
// results for an outdated key or an unmounted instance never reach the caller.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
)

// Coordinator orchestrates lookups and rasterizations for a single display instance.
type Coordinator struct {
	store      ports.BlobStore
	rasterizer ports.Rasterizer

	settleDelay time.Duration
	scale       float64
	tracer      ports.Tracer
	metrics     ports.Metrics
	logger      ports.Logger
	listener    func(State)

	life context.Context //nolint:containedctx // instance lifetime, canceled by Unmount
	stop context.CancelFunc

	mu        sync.Mutex
	changed   chan struct{}
	gen       uint64
	key       domain.CacheKey
	hasKey    bool
	source    ports.SceneSource
	phase     Phase
	dataURL   string
	err       error
	inFlight  bool
	disabled  bool
	unmounted bool
}

// New creates a coordinator for one display instance.
// store should be a degrading store: lookup errors are treated as misses.
func New(store ports.BlobStore, rasterizer ports.Rasterizer, opts ...Option) *Coordinator {
	life, stop := context.WithCancel(context.Background())
	c := &Coordinator{
		store:       store,
		rasterizer:  rasterizer,
		settleDelay: domain.DefaultSettleDelay,
		scale:       domain.MinScale,
		tracer:      nopTracer{},
		metrics:     nopMetrics{},
		life:        life,
		stop:        stop,
		changed:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Update requests a snapshot for key, rendered from source on a miss.
// It is called on mount and on every re-render of the instance. Calls with an
// unchanged key are no-ops unless the previous attempt found no live scene.
// Update never blocks on the store or the rasterizer.
func (c *Coordinator) Update(ctx context.Context, key domain.CacheKey, source ports.SceneSource) error {
	if err := key.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.unmounted || c.disabled {
		c.mu.Unlock()
		return nil
	}

	sameKey := c.hasKey && c.key.ID() == key.ID()
	c.source = source
	if sameKey && c.phase != PhaseIdle {
		c.mu.Unlock()
		return nil
	}

	c.key = key
	c.hasKey = true
	c.gen++
	c.dataURL = ""
	c.err = nil

	if c.inFlight {
		// The in-flight job re-checks the current key when it settles.
		c.phase = PhaseRasterizing
		st := c.stateLocked()
		c.mu.Unlock()
		c.notify(st)
		return nil
	}

	gen := c.gen
	c.phase = PhaseCacheChecking
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)

	c.spawn(ctx, gen, key, source)
	return nil
}

// Unmount discards every pending result and stops the instance for good.
func (c *Coordinator) Unmount() {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return
	}
	c.unmounted = true
	c.gen++
	c.broadcastLocked()
	c.mu.Unlock()

	c.stop()
}

// Result returns the output contract for the display strategy.
func (c *Coordinator) Result() domain.SnapshotResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.SnapshotResult{
		DataURL:   c.dataURL,
		IsLoading: c.phase.Busy(),
		Err:       c.err,
	}
}

// Phase returns the current phase.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Disabled reports whether a rasterization failed, which disables the instance permanently.
func (c *Coordinator) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// Wait blocks until no lookup or rasterization is pending, the instance is
// unmounted, or ctx is done.
func (c *Coordinator) Wait(ctx context.Context) (domain.SnapshotResult, error) {
	for {
		c.mu.Lock()
		if c.unmounted || (!c.phase.Busy() && !c.inFlight) {
			c.mu.Unlock()
			return c.Result(), nil
		}
		ch := c.changed
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return c.Result(), ctx.Err()
		}
	}
}

// spawn runs one cycle in the background. The cycle keeps the values of ctx
// but lives until the instance is unmounted rather than until ctx is done.
func (c *Coordinator) spawn(ctx context.Context, gen uint64, key domain.CacheKey, source ports.SceneSource) {
	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	release := context.AfterFunc(c.life, cancel)
	go func() {
		defer cancel()
		defer release()
		c.cycle(jobCtx, gen, key, source)
	}()
}

func (c *Coordinator) cycle(ctx context.Context, gen uint64, key domain.CacheKey, source ports.SceneSource) {
	if dataURL, ok := c.lookup(ctx, key); ok {
		c.apply(gen, func() {
			c.phase = PhaseReady
			c.dataURL = dataURL
		})
		return
	}

	if !c.settle(ctx) || !c.current(gen) {
		return
	}

	var scene *domain.Scene
	if source != nil {
		scene = source.Scene()
	}

	c.mu.Lock()
	if gen != c.gen || c.inFlight {
		c.mu.Unlock()
		return
	}
	if scene == nil {
		c.phase = PhaseIdle
		st := c.stateLocked()
		c.mu.Unlock()
		c.notify(st)
		return
	}
	c.inFlight = true
	c.phase = PhaseRasterizing
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)

	dataURL, err := c.rasterize(ctx, key, scene)
	c.complete(ctx, gen, key, dataURL, err)
}

func (c *Coordinator) lookup(ctx context.Context, key domain.CacheKey) (string, bool) {
	ctx, span := c.tracer.Start(ctx, "lookup")
	defer span.End()
	span.SetAttribute("cache.id", key.ID())

	entry, err := c.store.Get(ctx, key)
	if err != nil {
		c.warn(fmt.Sprintf("snapshot lookup failed, treating as miss: %v", err))
		entry = nil
	}
	if entry == nil {
		c.metrics.RecordLookup(ctx, ports.LookupMiss)
		span.SetAttribute("cache.hit", false)
		return "", false
	}
	c.metrics.RecordLookup(ctx, ports.LookupHit)
	span.SetAttribute("cache.hit", true)
	return entry.DataURL, true
}

// settle waits for the live scene to finish its own render pass.
func (c *Coordinator) settle(ctx context.Context) bool {
	if c.settleDelay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(c.settleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Coordinator) rasterize(ctx context.Context, key domain.CacheKey, scene *domain.Scene) (string, error) {
	ctx, span := c.tracer.Start(ctx, "rasterize")
	defer span.End()
	span.SetAttribute("cache.id", key.ID())
	span.SetAttribute("width", key.Width)
	span.SetAttribute("height", key.Height)

	start := time.Now()
	dataURL, err := c.rasterizer.Rasterize(ctx, scene, domain.RasterOptions{
		Width:  key.Width,
		Height: key.Height,
		Scale:  c.scale,
	})
	c.metrics.RecordRasterization(ctx, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	if err := c.store.Set(ctx, key, dataURL); err != nil {
		c.warn(fmt.Sprintf("snapshot write failed, continuing without cache: %v", err))
	}
	return dataURL, nil
}

// complete settles an in-flight rasterization for gen.
func (c *Coordinator) complete(ctx context.Context, gen uint64, key domain.CacheKey, dataURL string, err error) {
	c.mu.Lock()
	c.inFlight = false

	if c.unmounted {
		c.broadcastLocked()
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.disabled = true
		c.phase = PhaseFailed
		c.dataURL = ""
		c.err = err
		st := c.stateLocked()
		c.mu.Unlock()
		c.warn(fmt.Sprintf("rasterization failed, using the live scene from now on: %v", err))
		c.notify(st)
		return
	}

	if gen == c.gen || c.key.ID() == key.ID() {
		c.phase = PhaseReady
		c.dataURL = dataURL
		st := c.stateLocked()
		c.mu.Unlock()
		c.notify(st)
		return
	}

	// The key changed while rasterizing: check the current one.
	next, nextKey, nextSource := c.gen, c.key, c.source
	c.phase = PhaseCacheChecking
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)

	c.spawn(ctx, next, nextKey, nextSource)
}

// apply runs fn under the lock if gen is still current.
func (c *Coordinator) apply(gen uint64, fn func()) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	fn()
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)
}

func (c *Coordinator) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

// stateLocked captures the state and wakes waiters. c.mu must be held.
func (c *Coordinator) stateLocked() State {
	c.broadcastLocked()
	return State{
		Phase:      c.phase,
		Generation: c.gen,
		DataURL:    c.dataURL,
		Err:        c.err,
	}
}

func (c *Coordinator) broadcastLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Coordinator) notify(st State) {
	if c.listener != nil {
		c.listener(st)
	}
}

func (c *Coordinator) warn(msg string) {
	if c.logger != nil {
		c.logger.Warn(msg)
	}
}
