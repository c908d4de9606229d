package coordinator

import (
	"context"
	"time"

	"go.trai.ch/chartcache/internal/core/ports"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSettleDelay sets how long a miss waits for the live scene before rasterizing.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		if d >= 0 {
			c.settleDelay = d
		}
	}
}

// WithScale sets the oversampling factor passed to the rasterizer.
func WithScale(scale float64) Option {
	return func(c *Coordinator) {
		c.scale = scale
	}
}

// WithTracer sets the tracer used for lookups and rasterizations.
func WithTracer(t ports.Tracer) Option {
	return func(c *Coordinator) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m ports.Metrics) Option {
	return func(c *Coordinator) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithLogger sets the logger that receives rasterization failures.
func WithLogger(l ports.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// WithListener registers fn to be called after every state change.
// fn runs outside the coordinator lock and may call back into it.
func WithListener(fn func(State)) Option {
	return func(c *Coordinator) {
		c.listener = fn
	}
}

type nopTracer struct{}

func (nopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, nopSpan{}
}

type nopSpan struct{}

func (nopSpan) End() {}

func (nopSpan) RecordError(_ error) {}

func (nopSpan) SetAttribute(_ string, _ any) {}

type nopMetrics struct{}

func (nopMetrics) RecordLookup(_ context.Context, _ ports.LookupOutcome) {}

func (nopMetrics) RecordRasterization(_ context.Context, _ time.Duration, _ error) {}
