// Package telemetry implements the tracing and metrics ports with OpenTelemetry.
package telemetry

import (
	"context"
	"errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/chartcache/internal/core/ports"
)

// InstrumentationName names the tracer and meter of the cache.
const InstrumentationName = "go.trai.ch/chartcache"

// Provider owns the OpenTelemetry SDK providers used by the process.
// Spans are forwarded to the logger through a Bridge and metrics are kept
// in memory until Summary collects them.
type Provider struct {
	traces  *sdktrace.TracerProvider
	meters  *sdkmetric.MeterProvider
	reader  *sdkmetric.ManualReader
	metrics *OTelMetrics
}

// NewProvider creates SDK providers that report finished spans to logger.
func NewProvider(logger ports.Logger) (*Provider, error) {
	reader := sdkmetric.NewManualReader()
	p := &Provider{
		traces: sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(NewBridge(logger)),
		),
		meters: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		reader: reader,
	}

	m, err := NewOTelMetrics(p.meters.Meter(InstrumentationName))
	if err != nil {
		return nil, err
	}
	p.metrics = m
	return p, nil
}

// Tracer returns a ports.Tracer backed by the provider.
func (p *Provider) Tracer() *OTelTracer {
	return NewOTelTracer(p.traces.Tracer(InstrumentationName))
}

// Metrics returns the ports.Metrics backed by the provider.
func (p *Provider) Metrics() *OTelMetrics {
	return p.metrics
}

// Summary collects the metrics recorded so far.
func (p *Provider) Summary(ctx context.Context) (Summary, error) {
	return collectSummary(ctx, p.reader)
}

// Shutdown flushes and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	return errors.Join(p.traces.Shutdown(ctx), p.meters.Shutdown(ctx))
}
