package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.trai.ch/chartcache/internal/core/ports"
)

const (
	lookupsMetric        = "chartcache.lookups"
	rasterizationsMetric = "chartcache.rasterizations"
	rasterDurationMetric = "chartcache.raster.duration_ms"

	outcomeKey = attribute.Key("outcome")

	outcomeOK    = "ok"
	outcomeError = "error"
)

var _ ports.Metrics = (*OTelMetrics)(nil)

// OTelMetrics records cache activity with OpenTelemetry instruments.
type OTelMetrics struct {
	lookups        metric.Int64Counter
	rasterizations metric.Int64Counter
	rasterDuration metric.Float64Histogram
}

// NewOTelMetrics creates the cache instruments on meter.
func NewOTelMetrics(meter metric.Meter) (*OTelMetrics, error) {
	lookups, err := meter.Int64Counter(
		lookupsMetric,
		metric.WithDescription("Snapshot store lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	rasterizations, err := meter.Int64Counter(
		rasterizationsMetric,
		metric.WithDescription("Rasterization attempts by outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	rasterDuration, err := meter.Float64Histogram(
		rasterDurationMetric,
		metric.WithDescription("Rasterization duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &OTelMetrics{
		lookups:        lookups,
		rasterizations: rasterizations,
		rasterDuration: rasterDuration,
	}, nil
}

// RecordLookup counts one store lookup.
func (m *OTelMetrics) RecordLookup(ctx context.Context, outcome ports.LookupOutcome) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(outcomeKey.String(string(outcome))))
}

// RecordRasterization records one rasterization attempt and its duration.
func (m *OTelMetrics) RecordRasterization(ctx context.Context, duration time.Duration, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	opt := metric.WithAttributes(outcomeKey.String(outcome))
	m.rasterizations.Add(ctx, 1, opt)
	m.rasterDuration.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

// Summary is a point-in-time view of the recorded cache metrics.
type Summary struct {
	Hits           int64
	Misses         int64
	Rasterizations int64
	Failures       int64
}

func collectSummary(ctx context.Context, reader sdkmetric.Reader) (Summary, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return Summary{}, err
	}

	var s Summary
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value(outcomeKey)
				switch m.Name {
				case lookupsMetric:
					switch ports.LookupOutcome(outcome.AsString()) {
					case ports.LookupHit:
						s.Hits += dp.Value
					case ports.LookupMiss:
						s.Misses += dp.Value
					}
				case rasterizationsMetric:
					s.Rasterizations += dp.Value
					if outcome.AsString() == outcomeError {
						s.Failures += dp.Value
					}
				}
			}
		}
	}
	return s, nil
}
