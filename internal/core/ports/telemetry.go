package ports

import (
	"context"
	"time"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// LookupOutcome classifies a snapshot store lookup.
type LookupOutcome string

const (
	// LookupHit means a valid snapshot was served from the store.
	LookupHit LookupOutcome = "hit"
	// LookupMiss means no valid snapshot existed.
	LookupMiss LookupOutcome = "miss"
)

// Metrics records cache activity.
type Metrics interface {
	// RecordLookup counts one store lookup.
	RecordLookup(ctx context.Context, outcome LookupOutcome)
	// RecordRasterization records one rasterization attempt and its duration.
	RecordRasterization(ctx context.Context, duration time.Duration, err error)
}
