package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/chartcache/internal/adapters/telemetry"
	"go.trai.ch/chartcache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_OnEnd(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	var got string
	mockLogger.EXPECT().Info(gomock.Any()).Do(func(msg string) { got = msg }).Times(1)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(mockLogger)))
	_, span := tp.Tracer("test").Start(context.Background(), "rasterize")
	span.End()

	assert.Contains(t, got, "rasterize finished in")
}

func TestBridge_OnEndWithError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	var got string
	mockLogger.EXPECT().Warn(gomock.Any()).Do(func(msg string) { got = msg }).Times(1)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(mockLogger)))
	_, span := tp.Tracer("test").Start(context.Background(), "rasterize")
	span.SetStatus(codes.Error, "decode failed")
	span.End()

	assert.Contains(t, got, "rasterize failed after")
	assert.Contains(t, got, "decode failed")
}

func TestBridge_NilLogger(_ *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	_, span := tp.Tracer("test").Start(context.Background(), "test-span")
	span.End()
}

func TestBridge_FlushAndShutdown(t *testing.T) {
	t.Parallel()

	bridge := telemetry.NewBridge(nil)
	assert.NoError(t, bridge.ForceFlush(context.Background()))
	assert.NoError(t, bridge.Shutdown(context.Background()))
}
