package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/chartcache/internal/app"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
	"go.trai.ch/chartcache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newApp(ctrl *gomock.Controller, store ports.BlobStore, logger ports.Logger) *app.App {
	return app.New(store, mocks.NewMockRasterizer(ctrl), logger, domain.DefaultConfig())
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	application := newApp(ctrl, mocks.NewMockBlobStore(ctrl), mockLogger)

	cleaned := false
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() { cleaned = true }, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
	assert.True(t, cleaned, "cleanup must run before run returns")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs the error when a command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	application := newApp(ctrl, mocks.NewMockBlobStore(ctrl), mockLogger)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	// purge without a mode is rejected by the command itself.
	exitCode := run(context.Background(), []string{"purge"}, io.Discard, provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_ReportedFailure verifies that maintenance failures are not logged twice.
func TestRun_ReportedFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockBlobStore(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	mockStore.EXPECT().Stats(gomock.Any()).Return(domain.CacheStats{}, domain.ErrStoreUnavailable)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)
	mockLogger.EXPECT().Error(gomock.Any()).Times(0)

	application := newApp(ctrl, mockStore, mockLogger)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"stats"}, io.Discard, provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_Signal verifies that a canceled context ends a watch cleanly.
func TestRun_Signal(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()

	started := make(chan struct{})
	var watchCtx context.Context

	mockWatcher := mocks.NewMockWatcher(ctrl)
	mockWatcher.EXPECT().Start(gomock.Any(), "data").DoAndReturn(func(ctx context.Context, _ string) error {
		watchCtx = ctx
		close(started)
		return nil
	})
	mockWatcher.EXPECT().Events().DoAndReturn(func() iter.Seq[ports.WatchEvent] {
		return func(func(ports.WatchEvent) bool) {
			<-watchCtx.Done()
		}
	})
	mockWatcher.EXPECT().Stop().Return(nil)

	application := newApp(ctrl, mocks.NewMockBlobStore(ctrl), mockLogger).
		WithWatcher(func() (ports.Watcher, error) { return mockWatcher, nil })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int)

	go func() {
		errCh <- run(ctx, []string{"watch", "data"}, io.Discard, func(context.Context) (*app.Components, func(), error) {
			return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
		})
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not start")
	}
	cancel()

	select {
	case ret := <-errCh:
		assert.Equal(t, 0, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("TestRun_Signal timed out waiting for run() to return")
	}
}
