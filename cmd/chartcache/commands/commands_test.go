package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chartcache/cmd/chartcache/commands"
	"go.trai.ch/chartcache/internal/adapters/telemetry"
	"go.trai.ch/chartcache/internal/app"
	"go.trai.ch/chartcache/internal/build"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/engine/display"
)

type mockApp struct {
	renderFunc       func(ctx context.Context, req app.RenderRequest) (app.RenderResult, error)
	statsFunc        func(ctx context.Context) (domain.CacheStats, error)
	purgeExpiredFunc func(ctx context.Context, confirm app.Confirmation) (int, error)
	purgeAllFunc     func(ctx context.Context, confirm app.Confirmation) error
	invalidateFunc   func(ctx context.Context, subjectIDs ...string) (int, error)
	watchFunc        func(ctx context.Context, dir string) error
	jsonLogs         bool
}

func (m *mockApp) Render(ctx context.Context, req app.RenderRequest) (app.RenderResult, error) {
	if m.renderFunc != nil {
		return m.renderFunc(ctx, req)
	}
	return app.RenderResult{}, nil
}

func (m *mockApp) Activity(_ context.Context) (telemetry.Summary, error) {
	return telemetry.Summary{Hits: 1}, nil
}

func (m *mockApp) Stats(ctx context.Context) (domain.CacheStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return domain.CacheStats{}, nil
}

func (m *mockApp) PurgeExpired(ctx context.Context, confirm app.Confirmation) (int, error) {
	if m.purgeExpiredFunc != nil {
		return m.purgeExpiredFunc(ctx, confirm)
	}
	return 0, nil
}

func (m *mockApp) PurgeAll(ctx context.Context, confirm app.Confirmation) error {
	if m.purgeAllFunc != nil {
		return m.purgeAllFunc(ctx, confirm)
	}
	return nil
}

func (m *mockApp) Invalidate(ctx context.Context, subjectIDs ...string) (int, error) {
	if m.invalidateFunc != nil {
		return m.invalidateFunc(ctx, subjectIDs...)
	}
	return 0, nil
}

func (m *mockApp) Watch(ctx context.Context, dir string) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, dir)
	}
	return nil
}

func (m *mockApp) SetJSONLogs(enable bool) {
	m.jsonLogs = enable
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetInput(strings.NewReader(""))
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Render(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.RenderRequest
		mock := &mockApp{
			renderFunc: func(_ context.Context, req app.RenderRequest) (app.RenderResult, error) {
				captured = req
				return app.RenderResult{
					Key:          domain.CacheKey{SubjectID: "pet-bottles", Width: 300, Height: 60},
					DataURL:      "data:image/png;base64,AAAA",
					FromCache:    true,
					Presentation: display.PresentRaster,
				}, nil
			},
		}

		out, err := execute(t, mock, "render", "chart.svg",
			"--data", "pet-bottles.json", "--variant", "recyclability",
			"-W", "300", "-H", "60", "--dark", "--reduce-motion", "--viewport", "600",
			"-o", "chart.png")
		require.NoError(t, err)

		assert.Equal(t, "chart.svg", captured.ScenePath)
		assert.Equal(t, "pet-bottles.json", captured.DataPath)
		assert.Equal(t, "recyclability", captured.Variant)
		assert.Equal(t, 300, captured.Width)
		assert.Equal(t, 60, captured.Height)
		assert.Equal(t, domain.ThemeFlags{DarkMode: true, ReduceMotion: true}, captured.Theme)
		assert.Equal(t, display.Constrained, captured.Device)
		assert.Equal(t, "chart.png", captured.OutputPath)

		assert.Contains(t, out, "pet-bottles")
		assert.Contains(t, out, "cache")
		assert.Contains(t, out, "raster")
		assert.Contains(t, out, "1 hit, 0 miss")
	})

	t.Run("defaults to desktop", func(t *testing.T) {
		var captured app.RenderRequest
		mock := &mockApp{
			renderFunc: func(_ context.Context, req app.RenderRequest) (app.RenderResult, error) {
				captured = req
				return app.RenderResult{}, nil
			},
		}

		_, err := execute(t, mock, "render", "chart.svg")
		require.NoError(t, err)
		assert.Equal(t, display.Desktop, captured.Device)
	})

	t.Run("reports the fallback on failure", func(t *testing.T) {
		mock := &mockApp{
			renderFunc: func(_ context.Context, _ app.RenderRequest) (app.RenderResult, error) {
				return app.RenderResult{
					Key:          domain.CacheKey{SubjectID: "pet-bottles", Width: 300, Height: 60},
					Presentation: display.PresentLive,
				}, errors.Join(domain.ErrRenderFailed, domain.ErrDrawingContextUnavailable)
			},
		}

		out, err := execute(t, mock, "render", "chart.svg")
		require.ErrorIs(t, err, domain.ErrRenderFailed)
		assert.Contains(t, out, "live")
		assert.Contains(t, out, "none")
	})

	t.Run("requires a scene", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "render")
		require.Error(t, err)
	})
}

func TestCommands_Stats(t *testing.T) {
	newest := time.Now().Add(-time.Hour)
	mock := &mockApp{
		statsFunc: func(_ context.Context) (domain.CacheStats, error) {
			return domain.CacheStats{
				Count:      3,
				TotalBytes: 2048,
				Oldest:     newest.Add(-48 * time.Hour),
				Newest:     newest,
			}, nil
		},
	}

	out, err := execute(t, mock, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshot cache")
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "1 hour ago")
}

func TestCommands_Stats_Empty(t *testing.T) {
	out, err := execute(t, &mockApp{}, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "0 B")
	assert.Contains(t, out, "-")
}

func TestCommands_Purge(t *testing.T) {
	t.Run("expired with --yes is confirmed", func(t *testing.T) {
		var got app.Confirmation
		mock := &mockApp{
			purgeExpiredFunc: func(_ context.Context, confirm app.Confirmation) (int, error) {
				got = confirm
				return 2, nil
			},
		}

		out, err := execute(t, mock, "purge", "--expired", "--yes")
		require.NoError(t, err)
		assert.Equal(t, app.Confirmed, got)
		assert.Contains(t, out, "removed 2 expired snapshots")
	})

	t.Run("all without --yes on a pipe is unconfirmed", func(t *testing.T) {
		var got app.Confirmation = app.Confirmed
		mock := &mockApp{
			purgeAllFunc: func(_ context.Context, confirm app.Confirmation) error {
				got = confirm
				if !confirm {
					return domain.ErrNotConfirmed
				}
				return nil
			},
		}

		_, err := execute(t, mock, "purge", "--all")
		require.ErrorIs(t, err, domain.ErrNotConfirmed)
		assert.Equal(t, app.Unconfirmed, got)
	})

	t.Run("requires a mode", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "purge")
		require.Error(t, err)
	})

	t.Run("modes are exclusive", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "purge", "--all", "--expired")
		require.Error(t, err)
	})
}

func TestCommands_Invalidate(t *testing.T) {
	var got []string
	mock := &mockApp{
		invalidateFunc: func(_ context.Context, subjectIDs ...string) (int, error) {
			got = subjectIDs
			return 5, nil
		},
	}

	out, err := execute(t, mock, "invalidate", "pet-bottles", "cans")
	require.NoError(t, err)
	assert.Equal(t, []string{"pet-bottles", "cans"}, got)
	assert.Contains(t, out, "invalidated 5 snapshots")

	_, err = execute(t, mock, "invalidate")
	require.Error(t, err)
}

func TestCommands_Watch(t *testing.T) {
	var dirs []string
	mock := &mockApp{
		watchFunc: func(_ context.Context, dir string) error {
			dirs = append(dirs, dir)
			return nil
		},
	}

	_, err := execute(t, mock, "watch")
	require.NoError(t, err)
	_, err = execute(t, mock, "watch", "data")
	require.NoError(t, err)

	assert.Equal(t, []string{".", "data"}, dirs)
}

func TestCommands_JSONLogs(t *testing.T) {
	mock := &mockApp{}
	_, err := execute(t, mock, "--json-logs", "stats")
	require.NoError(t, err)
	assert.True(t, mock.jsonLogs)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}
