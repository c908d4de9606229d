package display_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/engine/display"
)

func TestClassifyDevice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		coarse bool
		width  int
		want   display.DeviceClass
	}{
		{name: "wide fine pointer", width: 1280, want: display.Desktop},
		{name: "exactly breakpoint", width: 768, want: display.Desktop},
		{name: "narrow", width: 767, want: display.Constrained},
		{name: "coarse pointer", coarse: true, width: 1280, want: display.Constrained},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, display.ClassifyDevice(tt.coarse, tt.width))
		})
	}
}

func TestStrategy_Desktop(t *testing.T) {
	t.Parallel()

	s := display.NewStrategy(display.Desktop)
	assert.Equal(t, display.PresentLoading, s.Presentation())

	s.MarkSceneRendered()
	assert.Equal(t, display.PresentLive, s.Presentation(), "live scene while no snapshot exists")

	steps := []struct {
		event display.Event
		state display.State
		want  display.Presentation
	}{
		{display.SnapshotReady, display.Raster, display.PresentRaster},
		{display.PointerEnter, display.LiveInteractive, display.PresentLive},
		{display.FocusIn, display.LiveInteractive, display.PresentLive},
		{display.PointerLeave, display.LiveInteractive, display.PresentLive},
		{display.FocusOut, display.Raster, display.PresentRaster},
		{display.FocusIn, display.LiveInteractive, display.PresentLive},
		{display.FocusOut, display.Raster, display.PresentRaster},
		{display.SnapshotLost, display.Idle, display.PresentLive},
	}

	for _, step := range steps {
		assert.Equal(t, step.state, s.Fire(step.event))
		assert.Equal(t, step.want, s.Presentation())
	}
}

func TestStrategy_SnapshotArrivesWhileHovered(t *testing.T) {
	t.Parallel()

	s := display.NewStrategy(display.Desktop)
	s.MarkSceneRendered()

	assert.Equal(t, display.Idle, s.Fire(display.PointerEnter))
	assert.Equal(t, display.LiveInteractive, s.Fire(display.SnapshotReady))
	assert.Equal(t, display.Raster, s.Fire(display.PointerLeave))
}

func TestStrategy_Constrained(t *testing.T) {
	t.Parallel()

	s := display.NewStrategy(display.Constrained)
	s.MarkSceneRendered()

	assert.Equal(t, display.Idle, s.Fire(display.PointerEnter))
	assert.Equal(t, display.Raster, s.Fire(display.SnapshotReady))
	for _, ev := range []display.Event{display.PointerEnter, display.FocusIn, display.PointerLeave, display.FocusOut} {
		assert.Equal(t, display.Raster, s.Fire(ev))
		assert.Equal(t, display.PresentRaster, s.Presentation())
	}
	assert.Equal(t, display.Idle, s.Fire(display.SnapshotLost))
}

func TestStrategy_RasterFailedPinsLive(t *testing.T) {
	t.Parallel()

	s := display.NewStrategy(display.Desktop)
	s.Fire(display.SnapshotReady)
	assert.Equal(t, display.Idle, s.Fire(display.RasterFailed))
	assert.True(t, s.Pinned())
	assert.Equal(t, display.PresentLive, s.Presentation(), "pinned charts never show the loading state")

	for _, ev := range []display.Event{display.SnapshotReady, display.PointerEnter, display.PointerLeave} {
		assert.Equal(t, display.Idle, s.Fire(ev))
		assert.Equal(t, display.PresentLive, s.Presentation())
	}
}

func TestStrategy_Sync(t *testing.T) {
	t.Parallel()

	s := display.NewStrategy(display.Desktop)
	s.MarkSceneRendered()

	assert.Equal(t, display.Idle, s.Sync(domain.SnapshotResult{IsLoading: true}))
	assert.Equal(t, display.Raster, s.Sync(domain.SnapshotResult{DataURL: "data:image/png;base64,AAAA"}))
	assert.Equal(t, display.Raster, s.Sync(domain.SnapshotResult{DataURL: "data:image/png;base64,AAAA"}))
	assert.Equal(t, display.Idle, s.Sync(domain.SnapshotResult{IsLoading: true}))
	assert.Equal(t, display.Idle, s.Sync(domain.SnapshotResult{Err: domain.ErrImageDecodeFailed}))
	assert.True(t, s.Pinned())
	assert.Equal(t, display.PresentLive, s.Presentation())
}

func TestStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "raster", display.Raster.String())
	assert.Equal(t, "live-interactive", display.LiveInteractive.String())
	assert.Equal(t, "idle", display.Idle.String())
	assert.Equal(t, "loading", display.PresentLoading.String())
	assert.Equal(t, "live", display.PresentLive.String())
	assert.Equal(t, "constrained", display.Constrained.String())
	assert.Equal(t, "desktop", display.Desktop.String())
}
