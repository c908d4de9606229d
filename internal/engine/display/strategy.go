// Package display decides whether a chart shows its raster snapshot, its live scene, or a loading state.
package display

import "go.trai.ch/chartcache/internal/core/domain"

// State is the display mode of one chart instance.
type State int

const (
	// Idle means no snapshot is available.
	Idle State = iota
	// Raster means the snapshot is shown.
	Raster
	// LiveInteractive means a snapshot exists but the live scene is shown while the user inspects it.
	LiveInteractive
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Raster:
		return "raster"
	case LiveInteractive:
		return "live-interactive"
	default:
		return "unknown"
	}
}

// Event is an input to the display state machine.
type Event int

const (
	// SnapshotReady signals that a raster snapshot became available.
	SnapshotReady Event = iota
	// SnapshotLost signals that the snapshot was withdrawn, e.g. because the key changed.
	SnapshotLost
	// PointerEnter signals that the pointer moved over the chart.
	PointerEnter
	// PointerLeave signals that the pointer left the chart.
	PointerLeave
	// FocusIn signals that the chart received keyboard focus.
	FocusIn
	// FocusOut signals that the chart lost keyboard focus.
	FocusOut
	// RasterFailed signals that rasterization failed for this instance.
	RasterFailed
)

// Presentation is what the chart renders.
type Presentation int

const (
	// PresentLive renders the live vector scene.
	PresentLive Presentation = iota
	// PresentRaster renders the cached raster snapshot.
	PresentRaster
	// PresentLoading renders a loading placeholder.
	PresentLoading
)

// String returns the presentation name.
func (p Presentation) String() string {
	switch p {
	case PresentLive:
		return "live"
	case PresentRaster:
		return "raster"
	case PresentLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Transition is one row of a transition table.
// Guard, when set, must hold for the row to apply.
type Transition struct {
	From  State
	Event Event
	To    State
	Guard func(*Strategy) bool
}

func engaged(s *Strategy) bool    { return s.hovered || s.focused }
func disengaged(s *Strategy) bool { return !engaged(s) }

// DesktopTransitions is the transition table for desktop devices.
var DesktopTransitions = []Transition{
	{From: Idle, Event: SnapshotReady, To: LiveInteractive, Guard: engaged},
	{From: Idle, Event: SnapshotReady, To: Raster, Guard: disengaged},
	{From: Raster, Event: PointerEnter, To: LiveInteractive},
	{From: Raster, Event: FocusIn, To: LiveInteractive},
	{From: Raster, Event: SnapshotLost, To: Idle},
	{From: LiveInteractive, Event: PointerLeave, To: Raster, Guard: disengaged},
	{From: LiveInteractive, Event: FocusOut, To: Raster, Guard: disengaged},
	{From: LiveInteractive, Event: SnapshotLost, To: Idle},
}

// ConstrainedTransitions is the transition table for constrained devices.
// Pointer and focus events never change the state.
var ConstrainedTransitions = []Transition{
	{From: Idle, Event: SnapshotReady, To: Raster},
	{From: Raster, Event: SnapshotLost, To: Idle},
}

// Strategy is the display state machine of one chart instance. It is not safe for concurrent use.
type Strategy struct {
	table    []Transition
	state    State
	hovered  bool
	focused  bool
	pinned   bool
	rendered bool
}

// NewStrategy creates a strategy for the given device class.
func NewStrategy(device DeviceClass) *Strategy {
	table := DesktopTransitions
	if device == Constrained {
		table = ConstrainedTransitions
	}
	return &Strategy{table: table}
}

// State returns the current state.
func (s *Strategy) State() State {
	return s.state
}

// Pinned reports whether a rasterization failure pinned the chart to its live scene.
func (s *Strategy) Pinned() bool {
	return s.pinned
}

// Fire applies ev and returns the resulting state.
func (s *Strategy) Fire(ev Event) State {
	switch ev {
	case PointerEnter:
		s.hovered = true
	case PointerLeave:
		s.hovered = false
	case FocusIn:
		s.focused = true
	case FocusOut:
		s.focused = false
	case RasterFailed:
		s.pinned = true
		s.state = Idle
		return s.state
	}

	if s.pinned {
		return s.state
	}

	for _, t := range s.table {
		if t.From != s.state || t.Event != ev {
			continue
		}
		if t.Guard != nil && !t.Guard(s) {
			continue
		}
		s.state = t.To
		break
	}
	return s.state
}

// MarkSceneRendered records that the live scene has finished its first render.
func (s *Strategy) MarkSceneRendered() {
	s.rendered = true
}

// Sync derives events from a coordinator result and applies them.
func (s *Strategy) Sync(res domain.SnapshotResult) State {
	switch {
	case res.Err != nil:
		return s.Fire(RasterFailed)
	case res.HasSnapshot() && s.state == Idle:
		return s.Fire(SnapshotReady)
	case !res.HasSnapshot() && s.state != Idle:
		return s.Fire(SnapshotLost)
	}
	return s.state
}

// Presentation returns what the chart should render now.
func (s *Strategy) Presentation() Presentation {
	switch s.state {
	case Raster:
		return PresentRaster
	case LiveInteractive:
		return PresentLive
	}
	if s.rendered || s.pinned {
		return PresentLive
	}
	return PresentLoading
}
