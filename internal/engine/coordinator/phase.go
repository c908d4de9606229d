package coordinator

// Phase is the lifecycle state of one display instance's snapshot.
type Phase int

const (
	// PhaseIdle means no snapshot has been requested, or the live scene was not rendered yet.
	PhaseIdle Phase = iota
	// PhaseCacheChecking means the store is being consulted or the live scene is settling.
	PhaseCacheChecking
	// PhaseRasterizing means a rasterization is in flight.
	PhaseRasterizing
	// PhaseReady means a snapshot is available.
	PhaseReady
	// PhaseFailed means rasterization failed and the instance is disabled.
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCacheChecking:
		return "cache-checking"
	case PhaseRasterizing:
		return "rasterizing"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Busy reports whether work is still pending in this phase.
func (p Phase) Busy() bool {
	return p == PhaseCacheChecking || p == PhaseRasterizing
}

// State is a snapshot of a coordinator, delivered to listeners on every change.
type State struct {
	Phase      Phase
	Generation uint64
	DataURL    string
	Err        error
}
