package display

// DeviceClass distinguishes pointer-rich desktops from constrained devices.
type DeviceClass int

const (
	// Desktop has a fine pointer and a wide viewport.
	Desktop DeviceClass = iota
	// Constrained has a coarse pointer or a narrow viewport.
	Constrained
)

// NarrowViewport is the viewport width, in CSS pixels, below which a device is constrained.
const NarrowViewport = 768

// ClassifyDevice derives the device class from pointer precision and viewport width.
func ClassifyDevice(coarsePointer bool, viewportWidth int) DeviceClass {
	if coarsePointer || viewportWidth < NarrowViewport {
		return Constrained
	}
	return Desktop
}

// String returns the device class name.
func (d DeviceClass) String() string {
	if d == Constrained {
		return "constrained"
	}
	return "desktop"
}
