package surface

// Version is reported in the startup banner and exposed to scripts.
const Version = "3.1.0"

// Point is a 2D coordinate. Whether it is physical or logical depends on
// where it came from; see [Transformer].
type Point struct {
	X, Y float64
}

// Box is a rectangle in physical pixels, snapshotted once when a region is
// registered. Right and Bottom are stored rather than derived so that a box
// rounded from logical layout keeps the exact edges it was measured with.
type Box struct {
	Left, Top, Right, Bottom int
	Width, Height            int
}

// Contains reports whether the physical point (x, y) lies inside the box.
// Points on the edge are considered inside.
func (b Box) Contains(x, y int) bool {
	return x >= b.Left && x <= b.Right &&
		y >= b.Top && y <= b.Bottom
}

// LogicalRect is an element's layout rectangle in logical pixels, as the
// content lays it out. The origin is the top-left, Y increasing downward.
type LogicalRect struct {
	Left, Top, Width, Height float64
}

// Right returns the right edge.
func (r LogicalRect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge.
func (r LogicalRect) Bottom() float64 { return r.Top + r.Height }

// ScreenInfo holds the host display size in physical pixels.
type ScreenInfo struct {
	Width, Height int
}

// EventType identifies a kind of host-originated event.
type EventType uint8

const (
	EventMouse           EventType = iota // pointer state (position, buttons)
	EventKeyboard                         // key state
	EventClick                            // click at a physical point
	EventInteractionMode                  // host toggled interaction on or off
)

// String returns the wire name of the event type.
func (t EventType) String() string {
	switch t {
	case EventMouse:
		return "mouse"
	case EventKeyboard:
		return "keyboard"
	case EventClick:
		return "click"
	case EventInteractionMode:
		return "interactionMode"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)
