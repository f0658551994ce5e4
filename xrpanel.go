package xrpanel

import "fmt"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for panel positions, offsets, sizes and deltas.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rect is an axis-aligned rectangle in panel space.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// ContainsPoint is Contains for a Vec2.
func (r Rect) ContainsPoint(p Vec2) bool {
	return r.Contains(p.X, p.Y)
}

// Min returns the rectangle's origin corner.
func (r Rect) Min() Vec2 {
	return Vec2{r.X, r.Y}
}

// Size returns the rectangle's width and height as a Vec2.
func (r Rect) Size() Vec2 {
	return Vec2{r.Width, r.Height}
}

// Hand identifies a logical input source, typically a tracked hand or the
// controller held in it. Each hand drives one pointer.
type Hand string

const (
	HandLeft  Hand = "Left"
	HandRight Hand = "Right"
)

// Pivot is the anchor that maps panel pixel space to the element tree's
// coordinate origin.
type Pivot uint8

const (
	PivotCenter Pivot = iota
	PivotTopLeft
	PivotTopCenter
	PivotTopRight
	PivotLeftCenter
	PivotRightCenter
	PivotBottomLeft
	PivotBottomCenter
	PivotBottomRight
)

var pivotNames = [...]string{
	"center", "top-left", "top-center", "top-right",
	"left-center", "right-center",
	"bottom-left", "bottom-center", "bottom-right",
}

// String returns the kebab-case pivot name.
func (p Pivot) String() string {
	if int(p) < len(pivotNames) {
		return pivotNames[p]
	}
	return fmt.Sprintf("Pivot(%d)", uint8(p))
}

// ParsePivot returns the pivot for a kebab-case name as produced by String.
func ParsePivot(name string) (Pivot, error) {
	for i, n := range pivotNames {
		if n == name {
			return Pivot(i), nil
		}
	}
	return PivotCenter, fmt.Errorf("unknown pivot %q", name)
}

// Anchor returns the pivot's normalized position within the panel, with
// (0, 0) at the bottom-left corner and (1, 1) at the top-right.
func (p Pivot) Anchor() (float64, float64) {
	switch p {
	case PivotTopLeft:
		return 0, 1
	case PivotTopCenter:
		return 0.5, 1
	case PivotTopRight:
		return 1, 1
	case PivotLeftCenter:
		return 0, 0.5
	case PivotRightCenter:
		return 1, 0.5
	case PivotBottomLeft:
		return 0, 0
	case PivotBottomCenter:
		return 0.5, 0
	case PivotBottomRight:
		return 1, 0
	default:
		return 0.5, 0.5
	}
}

// Offset returns the pixel offset of the pivot inside a panel of the given
// size. Subtracting it from a bottom-left based panel coordinate yields the
// element tree coordinate.
func (p Pivot) Offset(width, height float64) Vec2 {
	ax, ay := p.Anchor()
	return Vec2{width * ax, height * ay}
}

// EventType identifies a kind of synthesized pointer event.
type EventType uint8

const (
	EventPointerEnter  EventType = iota // pointer started hovering an element
	EventPointerLeave                   // pointer stopped hovering an element
	EventPointerMove                    // pointer position update, sent every frame over the panel
	EventPointerDown                    // trigger pressed
	EventPointerUp                      // trigger released
	EventPointerCancel                  // pointer interaction aborted
)

var eventTypeNames = [...]string{"enter", "leave", "move", "down", "up", "cancel"}

// String returns a short lowercase name for the event type.
func (e EventType) String() string {
	if int(e) < len(eventTypeNames) {
		return eventTypeNames[e]
	}
	return fmt.Sprintf("EventType(%d)", uint8(e))
}

// PointerType is the device class reported on synthesized events.
type PointerType uint8

const (
	PointerMouse PointerType = iota
	PointerTouch
	PointerPen // used for every synthesized XR pointer
)

// MouseButton identifies a pointer button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary button; the trigger / pinch
	MouseButtonRight                     // secondary button
	MouseButtonMiddle                    // middle button
)

// KeyModifiers is a bitmask of keyboard modifier keys. Synthesized XR
// events never carry modifiers.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)
