package xrpanel

// ElementKind distinguishes built-in control types that are interactive by
// nature.
type ElementKind uint8

const (
	ElementGeneric ElementKind = iota // plain visual element or container
	ElementButton                     // button control; always interactive
)

// ButtonClass is the style class that marks an element as interactive.
const ButtonClass = "button"

// elementIDCounter is a plain counter; xrpanel is single-threaded.
var elementIDCounter uint32

func nextElementID() uint32 {
	elementIDCounter++
	return elementIDCounter
}

// Element is a node of the retained UI tree drawn on the panel. The tree owns
// its elements; the picker only keeps non-owning references and checks
// IsDisposed before touching them.
type Element struct {
	// Identity
	ID   uint32
	Name string
	Kind ElementKind

	// Hierarchy
	Parent   *Element
	children []*Element

	// Layout, local to the parent's origin.
	X, Y          float64
	Width, Height float64

	// Computed
	worldX, worldY float64
	layoutDirty    bool

	Visible   bool
	Focusable bool
	classes   []string

	// Color is the element's tint. It is not used by the picker; hosts use
	// it for hover / active feedback.
	Color Color

	UserData any

	// Pseudo-states
	hovered bool
	active  bool

	// OnClick attaches a click gesture. Elements with a click gesture are
	// interactive. The picker never calls it; hosts wire it from pointer-up.
	OnClick func(PointerEvent)

	// Per-element callbacks (nil by default)
	OnPointerEnter  func(PointerEvent)
	OnPointerLeave  func(PointerEvent)
	OnPointerMove   func(PointerEvent)
	OnPointerDown   func(PointerEvent)
	OnPointerUp     func(PointerEvent)
	OnPointerCancel func(PointerEvent)

	disposed bool
}

func elementDefaults(e *Element) {
	e.ID = nextElementID()
	e.Visible = true
	e.Color = ColorWhite
	e.layoutDirty = true
}

// NewElement creates a generic element with the given local rectangle.
func NewElement(name string, x, y, w, h float64) *Element {
	e := &Element{Name: name, Kind: ElementGeneric, X: x, Y: y, Width: w, Height: h}
	elementDefaults(e)
	return e
}

// NewButton creates a button element with the given local rectangle.
func NewButton(name string, x, y, w, h float64) *Element {
	e := NewElement(name, x, y, w, h)
	e.Kind = ElementButton
	return e
}

// --- Classes ---

// AddClass adds a style class. Adding a class twice has no effect.
func (e *Element) AddClass(class string) {
	if e.HasClass(class) {
		return
	}
	e.classes = append(e.classes, class)
}

// RemoveClass removes a style class if present.
func (e *Element) RemoveClass(class string) {
	for i, c := range e.classes {
		if c == class {
			e.classes = append(e.classes[:i], e.classes[i+1:]...)
			return
		}
	}
}

// HasClass reports whether the element carries the given style class.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

// Classes returns the class list. The returned slice MUST NOT be mutated.
func (e *Element) Classes() []string {
	return e.classes
}

// Clickable reports whether a click gesture is attached.
func (e *Element) Clickable() bool {
	return e.OnClick != nil
}

// --- Pseudo-states ---

// IsHovered reports whether a pointer currently hovers the element.
func (e *Element) IsHovered() bool { return e.hovered }

// IsActive reports whether the element is in its pressed visual state.
func (e *Element) IsActive() bool { return e.active }

// SetHovered sets the hover pseudo-state. No-op on disposed elements.
func (e *Element) SetHovered(on bool) {
	if e == nil || e.disposed {
		return
	}
	e.hovered = on
}

// SetActive sets the active pseudo-state. No-op on disposed elements.
func (e *Element) SetActive(on bool) {
	if e == nil || e.disposed {
		return
	}
	e.active = on
}

// --- Tree manipulation ---

// AddChild appends child to this element's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this element (cycle).
func (e *Element) AddChild(child *Element) {
	if child == nil {
		panic("xrpanel: cannot add nil child")
	}
	if isAncestor(child, e) {
		panic("xrpanel: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = e
	e.children = append(e.children, child)
	markSubtreeDirty(child)
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (e *Element) AddChildAt(child *Element, index int) {
	if child == nil {
		panic("xrpanel: cannot add nil child")
	}
	if isAncestor(child, e) {
		panic("xrpanel: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	if index < 0 || index > len(e.children) {
		panic("xrpanel: child index out of range")
	}
	child.Parent = e
	e.children = append(e.children, nil)
	copy(e.children[index+1:], e.children[index:])
	e.children[index] = child
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this element.
// Panics if child.Parent != e.
func (e *Element) RemoveChild(child *Element) {
	if child.Parent != e {
		panic("xrpanel: child's parent is not this element")
	}
	e.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this element from its parent.
// No-op if this element has no parent.
func (e *Element) RemoveFromParent() {
	if e.Parent == nil {
		return
	}
	e.Parent.RemoveChild(e)
}

// Children returns the child list in draw order. The returned slice MUST NOT
// be mutated by the caller.
func (e *Element) Children() []*Element {
	return e.children
}

// NumChildren returns the number of children.
func (e *Element) NumChildren() int {
	return len(e.children)
}

// ChildAt returns the child at the given index.
func (e *Element) ChildAt(index int) *Element {
	return e.children[index]
}

// --- Disposal ---

// Dispose removes this element from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (e *Element) Dispose() {
	if e.disposed {
		return
	}
	e.RemoveFromParent()
	e.dispose()
}

func (e *Element) dispose() {
	e.disposed = true
	e.ID = 0
	for _, child := range e.children {
		child.Parent = nil
		child.dispose()
	}
	e.children = nil
	e.Parent = nil
	e.classes = nil
	e.hovered = false
	e.active = false
	e.UserData = nil
	e.OnClick = nil
	e.OnPointerEnter = nil
	e.OnPointerLeave = nil
	e.OnPointerMove = nil
	e.OnPointerDown = nil
	e.OnPointerUp = nil
	e.OnPointerCancel = nil
}

// IsDisposed returns true if this element has been disposed.
func (e *Element) IsDisposed() bool {
	return e.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of (or equal to) el.
func isAncestor(candidate, el *Element) bool {
	for p := el; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.Parent.
func (e *Element) removeChildByPtr(child *Element) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}

// alive reports whether a weak element reference can still be used.
func alive(e *Element) bool {
	return e != nil && !e.disposed
}
