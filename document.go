package xrpanel

import "math"

// Panel is the identity of the rendering surface a document is attached to.
// Swapping a document's panel is treated as a new surface: every pointer is
// cancelled.
type Panel struct {
	Name string
}

// NewPanel creates a panel identity.
func NewPanel(name string) *Panel {
	return &Panel{Name: name}
}

// SizeMode selects where a document's pixel size comes from.
type SizeMode uint8

const (
	SizeFixed   SizeMode = iota // Width and Height fields
	SizeDynamic                 // the root element's world bound
)

// Document hosts the element tree shown on a panel.
type Document struct {
	root  *Element
	panel *Panel

	// Width and Height are the panel size in pixels when SizeMode is SizeFixed.
	Width, Height float64
	SizeMode      SizeMode

	// Pivot maps panel pixel space to element coordinates.
	Pivot Pivot

	// PixelsPerUnit converts ray-space coordinates to panel pixels.
	PixelsPerUnit float64

	// Interactive gates all pointer routing for this document.
	Interactive bool
}

// NewDocument creates a fixed-size document with a root element covering the
// panel in pivot-relative coordinates.
func NewDocument(width, height float64, pivot Pivot) *Document {
	off := pivot.Offset(width, height)
	root := NewElement("root", -off.X, -off.Y, width, height)
	return &Document{
		root:          root,
		panel:         NewPanel("panel"),
		Width:         width,
		Height:        height,
		Pivot:         pivot,
		PixelsPerUnit: 1,
		Interactive:   true,
	}
}

// Root returns the document's root element, or nil if it has none.
func (d *Document) Root() *Element {
	return d.root
}

// SetRoot replaces the root element.
func (d *Document) SetRoot(root *Element) {
	d.root = root
}

// Panel returns the panel the document is attached to, or nil.
func (d *Document) Panel() *Panel {
	return d.panel
}

// SetPanel attaches the document to a different panel.
func (d *Document) SetPanel(p *Panel) {
	d.panel = p
}

// PanelSize returns the panel size in pixels.
func (d *Document) PanelSize() (float64, float64) {
	if d.SizeMode == SizeDynamic {
		if d.root == nil {
			return 0, 0
		}
		b := d.root.WorldBound()
		return sanitizeSize(b.Width), sanitizeSize(b.Height)
	}
	return sanitizeSize(d.Width), sanitizeSize(d.Height)
}

// EffectivePixelsPerUnit returns the pixels-per-unit used for coordinate
// conversion. Invalid values fall back to 1; dynamic documents always use 1.
func (d *Document) EffectivePixelsPerUnit() float64 {
	if d.SizeMode == SizeDynamic {
		return 1
	}
	return validPixelsPerUnit(d.PixelsPerUnit)
}

func validPixelsPerUnit(ppu float64) float64 {
	if math.IsNaN(ppu) || math.IsInf(ppu, 0) || ppu <= 0 {
		return 1
	}
	return ppu
}

func sanitizeSize(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
