package xrpanel

import "math"

// colliderDepth is the thickness given to the panel collider, in world units.
const colliderDepth = 0.01

// BoundsDriver keeps a panel collider sized and centred to its document. Call
// Sync once per frame; it only writes the collider when the document's size,
// pivot, pixels-per-unit or panel changed.
type BoundsDriver struct {
	Document *Document
	Collider *BoxCollider

	// Clip, when set, receives the same size and center as Collider. Hosts
	// use it for content clipping volumes.
	Clip *BoxCollider

	last   boundsState
	synced bool
}

type boundsState struct {
	panel  *Panel
	width  float64
	height float64
	pivot  Pivot
	ppu    float64
}

func (s boundsState) equal(o boundsState) bool {
	return s.panel == o.panel &&
		s.width == o.width &&
		s.height == o.height &&
		s.pivot == o.pivot &&
		approxEqual(s.ppu, o.ppu)
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// NewBoundsDriver creates a driver and applies the current document state.
func NewBoundsDriver(doc *Document, collider *BoxCollider) *BoundsDriver {
	d := &BoundsDriver{Document: doc, Collider: collider}
	d.apply(true)
	return d
}

// Sync applies the document state if it changed since the last call. It
// reports whether the collider was written.
func (d *BoundsDriver) Sync() bool {
	return d.apply(false)
}

// ForceSync applies the document state unconditionally.
func (d *BoundsDriver) ForceSync() bool {
	return d.apply(true)
}

func (d *BoundsDriver) read() boundsState {
	if d.Document == nil {
		return boundsState{ppu: 1}
	}
	w, h := d.Document.PanelSize()
	return boundsState{
		panel:  d.Document.Panel(),
		width:  w,
		height: h,
		pivot:  d.Document.Pivot,
		ppu:    d.Document.EffectivePixelsPerUnit(),
	}
}

func (d *BoundsDriver) apply(force bool) bool {
	if d.Document == nil || d.Collider == nil {
		return false
	}
	now := d.read()
	if !force && d.synced && d.last.equal(now) {
		return false
	}
	d.last = now
	d.synced = true

	size, center := ColliderBounds(now.width, now.height, now.pivot, now.ppu)
	d.Collider.Size = size
	d.Collider.Center = center
	if d.Clip != nil {
		d.Clip.Size = size
		d.Clip.Center = center
	}
	return true
}

// ColliderBounds returns the local size and center of a panel collider for a
// document of w by h pixels. The pivot sits at the local origin.
func ColliderBounds(w, h float64, pivot Pivot, ppu float64) (size, center Vec3) {
	ppu = math.Max(minPixelsPerUnit, ppu)
	ax, ay := pivot.Anchor()
	size = Vec3{w / ppu, h / ppu, colliderDepth}
	center = Vec3{(0.5 - ax) * w / ppu, (0.5 - ay) * h / ppu, 0}
	return size, center
}
