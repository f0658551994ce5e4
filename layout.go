package xrpanel

// updateWorldBounds recomputes the world origin of e and its descendants.
// parentRecomputed forces recomputation even when e itself is clean.
func updateWorldBounds(e *Element, parentX, parentY float64, parentRecomputed bool) {
	recompute := e.layoutDirty || parentRecomputed
	if recompute {
		e.worldX = parentX + e.X
		e.worldY = parentY + e.Y
		e.layoutDirty = false
	}
	for _, child := range e.children {
		updateWorldBounds(child, e.worldX, e.worldY, recompute)
	}
}

// markSubtreeDirty sets layoutDirty on el and all its descendants.
func markSubtreeDirty(el *Element) {
	el.layoutDirty = true
	for _, child := range el.children {
		markSubtreeDirty(child)
	}
}

// SetPosition sets the element's local X and Y and marks its subtree dirty.
func (e *Element) SetPosition(x, y float64) {
	e.X = x
	e.Y = y
	markSubtreeDirty(e)
}

// SetSize sets the element's width and height.
func (e *Element) SetSize(w, h float64) {
	e.Width = w
	e.Height = h
}

// MarkDirty forces the element's world bounds to be recomputed. Call it
// after writing X or Y directly.
func (e *Element) MarkDirty() {
	markSubtreeDirty(e)
}

// WorldBound returns the element's rectangle in panel space.
func (e *Element) WorldBound() Rect {
	if e.layoutDirty {
		var px, py float64
		if e.Parent != nil {
			pb := e.Parent.WorldBound()
			px, py = pb.X, pb.Y
		}
		e.worldX = px + e.X
		e.worldY = py + e.Y
		e.layoutDirty = false
	}
	return Rect{X: e.worldX, Y: e.worldY, Width: e.Width, Height: e.Height}
}

// PanelToLocal converts a panel-space point to this element's local space.
func (e *Element) PanelToLocal(p Vec2) Vec2 {
	return p.Sub(e.WorldBound().Min())
}

// LocalToPanel converts a local point to panel space.
func (e *Element) LocalToPanel(p Vec2) Vec2 {
	return p.Add(e.WorldBound().Min())
}
