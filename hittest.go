package xrpanel

// isInteractive reports whether el accepts pointer interaction. The document
// root never does.
func isInteractive(el, root *Element) bool {
	if el == nil || el == root {
		return false
	}
	return el.Kind == ElementButton ||
		el.Focusable ||
		el.HasClass(ButtonClass) ||
		el.Clickable()
}

// hitTest finds the topmost interactive element under p, or nil.
// Non-interactive elements are transparent but still bound the search: a
// point outside an element skips its whole subtree.
func hitTest(root *Element, p Vec2) *Element {
	if !alive(root) || !root.Visible {
		return nil
	}
	if !root.WorldBound().ContainsPoint(p) {
		return nil
	}
	return hitTestRecursive(root, root, p)
}

func hitTestRecursive(el, root *Element, p Vec2) *Element {
	if !el.Visible || !el.WorldBound().ContainsPoint(p) {
		return nil
	}
	// Iterate backward (reverse draw order): topmost sibling first.
	for i := len(el.children) - 1; i >= 0; i-- {
		if hit := hitTestRecursive(el.children[i], root, p); hit != nil {
			return hit
		}
	}
	if isInteractive(el, root) {
		return el
	}
	return nil
}

// FindInteractiveParent returns el itself or its nearest ancestor that is
// interactive, stopping at root. It returns nil when el is not inside root
// or no interactive element is found.
func FindInteractiveParent(el, root *Element) *Element {
	if el == nil || root == nil {
		return nil
	}
	if !isAncestor(root, el) {
		return nil
	}
	for cur := el; cur != nil && cur != root; cur = cur.Parent {
		if isInteractive(cur, root) {
			return cur
		}
	}
	return nil
}

// ElementAt returns the topmost interactive element of the document at the
// panel-space point p, or nil.
func (d *Document) ElementAt(p Vec2) *Element {
	return hitTest(d.root, p)
}
