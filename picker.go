package xrpanel

import (
	"io"
	"math"
	"os"
)

const minPixelsPerUnit = 0.0001

// OffPanelPosition is the sentinel position given to pointers that are not
// over the panel. It lies far outside any element's bounds.
var OffPanelPosition = Vec2{-10000, -10000}

// RayHit is one frame's intersection of a hand's ray with the panel, in raw
// (ray-space) pixel coordinates.
type RayHit struct {
	Hand       Hand
	PanelCoord Vec2
}

// HitSource produces the ray hits for the current frame.
type HitSource interface {
	Hits() []RayHit
}

// --- Per-pointer state ---

type pointerState struct {
	hand      Hand
	pointerID int

	position    Vec2
	hasPosition bool
	overPanel   bool
	pressed     bool

	hovered   *Element
	pressedEl *Element

	lastPressTime   float64
	lastReleaseTime float64
	hasPressed      bool
	hasReleased     bool
	completedClick  bool

	pending      *Element
	pendingSet   bool
	pendingStart float64
}

func (st *pointerState) clearPending() {
	st.pending = nil
	st.pendingSet = false
	st.pendingStart = 0
}

// PointerInfo is a read-only snapshot of one hand's pointer.
type PointerInfo struct {
	Hand           Hand
	PointerID      int
	Position       Vec2
	HasPosition    bool
	OverPanel      bool
	Pressed        bool
	Hovered        *Element
	PressedElement *Element
}

// --- Scheduled work ---

// deferredCancel sends a pointer-cancel on the frame after a release.
type deferredCancel struct {
	state       *pointerState
	pressed     *Element
	frame       uint64
	releaseTime float64
}

// activeClear drops an element's active state at a deadline.
type activeClear struct {
	element  *Element
	deadline float64
}

// ElementPicker turns per-frame ray hits and trigger edges into synthetic
// pointer events on a Document. It keeps one pointer per hand.
//
// All methods must be called from the host's frame loop; the picker is not
// safe for concurrent use.
type ElementPicker struct {
	doc     *Document
	source  HitSource
	cfg     PickerConfig
	blocker *InteractionBlocker
	sink    EventSink

	handlers callbackRegistry[func(PointerEvent)]

	states map[Hand]*pointerState
	order  []Hand // creation order, for deterministic iteration
	active map[Hand]bool

	now   float64
	frame uint64

	deferred []deferredCancel
	clears   []activeClear

	currentRoot  *Element
	currentPanel *Panel
	ppu          float64

	debug    bool
	debugOut io.Writer
}

// NewElementPicker creates a picker for doc fed by source. The picker
// consults DefaultBlocker until SetBlocker is called.
func NewElementPicker(doc *Document, source HitSource, cfg PickerConfig) *ElementPicker {
	return &ElementPicker{
		doc:      doc,
		source:   source,
		cfg:      cfg,
		blocker:  DefaultBlocker,
		states:   make(map[Hand]*pointerState),
		active:   make(map[Hand]bool),
		ppu:      1,
		debugOut: os.Stderr,
	}
}

// SetBlocker replaces the blocker set consulted each frame.
func (p *ElementPicker) SetBlocker(b *InteractionBlocker) {
	p.blocker = b
}

// SetHitSource replaces the ray hit source. A nil source disables routing.
func (p *ElementPicker) SetHitSource(s HitSource) {
	p.source = s
}

// SetEventSink sets the optional external event bridge.
func (p *ElementPicker) SetEventSink(sink EventSink) {
	p.sink = sink
}

// OnPointerEvent registers a callback that observes every dispatched event.
func (p *ElementPicker) OnPointerEvent(fn func(PointerEvent)) CallbackHandle {
	return p.handlers.add(fn)
}

// Document returns the document the picker routes into.
func (p *ElementPicker) Document() *Document {
	return p.doc
}

// Config returns the picker's timing configuration.
func (p *ElementPicker) Config() PickerConfig {
	return p.cfg
}

// Now returns the picker clock in seconds.
func (p *ElementPicker) Now() float64 {
	return p.now
}

// Pointer returns a snapshot of the pointer for hand.
func (p *ElementPicker) Pointer(hand Hand) (PointerInfo, bool) {
	st, ok := p.states[hand]
	if !ok {
		return PointerInfo{}, false
	}
	return PointerInfo{
		Hand:           st.hand,
		PointerID:      st.pointerID,
		Position:       st.position,
		HasPosition:    st.hasPosition,
		OverPanel:      st.overPanel,
		Pressed:        st.pressed,
		Hovered:        st.hovered,
		PressedElement: st.pressedEl,
	}, true
}

func (p *ElementPicker) isBlocked() bool {
	return p.blocker != nil && p.blocker.IsBlocked()
}

// --- Frame update ---

// Update advances the picker clock by dt seconds, runs due scheduled work,
// and routes this frame's ray hits.
func (p *ElementPicker) Update(dt float64) {
	if dt > 0 && !math.IsInf(dt, 0) {
		p.now += dt
	}
	p.frame++
	p.runScheduled()

	doc := p.doc
	if doc == nil || !alive(doc.Root()) {
		if p.currentRoot != nil || p.currentPanel != nil {
			p.cancelAll("document root unavailable")
			p.currentRoot = nil
			p.currentPanel = nil
		}
		return
	}
	root := doc.Root()

	panel := doc.Panel()
	if panel == nil {
		if p.currentPanel != nil {
			p.cancelAll("panel detached")
			p.currentPanel = nil
		}
		p.currentRoot = root
		return
	}

	if root != p.currentRoot || panel != p.currentPanel {
		p.cancelAll("document or panel changed")
		if root != p.currentRoot {
			p.debugCheckTree(root)
		}
		p.currentRoot = root
		p.currentPanel = panel
	}

	if p.source == nil {
		p.cancelAll("no hit source")
		return
	}

	updateWorldBounds(root, 0, 0, false)

	w, h := doc.PanelSize()
	if w <= 0 || h <= 0 {
		p.cancelAll("panel has no size")
		return
	}

	p.ppu = doc.EffectivePixelsPerUnit()

	if p.isBlocked() {
		p.cancelAll("interaction blocked")
		return
	}
	if !doc.Interactive {
		p.cancelAll("document not interactive")
		return
	}

	clear(p.active)
	for _, hit := range p.source.Hits() {
		if p.processMove(hit.Hand, hit.PanelCoord, w, h) {
			p.active[hit.Hand] = true
		}
	}

	for _, hand := range p.order {
		if !p.active[hand] {
			p.processExit(p.states[hand])
		}
	}
}

// panelPosition converts a raw ray coordinate into element-tree space.
func (p *ElementPicker) panelPosition(raw Vec2, w, h float64) Vec2 {
	ppu := math.Max(p.ppu, minPixelsPerUnit)
	ps := raw.Scale(1 / ppu)
	ps.X = clamp(ps.X, 0, w)
	ps.Y = clamp(ps.Y, 0, h)
	return ps.Sub(p.doc.Pivot.Offset(w, h))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

func (p *ElementPicker) stateFor(hand Hand) *pointerState {
	st, ok := p.states[hand]
	if ok {
		return st
	}
	id := p.cfg.RightPointerID
	if hand == HandLeft {
		id = p.cfg.LeftPointerID
	}
	st = &pointerState{hand: hand, pointerID: id, position: OffPanelPosition}
	p.states[hand] = st
	p.order = append(p.order, hand)
	return st
}

// processMove updates a hand that hit the panel this frame.
func (p *ElementPicker) processMove(hand Hand, raw Vec2, w, h float64) bool {
	pos := p.panelPosition(raw, w, h)
	st := p.stateFor(hand)

	var delta Vec2
	if st.hasPosition {
		delta = pos.Sub(st.position)
	}
	st.position = pos
	st.hasPosition = true

	wasOver := st.overPanel
	st.overPanel = true

	p.resolveHover(st, hitTest(p.currentRoot, pos))

	if !wasOver {
		delta = Vec2{}
	}
	p.sendMove(st, pos, delta)
	return true
}

// resolveHover applies the dwell gate and click cooldown to a new top hit.
func (p *ElementPicker) resolveHover(st *pointerState, candidate *Element) {
	if st.hovered != nil && !alive(st.hovered) {
		st.hovered = nil
	}
	if st.pendingSet && st.pending != nil && !alive(st.pending) {
		st.clearPending()
	}

	if candidate == st.hovered {
		st.clearPending()
		return
	}

	if st.completedClick {
		if p.now-st.lastReleaseTime <= p.cfg.ClickCooldown {
			// Ray jitter right after a click: move hover without events.
			if st.hovered != nil {
				st.hovered.SetHovered(false)
			}
			if candidate != nil {
				candidate.SetHovered(true)
			}
			p.logf("hover %s: silent transfer %s -> %s (click cooldown)",
				st.hand, elementName(st.hovered), elementName(candidate))
			st.hovered = candidate
			st.clearPending()
			return
		}
		st.completedClick = false
	}

	if !st.pendingSet || st.pending != candidate {
		st.pending = candidate
		st.pendingSet = true
		st.pendingStart = p.now
	}
	if p.now-st.pendingStart < p.cfg.HoverDwell {
		return
	}
	st.clearPending()
	p.transferHover(st, candidate)
}

func (p *ElementPicker) transferHover(st *pointerState, el *Element) {
	p.logf("hover %s: %s -> %s", st.hand, elementName(st.hovered), elementName(el))
	if st.hovered != nil {
		p.sendLeave(st, st.hovered)
		st.hovered = nil
	}
	if el != nil {
		st.hovered = el
		p.sendEnter(st, el)
	}
}

// processExit handles a tracked hand whose ray missed the panel this frame.
func (p *ElementPicker) processExit(st *pointerState) {
	if st == nil || !st.overPanel {
		return
	}
	if st.hovered != nil {
		if alive(st.hovered) {
			p.sendLeave(st, st.hovered)
		}
		st.hovered = nil
	}
	st.clearPending()
	st.overPanel = false
	st.hasPosition = false
	st.position = OffPanelPosition
	p.sendMove(st, OffPanelPosition, Vec2{})
}

// --- Press / release ---

// Press starts a press for hand. It is a no-op unless the pointer is over the
// panel with a position, is not already pressed, and the previous press was
// at least MinPressInterval ago.
func (p *ElementPicker) Press(hand Hand) {
	st, ok := p.states[hand]
	if !ok || p.isBlocked() {
		return
	}
	if !st.overPanel || !st.hasPosition || st.pressed {
		return
	}
	if st.hasPressed && p.now-st.lastPressTime < p.cfg.MinPressInterval {
		p.logf("press %s: rejected, %.3fs since last press", hand, p.now-st.lastPressTime)
		return
	}
	st.lastPressTime = p.now
	st.hasPressed = true

	st.pressed = true
	st.completedClick = false
	st.pressedEl = nil
	if alive(st.hovered) {
		st.pressedEl = st.hovered
	}
	p.logf("press %s: %s", hand, elementName(st.pressedEl))
	p.supersedeDeferred(st)
	p.sendDown(st)
}

// Release ends a press for hand. It is a no-op unless the pointer is pressed
// and the previous release was at least MinReleaseInterval ago.
func (p *ElementPicker) Release(hand Hand) {
	st, ok := p.states[hand]
	if !ok || p.isBlocked() {
		return
	}
	if !st.pressed {
		return
	}
	if st.hasReleased && p.now-st.lastReleaseTime < p.cfg.MinReleaseInterval {
		p.logf("release %s: rejected, %.3fs since last release", hand, p.now-st.lastReleaseTime)
		return
	}
	st.lastReleaseTime = p.now
	st.hasReleased = true

	st.pressed = false
	pressed := st.pressedEl
	p.logf("release %s: %s", hand, elementName(pressed))
	p.sendUp(st, pressed)

	st.completedClick = true
	st.pressedEl = nil

	p.deferred = append(p.deferred, deferredCancel{
		state:       st,
		pressed:     pressed,
		frame:       p.frame,
		releaseTime: p.now,
	})

	if alive(pressed) {
		p.cancelClear(pressed)
		pressed.SetActive(true)
	}
}

// --- Cancellation ---

// CancelAll resets every pointer to its initial state: hover, position,
// press, click cooldown and debounce history. Leave and cancel events are
// emitted only for pointers that were hovering or pressed.
func (p *ElementPicker) CancelAll() {
	p.cancelAll("requested")
}

func (p *ElementPicker) cancelAll(reason string) {
	busy := len(p.deferred) > 0
	for _, hand := range p.order {
		st := p.states[hand]
		if st.overPanel || st.pressed || st.hovered != nil {
			busy = true
		}
	}
	if busy {
		p.logf("cancel all: %s", reason)
	}
	p.dropDeferred()
	for _, hand := range p.order {
		p.cancelPointer(p.states[hand])
	}
}

func (p *ElementPicker) cancelPointer(st *pointerState) {
	if st.hovered != nil {
		if alive(st.hovered) {
			p.sendLeave(st, st.hovered)
		}
		st.hovered = nil
	}

	if st.overPanel {
		st.overPanel = false
		st.hasPosition = false
		p.sendMove(st, OffPanelPosition, Vec2{})
	}

	if st.pressed {
		target := st.pressedEl
		if alive(target) {
			p.cancelClear(target)
			target.SetActive(false)
		} else {
			target = nil
		}
		p.dispatch(p.newEvent(st, EventPointerCancel, target, st.position, Vec2{}))
		st.pressed = false
		st.pressedEl = nil
	}

	st.position = OffPanelPosition
	st.hasPosition = false
	st.clearPending()
	st.completedClick = false
	st.hasPressed = false
	st.hasReleased = false
	st.lastPressTime = 0
	st.lastReleaseTime = 0
}

// Shutdown cancels every pointer and drops all scheduled work, clearing any
// active state it would have cleared later.
func (p *ElementPicker) Shutdown() {
	p.cancelAll("shutdown")
	for _, c := range p.clears {
		c.element.SetActive(false)
	}
	p.clears = p.clears[:0]
}

// --- Event synthesis ---

func (p *ElementPicker) newEvent(st *pointerState, t EventType, target *Element, pos, delta Vec2) PointerEvent {
	evt := PointerEvent{
		Type:        t,
		Target:      target,
		Hand:        st.hand,
		PointerID:   st.pointerID,
		PointerType: PointerPen,
		IsPrimary:   true,
		Position:    pos,
		Delta:       delta,
		Button:      MouseButtonLeft,
		ClickCount:  1,
	}
	if st.pressed {
		evt.PressedButtons = 1
		evt.Pressure = 1
	}
	return evt
}

func (p *ElementPicker) sendMove(st *pointerState, pos, delta Vec2) {
	target := hitTest(p.currentRoot, pos)
	p.dispatch(p.newEvent(st, EventPointerMove, target, pos, delta))
}

func (p *ElementPicker) sendEnter(st *pointerState, el *Element) {
	p.dispatch(p.newEvent(st, EventPointerEnter, el, st.position, Vec2{}))
	el.SetHovered(true)
}

func (p *ElementPicker) sendLeave(st *pointerState, el *Element) {
	p.dispatch(p.newEvent(st, EventPointerLeave, el, st.position, Vec2{}))
	el.SetHovered(false)
}

func (p *ElementPicker) sendDown(st *pointerState) {
	p.dispatch(p.newEvent(st, EventPointerDown, st.pressedEl, st.position, Vec2{}))
	if st.pressedEl != nil {
		p.cancelClear(st.pressedEl)
		st.pressedEl.SetActive(true)
	}
}

func (p *ElementPicker) sendUp(st *pointerState, pressed *Element) {
	if !alive(pressed) {
		pressed = nil
	}
	p.dispatch(p.newEvent(st, EventPointerUp, pressed, st.position, Vec2{}))
}

// dispatch resolves a missing target to the document root, fills the local
// position, and delivers the event: picker handlers, then the target's
// callback, then the event sink.
func (p *ElementPicker) dispatch(evt PointerEvent) {
	if evt.Target == nil || !alive(evt.Target) {
		evt.Target = p.dispatchRoot()
	}
	if evt.Target == nil {
		return
	}
	evt.LocalPosition = evt.Target.PanelToLocal(evt.Position)

	p.handlers.each(func(fn func(PointerEvent)) { fn(evt) })
	if cb := elementCallback(evt.Target, evt.Type); cb != nil {
		cb(evt)
	}
	if p.sink != nil {
		p.sink.EmitEvent(evt)
	}
}

func (p *ElementPicker) dispatchRoot() *Element {
	if alive(p.currentRoot) {
		return p.currentRoot
	}
	if p.doc != nil && alive(p.doc.Root()) {
		return p.doc.Root()
	}
	return nil
}

func elementName(e *Element) string {
	if e == nil {
		return "<none>"
	}
	return e.Name
}
