package xrpanel

import (
	"math"
	"testing"
)

// --- Test helpers ---

// fixedHits is a HitSource whose hits persist until changed.
type fixedHits struct {
	hits []RayHit
}

func (f *fixedHits) Hits() []RayHit { return f.hits }

func (f *fixedHits) set(hand Hand, at Vec2) {
	for i := range f.hits {
		if f.hits[i].Hand == hand {
			f.hits[i].PanelCoord = at
			return
		}
	}
	f.hits = append(f.hits, RayHit{Hand: hand, PanelCoord: at})
}

func (f *fixedHits) clear(hand Hand) {
	for i := range f.hits {
		if f.hits[i].Hand == hand {
			f.hits = append(f.hits[:i], f.hits[i+1:]...)
			return
		}
	}
}

// newTwoButtonDoc builds an 800x600 bottom-left document (panel coordinates
// equal raw ray coordinates) with two side-by-side buttons.
func newTwoButtonDoc() (doc *Document, a, b *Element) {
	doc = NewDocument(800, 600, PivotBottomLeft)
	a = NewButton("btn", 100, 100, 200, 100)
	b = NewButton("other", 400, 100, 200, 100)
	doc.Root().AddChild(a)
	doc.Root().AddChild(b)
	return doc, a, b
}

func newPickerDoc() (*Document, *Element) {
	doc, a, _ := newTwoButtonDoc()
	return doc, a
}

// background is a point over the root only.
var background = Vec2{700, 500}

// btnCenter returns the raw coordinate of el's centre in a bottom-left
// document with one pixel per unit.
func btnCenter(el *Element) Vec2 {
	b := el.WorldBound()
	return Vec2{b.X + b.Width/2, b.Y + b.Height/2}
}

func newTestPicker(doc *Document, src HitSource) *ElementPicker {
	p := NewElementPicker(doc, src, DefaultPickerConfig())
	p.SetBlocker(NewInteractionBlocker())
	return p
}

func runFrames(p *ElementPicker, n int, dt float64) {
	for i := 0; i < n; i++ {
		p.Update(dt)
	}
}

type eventLog struct {
	events []PointerEvent
}

func recordEvents(p *ElementPicker) *eventLog {
	l := &eventLog{}
	p.OnPointerEvent(func(e PointerEvent) { l.events = append(l.events, e) })
	return l
}

func (l *eventLog) reset() { l.events = l.events[:0] }

// nonMove returns every event except pointer-move.
func (l *eventLog) nonMove() []PointerEvent {
	var out []PointerEvent
	for _, e := range l.events {
		if e.Type != EventPointerMove {
			out = append(out, e)
		}
	}
	return out
}

func (l *eventLog) count(t EventType) int {
	n := 0
	for _, e := range l.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type wantEvent struct {
	typ    EventType
	target *Element
}

func checkEvents(t *testing.T, got []PointerEvent, want []wantEvent) {
	t.Helper()
	if len(got) != len(want) {
		names := make([]string, len(got))
		for i, e := range got {
			names[i] = e.Type.String() + ":" + elementName(e.Target)
		}
		t.Fatalf("got %d events %v, want %d", len(got), names, len(want))
	}
	for i, w := range want {
		if got[i].Type != w.typ || got[i].Target != w.target {
			t.Errorf("event %d = %v on %s, want %v on %s",
				i, got[i].Type, elementName(got[i].Target), w.typ, elementName(w.target))
		}
	}
}

// hoverOn points hand at el and runs frames until the dwell has passed.
func hoverOn(p *ElementPicker, src *fixedHits, hand Hand, el *Element) {
	src.set(hand, btnCenter(el))
	runFrames(p, 3, 0.0625)
}

// --- Scenarios ---

func TestPickerClickScenario(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	log := recordEvents(p)

	// t=0: Left ray lands on A.
	src.set(HandLeft, btnCenter(a))
	p.Update(0)
	if a.IsHovered() {
		t.Fatal("hover must wait for the dwell")
	}

	// t=0.15: dwell satisfied, enter fires; press.
	p.Update(0.15)
	if !a.IsHovered() {
		t.Fatal("A should be hovered after 0.15s")
	}
	p.Press(HandLeft)
	if !a.IsActive() {
		t.Error("down should set A active")
	}

	// t=0.30: release.
	p.Update(0.15)
	p.Release(HandLeft)
	if p.Now() != 0.3 {
		t.Fatalf("Now = %v, want 0.3", p.Now())
	}
	checkEvents(t, log.nonMove(), []wantEvent{
		{EventPointerEnter, a},
		{EventPointerDown, a},
		{EventPointerUp, a},
	})
	if p.PendingCancels() != 1 {
		t.Errorf("PendingCancels = %d, want 1", p.PendingCancels())
	}

	// Next frame: cancel arrives and the active clear is scheduled for 0.40.
	log.reset()
	p.Update(1.0 / 64)
	checkEvents(t, log.nonMove(), []wantEvent{{EventPointerCancel, a}})
	deadline, ok := p.PendingClear(a)
	if !ok {
		t.Fatal("expected a pending active clear for A")
	}
	if math.Abs(deadline-0.4) > 1e-9 {
		t.Errorf("clear deadline = %v, want 0.40", deadline)
	}
	if !a.IsActive() {
		t.Error("A stays active until the clear")
	}

	p.Update(0.0625) // t ≈ 0.378
	if !a.IsActive() {
		t.Error("A cleared too early")
	}
	p.Update(0.0625) // t ≈ 0.441
	if a.IsActive() {
		t.Error("A should be inactive after 0.40")
	}
	if _, ok := p.PendingClear(a); ok {
		t.Error("clear should be consumed")
	}
}

func TestPickerRoundTripSingleDownUpCancel(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	log := recordEvents(p)

	p.Press(HandLeft)
	p.Release(HandLeft)
	if got := log.count(EventPointerCancel); got != 0 {
		t.Fatalf("cancel sent before the next frame (%d)", got)
	}
	runFrames(p, 5, 0.0625)

	checkEvents(t, log.nonMove(), []wantEvent{
		{EventPointerDown, a},
		{EventPointerUp, a},
		{EventPointerCancel, a},
	})
}

func TestPickerEventSynthesis(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	log := recordEvents(p)

	p.Press(HandLeft)
	p.Update(0.0625)
	p.Release(HandLeft)

	down, move, up := log.events[0], log.events[1], log.events[2]
	if down.Type != EventPointerDown || move.Type != EventPointerMove || up.Type != EventPointerUp {
		t.Fatalf("unexpected sequence %v %v %v", down.Type, move.Type, up.Type)
	}

	for _, e := range []PointerEvent{down, move, up} {
		if e.PointerID != DefaultLeftPointerID || e.Hand != HandLeft {
			t.Errorf("%v: pointer = %d/%s, want %d/Left", e.Type, e.PointerID, e.Hand, DefaultLeftPointerID)
		}
		if e.PointerType != PointerPen || !e.IsPrimary {
			t.Errorf("%v: want primary pen pointer", e.Type)
		}
		if e.ClickCount != 1 || e.Modifiers != 0 || e.Button != MouseButtonLeft {
			t.Errorf("%v: click/modifiers/button = %d/%d/%d", e.Type, e.ClickCount, e.Modifiers, e.Button)
		}
		if e.Position != (Vec2{200, 150}) {
			t.Errorf("%v: Position = %v, want (200,150)", e.Type, e.Position)
		}
		if e.LocalPosition != (Vec2{100, 50}) {
			t.Errorf("%v: LocalPosition = %v, want (100,50)", e.Type, e.LocalPosition)
		}
	}
	if down.PressedButtons != 1 || down.Pressure != 1 || move.PressedButtons != 1 {
		t.Errorf("pressed events should carry button 1 and pressure 1: %+v", down)
	}
	if up.PressedButtons != 0 || up.Pressure != 0 {
		t.Errorf("up should carry no buttons and zero pressure: %+v", up)
	}
}

// --- Hover debouncing ---

func TestPickerHoverDwell(t *testing.T) {
	doc, a, b := newTwoButtonDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	log := recordEvents(p)

	src.set(HandLeft, btnCenter(b))
	p.Update(0.0625) // candidate B starts
	p.Update(0.0625) // 0.0625s on B
	if len(log.nonMove()) != 0 {
		t.Fatalf("hover moved before the dwell: %v", log.nonMove())
	}
	if info, _ := p.Pointer(HandLeft); info.Hovered != a || !a.IsHovered() || b.IsHovered() {
		t.Fatal("A should keep hover during the dwell")
	}

	p.Update(0.0625) // 0.125s on B
	checkEvents(t, log.nonMove(), []wantEvent{
		{EventPointerLeave, a},
		{EventPointerEnter, b},
	})
	if a.IsHovered() || !b.IsHovered() {
		t.Error("hover flags should follow the transfer")
	}
}

func TestPickerHoverFlickerIgnored(t *testing.T) {
	doc, a, b := newTwoButtonDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	log := recordEvents(p)

	// The ray grazes B for a single frame and comes back.
	src.set(HandLeft, btnCenter(b))
	p.Update(0.0625)
	src.set(HandLeft, btnCenter(a))
	p.Update(0.0625)
	src.set(HandLeft, btnCenter(b))
	p.Update(0.0625)
	src.set(HandLeft, btnCenter(a))
	runFrames(p, 4, 0.0625)

	if got := log.nonMove(); len(got) != 0 {
		t.Errorf("flicker produced events: %v", got)
	}
	if !a.IsHovered() || b.IsHovered() {
		t.Error("A should keep hover")
	}
}

func TestPickerHoverToBackgroundAlsoDwells(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	log := recordEvents(p)

	src.set(HandLeft, background)
	p.Update(0.0625)
	if log.count(EventPointerLeave) != 0 {
		t.Fatal("leave fired before the dwell")
	}
	p.Update(0.0625)
	p.Update(0.0625)
	checkEvents(t, log.nonMove(), []wantEvent{{EventPointerLeave, a}})
}

func TestPickerZeroDwellIsImmediate(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	cfg := DefaultPickerConfig()
	cfg.HoverDwell = 0
	p := NewElementPicker(doc, src, cfg)
	p.SetBlocker(NewInteractionBlocker())

	src.set(HandLeft, btnCenter(a))
	p.Update(0.0625)
	if !a.IsHovered() {
		t.Error("zero dwell should adopt hover on the first frame")
	}
}

// --- Click cooldown ---

func TestPickerClickCooldownSilentTransfer(t *testing.T) {
	doc, a, b := newTwoButtonDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)

	p.Press(HandLeft)
	p.Update(0.0625)
	p.Release(HandLeft)
	log := recordEvents(p)

	// Within the cooldown: hover jumps to B silently.
	src.set(HandLeft, btnCenter(b))
	p.Update(0.0625)
	for _, e := range log.events {
		if e.Type == EventPointerEnter || e.Type == EventPointerLeave {
			t.Fatalf("cooldown transfer fired %v", e.Type)
		}
	}
	if info, _ := p.Pointer(HandLeft); info.Hovered != b {
		t.Errorf("Hovered = %s, want other", elementName(info.Hovered))
	}
	if a.IsHovered() || !b.IsHovered() {
		t.Error("hover flags should move silently")
	}

	// Cooldown over: moving back to A needs the full dwell and fires events.
	p.Update(0.25)
	log.reset()
	src.set(HandLeft, btnCenter(a))
	p.Update(0.0625)
	if len(log.nonMove()) != 0 {
		t.Fatalf("hover moved before the dwell after cooldown: %v", log.nonMove())
	}
	p.Update(0.0625)
	p.Update(0.0625)
	checkEvents(t, log.nonMove(), []wantEvent{
		{EventPointerLeave, b},
		{EventPointerEnter, a},
	})
}

// --- Press / release preconditions ---

func TestPickerPressPreconditions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *ElementPicker, src *fixedHits, a *Element)
	}{
		{"unknown hand", func(p *ElementPicker, src *fixedHits, a *Element) {}},
		{"off panel", func(p *ElementPicker, src *fixedHits, a *Element) {
			hoverOn(p, src, HandLeft, a)
			src.clear(HandLeft)
			p.Update(0.0625)
		}},
		{"already pressed", func(p *ElementPicker, src *fixedHits, a *Element) {
			hoverOn(p, src, HandLeft, a)
			p.Press(HandLeft)
			p.Update(0.0625)
		}},
		{"press debounce", func(p *ElementPicker, src *fixedHits, a *Element) {
			hoverOn(p, src, HandLeft, a)
			p.Press(HandLeft)
			p.Release(HandLeft)
			p.Update(0.03125) // 0.03125s since the press
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, a := newPickerDoc()
			src := &fixedHits{}
			p := newTestPicker(doc, src)
			tt.setup(p, src, a)

			before, _ := p.Pointer(HandLeft)
			log := recordEvents(p)
			p.Press(HandLeft)
			if log.count(EventPointerDown) != 0 {
				t.Error("Press should be a no-op")
			}
			if after, _ := p.Pointer(HandLeft); after != before {
				t.Errorf("state changed: %+v -> %+v", before, after)
			}
		})
	}
}

func TestPickerPressDebounceExpires(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	log := recordEvents(p)

	p.Press(HandLeft)
	p.Release(HandLeft)
	p.Update(0.0625)
	p.Press(HandLeft)
	if log.count(EventPointerDown) != 2 {
		t.Errorf("down count = %d, want 2 once 0.05s has passed", log.count(EventPointerDown))
	}
}

func TestPickerReleasePreconditions(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	log := recordEvents(p)

	p.Release(HandLeft)
	p.Release(HandRight)
	if log.count(EventPointerUp) != 0 {
		t.Fatal("release without press should be a no-op")
	}

	p.Press(HandLeft)
	p.Release(HandLeft) // first release is never debounced
	p.Update(0.0625)
	p.Press(HandLeft)
	p.Release(HandLeft) // 0.0625s since the last release: rejected
	if log.count(EventPointerUp) != 1 {
		t.Fatalf("up count = %d, want 1", log.count(EventPointerUp))
	}
	if info, _ := p.Pointer(HandLeft); !info.Pressed {
		t.Error("rejected release must leave the pointer pressed")
	}

	p.Update(0.0625)
	p.Release(HandLeft)
	if log.count(EventPointerUp) != 2 {
		t.Errorf("up count = %d, want 2 after the interval", log.count(EventPointerUp))
	}
}

func TestPickerPressWithoutHoverTargetsRoot(t *testing.T) {
	doc, _ := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	src.set(HandLeft, background)
	p.Update(0.0625)
	log := recordEvents(p)

	p.Press(HandLeft)
	p.Update(0.0625)
	p.Release(HandLeft)
	p.Update(0.0625)

	root := doc.Root()
	checkEvents(t, log.nonMove(), []wantEvent{
		{EventPointerDown, root},
		{EventPointerUp, root},
		{EventPointerCancel, root},
	})
	if root.IsActive() {
		t.Error("root never takes the active state")
	}
}

// --- Active clear ---

func TestPickerActiveClearReplacedByNewClick(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)

	p.Press(HandLeft)
	p.Release(HandLeft)
	p.Update(0.0625) // deferred cancel schedules the first clear
	first, ok := p.PendingClear(a)
	if !ok {
		t.Fatal("expected first clear")
	}

	p.Press(HandLeft)
	if _, ok := p.PendingClear(a); ok {
		t.Error("a new press must cancel the pending clear")
	}
	p.Update(0.0625)
	p.Release(HandLeft)
	p.Update(0.0625)

	second, ok := p.PendingClear(a)
	if !ok || second <= first {
		t.Fatalf("second clear = %v (ok=%v), want later than %v", second, ok, first)
	}
	if n := len(p.clears); n != 1 {
		t.Errorf("pending clears = %d, want 1", n)
	}

	// Past the first deadline but before the second: still active.
	if p.Now() <= first || p.Now() >= second {
		t.Fatalf("Now = %v, want between %v and %v", p.Now(), first, second)
	}
	if !a.IsActive() {
		t.Error("stale clear fired")
	}
	p.Update(0.125)
	if a.IsActive() {
		t.Error("second clear should have fired")
	}
}

// --- Exit handling ---

func TestPickerExitIsIdempotent(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	log := recordEvents(p)

	src.clear(HandLeft)
	p.Update(0.0625)
	checkEvents(t, log.events, []wantEvent{
		{EventPointerLeave, a},
		{EventPointerMove, doc.Root()},
	})
	if log.events[1].Position != OffPanelPosition {
		t.Errorf("exit move at %v, want sentinel", log.events[1].Position)
	}
	info, _ := p.Pointer(HandLeft)
	if info.HasPosition || info.OverPanel || info.Hovered != nil || info.Position != OffPanelPosition {
		t.Errorf("pointer not reset: %+v", info)
	}
	if a.IsHovered() {
		t.Error("A should lose hover")
	}

	log.reset()
	runFrames(p, 3, 0.0625)
	if len(log.events) != 0 {
		t.Errorf("repeated exit emitted %d events", len(log.events))
	}
}

func TestPickerDelta(t *testing.T) {
	doc, _ := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	log := recordEvents(p)

	src.set(HandLeft, Vec2{10, 10})
	p.Update(0.0625)
	src.set(HandLeft, Vec2{15, 30})
	p.Update(0.0625)
	src.clear(HandLeft)
	p.Update(0.0625)
	src.set(HandLeft, Vec2{50, 50})
	p.Update(0.0625)

	want := []Vec2{{0, 0}, {5, 20}, {0, 0}, {0, 0}}
	if len(log.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(log.events), len(want))
	}
	for i, w := range want {
		if log.events[i].Delta != w {
			t.Errorf("move %d delta = %v, want %v", i, log.events[i].Delta, w)
		}
	}
}

// --- Coordinate conversion ---

func TestPickerCoordinateConversion(t *testing.T) {
	tests := []struct {
		name  string
		pivot Pivot
		ppu   float64
		raw   Vec2
		want  Vec2
	}{
		{"top-right corner", PivotTopRight, 1, Vec2{800, 600}, Vec2{0, 0}},
		{"center", PivotCenter, 1, Vec2{400, 300}, Vec2{0, 0}},
		{"bottom-left", PivotBottomLeft, 1, Vec2{10, 20}, Vec2{10, 20}},
		{"clamped", PivotTopRight, 1, Vec2{900, -50}, Vec2{0, -600}},
		{"pixels per unit", PivotTopRight, 2, Vec2{800, 600}, Vec2{-400, -300}},
		{"invalid ppu falls back", PivotCenter, math.NaN(), Vec2{400, 300}, Vec2{0, 0}},
		{"negative ppu falls back", PivotCenter, -3, Vec2{500, 300}, Vec2{100, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument(800, 600, tt.pivot)
			doc.PixelsPerUnit = tt.ppu
			src := &fixedHits{}
			p := newTestPicker(doc, src)
			src.set(HandRight, tt.raw)
			p.Update(0.0625)

			info, ok := p.Pointer(HandRight)
			if !ok {
				t.Fatal("no pointer state")
			}
			if info.Position != tt.want {
				t.Errorf("Position = %v, want %v", info.Position, tt.want)
			}
			if info.PointerID != DefaultRightPointerID {
				t.Errorf("PointerID = %d, want %d", info.PointerID, DefaultRightPointerID)
			}
		})
	}
}

func TestPickerPivotHitTest(t *testing.T) {
	doc := NewDocument(800, 600, PivotTopRight)
	// Root-relative layout; the root sits at (-800,-600).
	btn := NewButton("corner", 700, 500, 100, 100)
	doc.Root().AddChild(btn)
	src := &fixedHits{}
	p := newTestPicker(doc, src)

	src.set(HandLeft, Vec2{750, 550})
	runFrames(p, 3, 0.0625)
	if !btn.IsHovered() {
		t.Error("top-right button should be hovered")
	}
}

// --- Cancellation ---

func TestPickerPanelSwapCancels(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	p.Press(HandLeft)
	log := recordEvents(p)

	doc.SetPanel(NewPanel("swapped"))
	src.clear(HandLeft)
	p.Update(0.0625)

	checkEvents(t, log.events, []wantEvent{
		{EventPointerLeave, a},
		{EventPointerMove, doc.Root()},
		{EventPointerCancel, a},
	})
	if log.events[2].PressedButtons != 1 {
		t.Error("cancel should be sent while still pressed")
	}
	if a.IsHovered() || a.IsActive() {
		t.Error("pseudo-states should clear")
	}
	info, _ := p.Pointer(HandLeft)
	if info.Pressed || info.Hovered != nil || info.HasPosition || info.OverPanel {
		t.Errorf("pointer not neutral: %+v", info)
	}
}

// eventSignature is the part of an event that must match between a
// cancelled picker and a fresh one.
type eventSignature struct {
	typ     EventType
	target  string
	pos     Vec2
	delta   Vec2
	pressed uint8
}

func signatures(events []PointerEvent) []eventSignature {
	out := make([]eventSignature, len(events))
	for i, e := range events {
		out[i] = eventSignature{e.Type, elementName(e.Target), e.Position, e.Delta, e.PressedButtons}
	}
	return out
}

func TestPickerCancelAllEqualsFresh(t *testing.T) {
	script := func(p *ElementPicker, src *fixedHits, a, b *Element) {
		src.set(HandLeft, btnCenter(a))
		src.set(HandRight, btnCenter(b))
		runFrames(p, 3, 0.0625)
		p.Press(HandLeft)
		p.Press(HandRight)
		p.Update(0.0625)
		p.Release(HandLeft)
		p.Update(0.0625)
		src.set(HandLeft, btnCenter(b))
		runFrames(p, 4, 0.0625)
		src.clear(HandRight)
		p.Update(0.0625)
	}

	// Used picker: put it in a busy state, then swap the panel.
	doc1, a1, b1 := newTwoButtonDoc()
	src1 := &fixedHits{}
	p1 := newTestPicker(doc1, src1)
	src1.set(HandLeft, btnCenter(a1))
	src1.set(HandRight, btnCenter(a1))
	runFrames(p1, 3, 0.0625)
	p1.Press(HandLeft)
	p1.Update(0.0625)
	p1.Release(HandLeft)
	p1.Press(HandRight)
	src1.set(HandLeft, btnCenter(b1)) // pending hover
	doc1.SetPanel(NewPanel("swapped"))
	src1.hits = nil
	p1.Update(0.0625)
	if a1.IsHovered() || a1.IsActive() || b1.IsHovered() {
		t.Fatal("cancel-all left pseudo-states behind")
	}
	log1 := recordEvents(p1)
	script(p1, src1, a1, b1)

	// Fresh picker on an identical document.
	doc2, a2, b2 := newTwoButtonDoc()
	src2 := &fixedHits{}
	p2 := newTestPicker(doc2, src2)
	log2 := recordEvents(p2)
	script(p2, src2, a2, b2)

	s1, s2 := signatures(log1.events), signatures(log2.events)
	if len(s1) != len(s2) {
		t.Fatalf("cancelled picker emitted %d events, fresh %d", len(s1), len(s2))
	}
	for i := range s1 {
		if s1[i] != s2[i] {
			t.Errorf("event %d: cancelled %+v, fresh %+v", i, s1[i], s2[i])
		}
	}
}

func TestPickerBlockerScenario(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	blocker := NewInteractionBlocker()
	p := NewElementPicker(doc, src, DefaultPickerConfig())
	p.SetBlocker(blocker)
	hoverOn(p, src, HandLeft, a)
	p.Press(HandLeft)
	log := recordEvents(p)

	token := new(int)
	blocker.AddBlock(token)
	p.Update(0.0625)
	checkEvents(t, log.events, []wantEvent{
		{EventPointerLeave, a},
		{EventPointerMove, doc.Root()},
		{EventPointerCancel, a},
	})

	log.reset()
	p.Release(HandLeft)
	p.Press(HandLeft)
	runFrames(p, 5, 0.0625)
	p.Press(HandLeft)
	if len(log.events) != 0 {
		t.Errorf("blocked picker emitted %d events", len(log.events))
	}

	blocker.RemoveBlock(token)
	p.Update(0.0625)
	if log.count(EventPointerMove) != 1 || log.count(EventPointerEnter) != 0 {
		t.Error("unblocked picker should resume with a move and restart the dwell")
	}
	runFrames(p, 2, 0.0625)
	p.Press(HandLeft)
	if log.count(EventPointerEnter) != 1 || log.count(EventPointerDown) != 1 {
		t.Error("hover and press should work again after unblocking")
	}
}

func TestPickerUsesDefaultBlocker(t *testing.T) {
	defer ClearBlocks()
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := NewElementPicker(doc, src, DefaultPickerConfig())
	hoverOn(p, src, HandLeft, a)

	AddBlock("modal")
	p.Update(0.0625)
	if a.IsHovered() {
		t.Error("DefaultBlocker should cancel hover")
	}
}

func TestPickerCancelConditions(t *testing.T) {
	tests := []struct {
		name  string
		apply func(doc *Document, p *ElementPicker)
	}{
		{"not interactive", func(doc *Document, p *ElementPicker) { doc.Interactive = false }},
		{"zero size", func(doc *Document, p *ElementPicker) { doc.Width = 0 }},
		{"no hit source", func(doc *Document, p *ElementPicker) { p.SetHitSource(nil) }},
		{"panel detached", func(doc *Document, p *ElementPicker) { doc.SetPanel(nil) }},
		{"root replaced", func(doc *Document, p *ElementPicker) {
			doc.SetRoot(NewElement("root2", 0, 0, 800, 600))
		}},
		{"root removed", func(doc *Document, p *ElementPicker) { doc.SetRoot(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, a := newPickerDoc()
			src := &fixedHits{}
			p := newTestPicker(doc, src)
			hoverOn(p, src, HandLeft, a)
			p.Press(HandLeft)
			log := recordEvents(p)

			tt.apply(doc, p)
			p.Update(0.0625)

			if log.count(EventPointerLeave) != 1 || log.count(EventPointerCancel) != 1 {
				t.Errorf("leave/cancel = %d/%d, want 1/1",
					log.count(EventPointerLeave), log.count(EventPointerCancel))
			}
			if a.IsHovered() || a.IsActive() {
				t.Error("pseudo-states should clear")
			}
			if info, _ := p.Pointer(HandLeft); info.Pressed {
				t.Error("pointer should be released")
			}
		})
	}
}

func TestPickerCancelDropsDeferredWork(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	p.Press(HandLeft)
	p.Release(HandLeft)
	log := recordEvents(p)

	p.CancelAll()
	if p.PendingCancels() != 0 {
		t.Error("deferred cancel should be dropped")
	}
	if a.IsActive() {
		t.Error("active state should clear immediately")
	}
	src.hits = nil
	p.Update(0.0625)
	if log.count(EventPointerCancel) != 0 {
		t.Error("dropped deferred cancel still fired")
	}
}

func TestPickerShutdown(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	p.Press(HandLeft)
	p.Release(HandLeft)
	p.Update(0.0625) // clear scheduled

	p.Shutdown()
	if a.IsActive() || a.IsHovered() {
		t.Error("Shutdown should clear pseudo-states")
	}
	if _, ok := p.PendingClear(a); ok {
		t.Error("Shutdown should drop pending clears")
	}
}

// --- Element lifecycle ---

func TestPickerDisposedHoverIsDropped(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	log := recordEvents(p)

	a.Dispose()
	p.Update(0.0625)
	if log.count(EventPointerLeave) != 0 {
		t.Error("no leave should target a disposed element")
	}
	if info, _ := p.Pointer(HandLeft); info.Hovered != nil {
		t.Error("disposed hover should be forgotten")
	}

	p.Press(HandLeft)
	down := log.nonMove()
	if len(down) != 1 || down[0].Target != doc.Root() {
		t.Errorf("press after dispose should target root, got %v", down)
	}
}

func TestPickerDisposedPressedElement(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)
	p.Press(HandLeft)
	log := recordEvents(p)

	a.Dispose()
	p.Update(0.0625)
	p.Release(HandLeft)
	p.Update(0.0625)

	checkEvents(t, log.nonMove(), []wantEvent{
		{EventPointerUp, doc.Root()},
		{EventPointerCancel, doc.Root()},
	})
}

// --- Multiple hands ---

func TestPickerHandsAreIndependent(t *testing.T) {
	doc, a, b := newTwoButtonDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	src.set(HandLeft, btnCenter(a))
	src.set(HandRight, btnCenter(b))
	log := recordEvents(p)
	runFrames(p, 3, 0.0625)

	left, _ := p.Pointer(HandLeft)
	right, _ := p.Pointer(HandRight)
	if left.Hovered != a || right.Hovered != b {
		t.Fatalf("hovers = %s/%s, want btn/other", elementName(left.Hovered), elementName(right.Hovered))
	}
	if left.PointerID == right.PointerID {
		t.Error("hands must have distinct pointer ids")
	}

	p.Press(HandRight)
	if info, _ := p.Pointer(HandLeft); info.Pressed {
		t.Error("pressing Right must not press Left")
	}
	for _, e := range log.events {
		if e.Type == EventPointerDown && (e.Hand != HandRight || e.PointerID != DefaultRightPointerID) {
			t.Errorf("down attributed to %s/%d", e.Hand, e.PointerID)
		}
	}
}

// --- Dispatch ---

type sinkRecorder struct {
	order *[]string
}

func (s sinkRecorder) EmitEvent(e PointerEvent) {
	*s.order = append(*s.order, "sink:"+e.Type.String())
}

func TestPickerDispatchOrder(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)

	var order []string
	p.OnPointerEvent(func(e PointerEvent) {
		if e.Type == EventPointerEnter {
			order = append(order, "handler:enter")
		}
	})
	a.OnPointerEnter = func(PointerEvent) { order = append(order, "element:enter") }
	p.SetEventSink(sinkRecorder{&order})

	hoverOn(p, src, HandLeft, a)

	var got []string
	for _, o := range order {
		if o != "sink:move" {
			got = append(got, o)
		}
	}
	want := []string{"handler:enter", "element:enter", "sink:enter"}
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPickerCallbackHandleRemove(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)

	calls := 0
	h := p.OnPointerEvent(func(PointerEvent) { calls++ })
	src.set(HandLeft, btnCenter(a))
	p.Update(0.0625)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	h.Remove()
	h.Remove()
	p.Update(0.0625)
	if calls != 1 {
		t.Errorf("removed handler still called (%d)", calls)
	}
}

func TestPickerMoveTargetsHitElement(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	log := recordEvents(p)

	src.set(HandLeft, btnCenter(a))
	p.Update(0.0625)
	src.set(HandLeft, background)
	p.Update(0.0625)

	if log.events[0].Target != a {
		t.Errorf("move over A targeted %s", elementName(log.events[0].Target))
	}
	if log.events[1].Target != doc.Root() {
		t.Errorf("move over background targeted %s", elementName(log.events[1].Target))
	}
}

func TestPickerNilDocument(t *testing.T) {
	p := NewElementPicker(nil, &fixedHits{}, DefaultPickerConfig())
	p.SetBlocker(NewInteractionBlocker())
	p.Update(0.0625)
	p.Press(HandLeft)
	p.Release(HandLeft)
	if _, ok := p.Pointer(HandLeft); ok {
		t.Error("no pointer should exist without a document")
	}
}

func TestPickerClockIgnoresInvalidDt(t *testing.T) {
	p := NewElementPicker(nil, nil, DefaultPickerConfig())
	p.Update(0.5)
	p.Update(-1)
	p.Update(math.Inf(1))
	p.Update(math.NaN())
	if p.Now() != 0.5 {
		t.Errorf("Now = %v, want 0.5", p.Now())
	}
}

func TestPickerIdleCancelClearsClickHistory(t *testing.T) {
	doc, a, b := newTwoButtonDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)

	p.Press(HandLeft)
	p.Update(0.0625)
	p.Release(HandLeft) // t=0.25
	p.Update(0.0625)    // deferred cancel
	src.clear(HandLeft)
	p.Update(0.0625) // hand exits; pointer is idle

	doc.SetPanel(NewPanel("swapped"))
	p.Update(0.0625) // t=0.4375: cancel-all with nothing to cancel
	log := recordEvents(p)

	// Back on the panel 0.195s after the release: a fresh pointer has no
	// cooldown and must wait out the dwell.
	src.set(HandLeft, btnCenter(b))
	p.Update(0.0078125)
	if b.IsHovered() || log.count(EventPointerEnter) != 0 {
		t.Fatal("hover moved without the dwell after cancel-all")
	}
	runFrames(p, 2, 0.0625)
	checkEvents(t, log.nonMove(), []wantEvent{{EventPointerEnter, b}})

	// Debounce history is gone too: an immediate press is accepted.
	p.Press(HandLeft)
	if log.count(EventPointerDown) != 1 {
		t.Error("first press after cancel-all should not be debounced")
	}
}

func TestPickerPressSupersedesDeferredCancel(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)

	p.Press(HandLeft)
	p.Update(0.0625)
	log := recordEvents(p)
	p.Release(HandLeft)
	p.Press(HandLeft) // before the deferred cancel had its frame
	if p.PendingCancels() != 0 {
		t.Errorf("PendingCancels = %d, want 0", p.PendingCancels())
	}
	runFrames(p, 4, 0.0625)

	checkEvents(t, log.nonMove(), []wantEvent{
		{EventPointerUp, a},
		{EventPointerDown, a},
	})
	if info, _ := p.Pointer(HandLeft); !info.Pressed {
		t.Error("second press should still be held")
	}
	if !a.IsActive() {
		t.Error("held press lost its active state")
	}
	if _, ok := p.PendingClear(a); ok {
		t.Error("no clear may be pending for a held element")
	}

	log.reset()
	p.Release(HandLeft)
	runFrames(p, 4, 0.0625)
	checkEvents(t, log.nonMove(), []wantEvent{
		{EventPointerUp, a},
		{EventPointerCancel, a},
	})
	if a.IsActive() {
		t.Error("active state should clear after the final release")
	}
}

func TestPickerPressOnOtherElementKeepsOldClear(t *testing.T) {
	doc, a, b := newTwoButtonDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	hoverOn(p, src, HandLeft, a)

	p.Press(HandLeft)
	src.set(HandLeft, btnCenter(b))
	runFrames(p, 3, 0.0625) // hover moves to B while A is held
	p.Release(HandLeft)     // t=0.375, up to A
	release := p.Now()
	p.Press(HandLeft) // press on B before the cancel frame

	deadline, ok := p.PendingClear(a)
	if !ok || deadline != release+DefaultActiveClearDelay {
		t.Fatalf("A clear = %v (ok=%v), want %v", deadline, ok, release+DefaultActiveClearDelay)
	}
	log := recordEvents(p)
	runFrames(p, 3, 0.0625)
	if a.IsActive() {
		t.Error("A should clear on schedule")
	}
	if !b.IsActive() {
		t.Error("B is held and must stay active")
	}
	if log.count(EventPointerCancel) != 0 {
		t.Error("no cancel may reach the new press")
	}
}

func TestPickerDeferredCancelFallsBackToHover(t *testing.T) {
	doc, a := newPickerDoc()
	src := &fixedHits{}
	p := newTestPicker(doc, src)
	src.set(HandLeft, background)
	p.Update(0.0625)
	p.Press(HandLeft) // nothing hovered: pressed on the root

	src.set(HandLeft, btnCenter(a))
	runFrames(p, 3, 0.0625)
	if !a.IsHovered() {
		t.Fatal("A should be hovered while the press is held")
	}
	log := recordEvents(p)
	p.Release(HandLeft)
	p.Update(0.0625)

	checkEvents(t, log.nonMove(), []wantEvent{
		{EventPointerUp, doc.Root()},
		{EventPointerCancel, a},
	})
	if _, ok := p.PendingClear(a); ok || a.IsActive() {
		t.Error("a hover-only target never takes the active state")
	}
}

func TestPickerClickCooldownBoundaryInclusive(t *testing.T) {
	doc, a, b := newTwoButtonDoc()
	src := &fixedHits{}
	cfg := DefaultPickerConfig()
	cfg.ClickCooldown = 0.25
	p := NewElementPicker(doc, src, cfg)
	p.SetBlocker(NewInteractionBlocker())
	hoverOn(p, src, HandLeft, a)

	p.Press(HandLeft)
	p.Update(0.0625)
	p.Release(HandLeft) // t=0.25
	log := recordEvents(p)

	src.set(HandLeft, btnCenter(b))
	p.Update(0.25) // exactly the cooldown after the release
	if !b.IsHovered() || log.count(EventPointerEnter) != 0 {
		t.Error("transfer at the cooldown boundary should be silent")
	}
}
