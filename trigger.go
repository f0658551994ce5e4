package xrpanel

// Trigger edge-detects a per-frame pinch or trigger boolean into selected and
// unselected notifications.
type Trigger struct {
	prev       bool
	selected   callbackRegistry[func()]
	unselected callbackRegistry[func()]
}

// NewTrigger creates a trigger seeded with the current pressed state, so a
// finger already pinching when tracking starts does not fire.
func NewTrigger(pressed bool) *Trigger {
	return &Trigger{prev: pressed}
}

// Update feeds the current pressed state. It fires OnSelected handlers on a
// false to true edge and OnUnselected handlers on a true to false edge.
func (t *Trigger) Update(pressed bool) {
	switch {
	case pressed && !t.prev:
		t.prev = pressed
		t.selected.each(invoke)
	case !pressed && t.prev:
		t.prev = pressed
		t.unselected.each(invoke)
	}
}

// Reset seeds the previous state without firing.
func (t *Trigger) Reset(pressed bool) {
	t.prev = pressed
}

// Pressed returns the last observed state.
func (t *Trigger) Pressed() bool {
	return t.prev
}

// OnSelected registers fn for false to true edges.
func (t *Trigger) OnSelected(fn func()) CallbackHandle {
	return t.selected.add(fn)
}

// OnUnselected registers fn for true to false edges.
func (t *Trigger) OnUnselected(fn func()) CallbackHandle {
	return t.unselected.add(fn)
}

func invoke(fn func()) { fn() }

// Presser is the press / release surface of an ElementPicker.
type Presser interface {
	Press(hand Hand)
	Release(hand Hand)
}

// TriggerInteraction forwards trigger edges to a picker's Press and Release,
// dropping them while the blocker is blocked.
type TriggerInteraction struct {
	picker  Presser
	blocker *InteractionBlocker
	bound   map[Hand][2]CallbackHandle
}

// NewTriggerInteraction creates a binding to picker. It consults
// DefaultBlocker unless SetBlocker is called.
func NewTriggerInteraction(picker Presser) *TriggerInteraction {
	return &TriggerInteraction{
		picker:  picker,
		blocker: DefaultBlocker,
		bound:   make(map[Hand][2]CallbackHandle),
	}
}

// SetBlocker replaces the blocker consulted on each edge.
func (ti *TriggerInteraction) SetBlocker(b *InteractionBlocker) {
	ti.blocker = b
}

// Bind routes trigger's edges to hand, replacing any earlier binding for it.
func (ti *TriggerInteraction) Bind(hand Hand, trigger *Trigger) {
	ti.Unbind(hand)
	if trigger == nil {
		return
	}
	down := trigger.OnSelected(func() { ti.down(hand) })
	up := trigger.OnUnselected(func() { ti.up(hand) })
	ti.bound[hand] = [2]CallbackHandle{down, up}
}

// Unbind stops routing edges for hand.
func (ti *TriggerInteraction) Unbind(hand Hand) {
	hs, ok := ti.bound[hand]
	if !ok {
		return
	}
	hs[0].Remove()
	hs[1].Remove()
	delete(ti.bound, hand)
}

// UnbindAll removes every binding.
func (ti *TriggerInteraction) UnbindAll() {
	for hand := range ti.bound {
		ti.Unbind(hand)
	}
}

func (ti *TriggerInteraction) blocked() bool {
	return ti.blocker != nil && ti.blocker.IsBlocked()
}

func (ti *TriggerInteraction) down(hand Hand) {
	if ti.blocked() || ti.picker == nil {
		return
	}
	ti.picker.Press(hand)
}

func (ti *TriggerInteraction) up(hand Hand) {
	if ti.blocked() || ti.picker == nil {
		return
	}
	ti.picker.Release(hand)
}
