package xrpanel

// runScheduled runs deferred cancels queued on an earlier frame, then active
// clears whose deadline has passed. Work queued while running waits for the
// next frame.
func (p *ElementPicker) runScheduled() {
	if len(p.deferred) > 0 {
		queued := p.deferred
		p.deferred = nil
		var keep []deferredCancel
		for _, d := range queued {
			if d.frame >= p.frame {
				keep = append(keep, d)
				continue
			}
			p.runDeferredCancel(d)
		}
		p.deferred = append(keep, p.deferred...)
	}

	if len(p.clears) > 0 {
		var due []*Element
		n := 0
		for _, c := range p.clears {
			if c.deadline <= p.now {
				due = append(due, c.element)
				continue
			}
			p.clears[n] = c
			n++
		}
		clear(p.clears[n:])
		p.clears = p.clears[:n]
		for _, el := range due {
			p.logf("active clear: %s", elementName(el))
			el.SetActive(false)
		}
	}
}

// runDeferredCancel sends the post-release cancel to the pressed element,
// else the hovered one, else the root.
func (p *ElementPicker) runDeferredCancel(d deferredCancel) {
	st := d.state
	pressed := d.pressed
	if !alive(pressed) {
		pressed = nil
	}
	target := pressed
	if target == nil && alive(st.hovered) {
		target = st.hovered
	}
	p.logf("deferred cancel %s: %s", st.hand, elementName(target))
	p.dispatch(p.newEvent(st, EventPointerCancel, target, st.position, Vec2{}))
	if st.hasPosition {
		p.sendMove(st, st.position, Vec2{})
	}
	if pressed != nil {
		p.scheduleClear(pressed, d.releaseTime+p.cfg.ActiveClearDelay)
	}
}

// supersedeDeferred drops st's queued cancel when a new press starts before
// it ran. The previously pressed element still gets its delayed clear unless
// the new press holds it.
func (p *ElementPicker) supersedeDeferred(st *pointerState) {
	n := 0
	for _, d := range p.deferred {
		if d.state != st {
			p.deferred[n] = d
			n++
			continue
		}
		p.logf("deferred cancel %s: superseded by press", st.hand)
		if alive(d.pressed) && d.pressed != st.pressedEl {
			p.scheduleClear(d.pressed, d.releaseTime+p.cfg.ActiveClearDelay)
		}
	}
	clear(p.deferred[n:])
	p.deferred = p.deferred[:n]
}

// scheduleClear arranges for el's active state to clear at deadline. A clear
// already pending for el is replaced.
func (p *ElementPicker) scheduleClear(el *Element, deadline float64) {
	p.cancelClear(el)
	p.clears = append(p.clears, activeClear{element: el, deadline: deadline})
}

// cancelClear drops the pending active clear for el, if any.
func (p *ElementPicker) cancelClear(el *Element) {
	for i, c := range p.clears {
		if c.element == el {
			copy(p.clears[i:], p.clears[i+1:])
			p.clears[len(p.clears)-1] = activeClear{}
			p.clears = p.clears[:len(p.clears)-1]
			return
		}
	}
}

// dropDeferred discards every queued deferred cancel, clearing the active
// state it would eventually have cleared.
func (p *ElementPicker) dropDeferred() {
	for _, d := range p.deferred {
		if alive(d.pressed) {
			p.cancelClear(d.pressed)
			d.pressed.SetActive(false)
		}
	}
	clear(p.deferred)
	p.deferred = p.deferred[:0]
}

// PendingClear reports the deadline of el's pending active clear.
func (p *ElementPicker) PendingClear(el *Element) (float64, bool) {
	for _, c := range p.clears {
		if c.element == el {
			return c.deadline, true
		}
	}
	return 0, false
}

// PendingCancels returns the number of deferred cancels waiting for the next
// frame.
func (p *ElementPicker) PendingCancels() int {
	return len(p.deferred)
}
