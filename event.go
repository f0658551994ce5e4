package xrpanel

// PointerEvent is a synthesized low-level pointer event delivered into the
// element tree.
type PointerEvent struct {
	Type   EventType
	Target *Element // resolved target; the document root when nothing else applies
	Hand   Hand

	PointerID   int
	PointerType PointerType
	IsPrimary   bool

	Position      Vec2 // panel space
	LocalPosition Vec2 // Position minus the target's world origin
	Delta         Vec2 // movement since the previous frame

	Button         MouseButton
	PressedButtons uint8
	ClickCount     int
	Modifiers      KeyModifiers
	Pressure       float64
}

// EventSink receives every dispatched pointer event after per-element
// callbacks. It is the bridge to external event systems such as an ECS.
type EventSink interface {
	EmitEvent(event PointerEvent)
}

// --- Handler registry ---

type registeredCallback[F any] struct {
	id uint32
	fn F
}

// callbackRegistry holds callbacks of one signature in registration order.
type callbackRegistry[F any] struct {
	handlers []registeredCallback[F]
	nextID   uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id  uint32
	reg interface{ remove(id uint32) }
}

// Remove unregisters this callback so it no longer fires. Removing twice, or
// removing the zero handle, is a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.remove(h.id)
}

func (r *callbackRegistry[F]) add(fn F) CallbackHandle {
	r.nextID++
	id := r.nextID
	r.handlers = append(r.handlers, registeredCallback[F]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: r}
}

func (r *callbackRegistry[F]) remove(id uint32) {
	s := r.handlers
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = registeredCallback[F]{}
			r.handlers = s[:len(s)-1]
			return
		}
	}
}

// each calls call with every registered callback.
func (r *callbackRegistry[F]) each(call func(F)) {
	for _, h := range r.handlers {
		call(h.fn)
	}
}

// elementCallback returns the per-element callback for the event type.
func elementCallback(e *Element, t EventType) func(PointerEvent) {
	switch t {
	case EventPointerEnter:
		return e.OnPointerEnter
	case EventPointerLeave:
		return e.OnPointerLeave
	case EventPointerMove:
		return e.OnPointerMove
	case EventPointerDown:
		return e.OnPointerDown
	case EventPointerUp:
		return e.OnPointerUp
	case EventPointerCancel:
		return e.OnPointerCancel
	}
	return nil
}
