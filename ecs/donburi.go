package ecs

import (
	"github.com/phanxgames/xrpanel"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// PointerEventType is the Donburi event type for picker pointer events.
var PointerEventType = events.NewEventType[xrpanel.PointerEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on PointerEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) xrpanel.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event xrpanel.PointerEvent) {
	PointerEventType.Publish(s.world, event)
}
