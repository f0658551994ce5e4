package ecs

import (
	"github.com/phanxgames/xrpanel"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// PointerData mirrors one hand's pointer as seen through its events.
type PointerData struct {
	Hand      xrpanel.Hand
	PointerID int
	Position  xrpanel.Vec2
	Hovered   *xrpanel.Element
	Pressed   bool
	Events    int
}

// PointerComponent holds a PointerData on the entity of each hand.
var PointerComponent = donburi.NewComponentType[PointerData]()

// PointerSystem keeps one entity per hand up to date from PointerEventType.
type PointerSystem struct {
	world    donburi.World
	entities map[xrpanel.Hand]donburi.Entity
	query    *donburi.Query
}

// NewPointerSystem creates the system and subscribes it to PointerEventType.
// Entities are updated when the world's events are processed.
func NewPointerSystem(world donburi.World) *PointerSystem {
	s := &PointerSystem{
		world:    world,
		entities: make(map[xrpanel.Hand]donburi.Entity),
		query:    donburi.NewQuery(filter.Contains(PointerComponent)),
	}
	PointerEventType.Subscribe(world, s.onEvent)
	return s
}

func (s *PointerSystem) entry(hand xrpanel.Hand) *donburi.Entry {
	e, ok := s.entities[hand]
	if !ok || !s.world.Valid(e) {
		e = s.world.Create(PointerComponent)
		s.entities[hand] = e
	}
	return s.world.Entry(e)
}

func (s *PointerSystem) onEvent(_ donburi.World, evt xrpanel.PointerEvent) {
	data := PointerComponent.Get(s.entry(evt.Hand))
	data.Hand = evt.Hand
	data.PointerID = evt.PointerID
	data.Position = evt.Position
	data.Events++

	switch evt.Type {
	case xrpanel.EventPointerEnter:
		data.Hovered = evt.Target
	case xrpanel.EventPointerLeave:
		if data.Hovered == evt.Target {
			data.Hovered = nil
		}
	case xrpanel.EventPointerDown:
		data.Pressed = true
	case xrpanel.EventPointerUp, xrpanel.EventPointerCancel:
		data.Pressed = false
	}
}

// Pointer returns the mirrored state of hand.
func (s *PointerSystem) Pointer(hand xrpanel.Hand) (PointerData, bool) {
	e, ok := s.entities[hand]
	if !ok || !s.world.Valid(e) {
		return PointerData{}, false
	}
	return *PointerComponent.Get(s.world.Entry(e)), true
}

// Each calls fn for every pointer entity in the world.
func (s *PointerSystem) Each(fn func(PointerData)) {
	s.query.Each(s.world, func(entry *donburi.Entry) {
		fn(*PointerComponent.Get(entry))
	})
}
