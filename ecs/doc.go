// Package ecs bridges xrpanel pointer events into a [Donburi] world.
//
// [NewDonburiSink] publishes every event the picker dispatches as a typed
// Donburi event. Subscribe to [PointerEventType] in your systems to receive
// them, or attach a [PointerSystem] to keep one entity per hand that mirrors
// the pointer's position, hover target and press state.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	picker.SetEventSink(sink)
//	pointers := ecs.NewPointerSystem(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
