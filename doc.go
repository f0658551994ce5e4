// Package xrpanel routes XR hand and controller input into a retained UI
// element tree drawn on a flat panel in 3D space.
//
// Each frame a [RayInteraction] casts every hand's ray at the panel collider
// and reports where it lands in panel pixels. An [ElementPicker] turns those
// hits into one logical pointer per hand: it hit-tests the [Element] tree,
// debounces hover, press and release, and synthesizes pointer enter, leave,
// move, down, up and cancel events. Pinch or trigger booleans are
// edge-detected by a [Trigger] and forwarded to [ElementPicker.Press] and
// [ElementPicker.Release] by a [TriggerInteraction].
//
// # Quick start
//
//	doc := xrpanel.NewDocument(800, 600, xrpanel.PivotCenter)
//	ok := xrpanel.NewButton("ok", 350, 280, 100, 40) // centred; children are root-relative
//	ok.OnPointerUp = func(e xrpanel.PointerEvent) { fmt.Println("clicked by", e.Hand) }
//	doc.Root().AddChild(ok)
//
//	collider := &xrpanel.BoxCollider{Pose: panelPose}
//	bounds := xrpanel.NewBoundsDriver(doc, collider)
//	rays := xrpanel.NewRayInteraction(doc, &xrpanel.Surface{Normal: normal}, collider)
//	rays.SetHandSource(xrpanel.HandLeft, &xrpanel.HandRaySource{Hand: leftHand})
//
//	picker := xrpanel.NewElementPicker(doc, rays, xrpanel.DefaultPickerConfig())
//	triggers := xrpanel.NewTriggerInteraction(picker)
//	triggers.Bind(xrpanel.HandLeft, leftPinch)
//
//	// every frame:
//	bounds.Sync()
//	rays.Update()
//	leftPinch.Update(leftHand.IsPinching())
//	picker.Update(dt)
//
// # Timing
//
// The picker keeps its own clock, advanced only by [ElementPicker.Update].
// A new hover target must stay under the ray for [PickerConfig.HoverDwell]
// before enter and leave fire, except within [PickerConfig.ClickCooldown]
// of a release, when hover moves silently. A release is followed by a
// pointer-cancel on the next Update, and the pressed element's active state
// clears [PickerConfig.ActiveClearDelay] after the release.
//
// # Blocking
//
// While any token is registered with the picker's [InteractionBlocker]
// (by default [DefaultBlocker]) every pointer is cancelled and presses are
// ignored. Modal UI typically holds a [BlockHandle] for its lifetime.
//
// # Desktop testing
//
// [CursorHitSource], [MouseTrigger] and [KeyTrigger] drive a picker from an
// Ebitengine window, and [ScriptRunner] replays scripted hits and presses
// (see cmd/xrpanel-replay). The ecs subpackage publishes events into a
// [Donburi] world.
//
// [Donburi]: https://github.com/yohamta/donburi
package xrpanel
