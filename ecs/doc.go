// Package ecs bridges bramble director events into a [Donburi] world.
//
// [NewDonburiSink] returns a [bramble.EventSink] that publishes every scene,
// transition and menu event as a typed Donburi event, and mirrors the scenes
// that are currently running as entities carrying a [SceneData] component.
// Subscribe to [DirectorEventType] in your ECS systems to react to them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	director.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
