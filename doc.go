// Package bramble is a retained-mode 2D scene graph with a per-frame action
// scheduler and a scene director, hosted on [Ebitengine].
//
// The core package does no drawing, audio or device input of its own. The
// host drives it: it calls [Director.Tick] once per frame, [Director.Draw]
// with a [Canvas], and [Director.HandlePointer] with decoded pointer events.
// Package bramble/host provides that host for Ebitengine.
//
// # Quick start
//
//	d := bramble.NewDirector(bramble.DefaultConfig())
//	scene := bramble.NewScene("title")
//	label := bramble.NewLabel("Hello", 32)
//	label.SetPosition(480, 240)
//	scene.AddChild(label)
//	d.RunWithScene(scene)
//	host.Run(d, host.RunConfig{Title: "Hello"})
//
// # Scene graph
//
// Every element is a [Node]. Children are drawn in ascending z-order, ties in
// insertion order; children with negative z-order are drawn before their
// parent. A node's world transform is its parent's world transform composed
// with its own local transform (position, rotation in degrees, scale, skew
// and anchor). Coordinates are Y-down in design pixels.
//
// # Actions
//
// Actions animate node properties over time. Interval actions such as
// [MoveBy], [RotateTo] or [FadeOut] run for a duration; instant actions such
// as [CallFunc] or [Hide] complete on their first step; [Sequence], [Spawn],
// [Repeat] and [Speed] combine them. Easing comes from [gween]:
//
//	node.RunAction(bramble.Sequence(
//		bramble.EaseBounceOut(bramble.MoveTo(1, 100, 100)),
//		bramble.RemoveSelf(),
//	))
//
// Actions and timers only advance while their node is part of the running
// scene. Removing a node stops everything scheduled on its subtree.
//
// # Director
//
// The [Director] keeps a stack of scenes ([Director.PushScene],
// [Director.PopScene], [Director.ReplaceScene]) and maps the design
// resolution onto the window with a [ResolutionPolicy]. Transition scenes
// created by [NewTransitionFade] or [NewTransitionSlideInL] animate the
// hand-over between two scenes. Menus ([NewMenu], [NewMenuItemFont]) receive
// pointer input and fire item callbacks on release.
//
// Director events can be forwarded to an ECS world through [EventSink]; see
// bramble/ecs for the [Donburi] adapter.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package bramble
