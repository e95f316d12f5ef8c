// Package host runs a [bramble.Director] inside an [Ebitengine] game loop.
//
// [Run] opens a window, reads mouse and touch input into
// [bramble.PointerEvent] values, ticks the director at the engine's TPS, and
// draws through a [Canvas] that maps bramble draw commands onto
// *ebiten.Image. For full control, wrap the director with [NewGame] and pass
// the result to ebiten.RunGame yourself.
//
// [Ebitengine]: https://ebitengine.org
package host
