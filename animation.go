package bramble

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// EaseIn attaches an easing curve to an interval action and returns it. The
// curve remaps linear progress; the final state is always applied exactly.
// Panics if a is not an interval action.
func EaseIn(a *Action, fn ease.TweenFunc) *Action {
	if a == nil || a.Kind != ActionInterval {
		kind := "nil"
		if a != nil {
			kind = a.Kind.String()
		}
		panic(fmt.Sprintf("bramble: easing applies to interval actions, got %s", kind))
	}
	a.ease = fn
	return a
}

// EaseSineIn eases a with a sine curve that starts slowly.
func EaseSineIn(a *Action) *Action { return EaseIn(a, ease.InSine) }

// EaseSineOut eases a with a sine curve that ends slowly.
func EaseSineOut(a *Action) *Action { return EaseIn(a, ease.OutSine) }

// EaseExponentialOut eases a with an exponential deceleration.
func EaseExponentialOut(a *Action) *Action { return EaseIn(a, ease.OutExpo) }

// EaseBounceIn eases a with a bounce at the start.
func EaseBounceIn(a *Action) *Action { return EaseIn(a, ease.InBounce) }

// EaseBounceOut eases a with a bounce at the end.
func EaseBounceOut(a *Action) *Action { return EaseIn(a, ease.OutBounce) }

// EaseBounceInOut eases a with a bounce at both ends.
func EaseBounceInOut(a *Action) *Action { return EaseIn(a, ease.InOutBounce) }

// tweenEffect drives an arbitrary value through a gween.Tween. The tween is
// rebuilt on every begin so the action can be restarted by Repeat.
type tweenEffect struct {
	from, to float64
	duration float32
	fn       ease.TweenFunc
	set      func(float64)
	tw       *gween.Tween
}

func (e *tweenEffect) begin(*Node) {
	e.tw = gween.New(float32(e.from), float32(e.to), e.duration, e.fn)
}

func (e *tweenEffect) update(_ *Node, t float64) {
	if t >= 1 {
		e.set(e.to)
		return
	}
	val, _ := e.tw.Set(float32(t) * e.duration)
	e.set(float64(val))
}

func (e *tweenEffect) reverse() interpolator {
	return &tweenEffect{from: e.to, to: e.from, duration: e.duration, fn: e.fn, set: e.set}
}

func (e *tweenEffect) clone() interpolator {
	return &tweenEffect{from: e.from, to: e.to, duration: e.duration, fn: e.fn, set: e.set}
}

// Tween animates an arbitrary value from from to to over duration seconds
// with the easing function fn, passing every intermediate value to set. A nil
// fn is linear.
func Tween(duration, from, to float64, fn ease.TweenFunc, set func(float64)) *Action {
	if set == nil {
		panic("bramble: Tween requires a setter")
	}
	if fn == nil {
		fn = ease.Linear
	}
	return newInterval(duration, &tweenEffect{
		from:     from,
		to:       to,
		duration: float32(max(duration, 0)),
		fn:       fn,
		set:      set,
	})
}

// tweenField selects a group of float64 fields on a node.
type tweenField uint8

const (
	tweenPosition tweenField = iota
	tweenScale
	tweenColor
	tweenOpacity
	tweenRotation
)

func (f tweenField) fields(n *Node) []*float64 {
	switch f {
	case tweenPosition:
		return []*float64{&n.X, &n.Y}
	case tweenScale:
		return []*float64{&n.ScaleX, &n.ScaleY}
	case tweenColor:
		return []*float64{&n.Color.R, &n.Color.G, &n.Color.B, &n.Color.A}
	case tweenOpacity:
		return []*float64{&n.Opacity}
	default:
		return []*float64{&n.Rotation}
	}
}

// tweenGroup animates up to 4 fields of the target simultaneously, one gween
// tween per field. Start values are read from the target on begin.
type tweenGroup struct {
	field    tweenField
	to       [4]float64
	duration float32
	fn       ease.TweenFunc
	tweens   [4]*gween.Tween
	count    int
}

func (g *tweenGroup) begin(n *Node) {
	fields := g.field.fields(n)
	g.count = len(fields)
	for i, f := range fields {
		g.tweens[i] = gween.New(float32(*f), float32(g.to[i]), g.duration, g.fn)
	}
}

func (g *tweenGroup) update(n *Node, t float64) {
	fields := g.field.fields(n)
	for i := 0; i < g.count; i++ {
		if t >= 1 {
			*fields[i] = g.to[i]
			continue
		}
		val, _ := g.tweens[i].Set(float32(t) * g.duration)
		*fields[i] = float64(val)
	}
}

func (g *tweenGroup) reverse() interpolator { return nil }

func (g *tweenGroup) clone() interpolator {
	return &tweenGroup{field: g.field, to: g.to, duration: g.duration, fn: g.fn}
}

func newTweenGroup(field tweenField, duration float64, fn ease.TweenFunc, to ...float64) *Action {
	if fn == nil {
		fn = ease.Linear
	}
	g := &tweenGroup{field: field, duration: float32(max(duration, 0)), fn: fn}
	copy(g.to[:], to)
	return newInterval(duration, g)
}

// TweenPosition animates the node's X and Y to (toX, toY).
func TweenPosition(duration, toX, toY float64, fn ease.TweenFunc) *Action {
	return newTweenGroup(tweenPosition, duration, fn, toX, toY)
}

// TweenScale animates ScaleX and ScaleY to (toSX, toSY).
func TweenScale(duration, toSX, toSY float64, fn ease.TweenFunc) *Action {
	return newTweenGroup(tweenScale, duration, fn, toSX, toSY)
}

// TweenColor animates all four components of the node's Color.
func TweenColor(duration float64, to Color, fn ease.TweenFunc) *Action {
	return newTweenGroup(tweenColor, duration, fn, to.R, to.G, to.B, to.A)
}

// TweenOpacity animates the node's Opacity.
func TweenOpacity(duration, to float64, fn ease.TweenFunc) *Action {
	return newTweenGroup(tweenOpacity, duration, fn, to)
}

// TweenRotation animates the node's Rotation in degrees.
func TweenRotation(duration, to float64, fn ease.TweenFunc) *Action {
	return newTweenGroup(tweenRotation, duration, fn, to)
}
