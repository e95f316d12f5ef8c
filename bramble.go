package bramble

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is opaque black, the default fade color for transitions.
var ColorBlack = Color{0, 0, 0, 1}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Size is a width/height pair in design units.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// NodeType distinguishes built-in behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer  NodeType = iota // group node with no visual output
	NodeTypeScene                      // root of one complete application state
	NodeTypeLayer                      // full-window group node
	NodeTypeColorLayer                 // full-window solid color rectangle
	NodeTypeSprite                     // renders an opaque Texture handle
	NodeTypeLabel                      // renders a text string
	NodeTypeMenu                       // dispatches pointer input to MenuItems
	NodeTypeMenuItem                   // activatable entry of a Menu
)

var nodeTypeNames = [...]string{
	NodeTypeContainer:  "container",
	NodeTypeScene:      "scene",
	NodeTypeLayer:      "layer",
	NodeTypeColorLayer: "color-layer",
	NodeTypeSprite:     "sprite",
	NodeTypeLabel:      "label",
	NodeTypeMenu:       "menu",
	NodeTypeMenuItem:   "menu-item",
}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "unknown"
}

// Forever is the duration of actions that never complete on their own.
var Forever = math.Inf(1)

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// lerp linearly interpolates between a and b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp01 limits v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
