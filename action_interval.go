package bramble

import "math"

// newInterval wraps an interpolator in an interval action. Negative durations
// are treated as zero.
func newInterval(duration float64, fx interpolator) *Action {
	if duration < 0 || math.IsNaN(duration) {
		duration = 0
	}
	return &Action{Kind: ActionInterval, duration: duration, effect: fx}
}

// --- Move ---

// moveBy offsets the position. Concurrent moves on the same node stack: each
// update folds in whatever other actions changed since the previous update.
type moveBy struct {
	delta    Vec2
	to       Vec2
	absolute bool
	start    Vec2
	prev     Vec2
}

func (m *moveBy) begin(n *Node) {
	m.start = n.Position()
	m.prev = m.start
	if m.absolute {
		m.delta = m.to.Sub(m.start)
	}
}

func (m *moveBy) update(n *Node, t float64) {
	cur := n.Position()
	m.start = m.start.Add(cur.Sub(m.prev))
	next := m.start.Add(m.delta.Scale(t))
	n.SetPosition(next.X, next.Y)
	m.prev = next
}

func (m *moveBy) reverse() interpolator {
	if m.absolute {
		return nil
	}
	return &moveBy{delta: m.delta.Scale(-1)}
}

func (m *moveBy) clone() interpolator {
	c := *m
	return &c
}

// MoveBy moves the node by (dx, dy) over duration seconds.
func MoveBy(duration, dx, dy float64) *Action {
	return newInterval(duration, &moveBy{delta: Vec2{dx, dy}})
}

// MoveTo moves the node to (x, y) over duration seconds.
func MoveTo(duration, x, y float64) *Action {
	return newInterval(duration, &moveBy{to: Vec2{x, y}, absolute: true})
}

// --- Jump ---

type jumpBy struct {
	delta    Vec2
	to       Vec2
	absolute bool
	height   float64
	jumps    int
	start    Vec2
	prev     Vec2
}

func (j *jumpBy) begin(n *Node) {
	j.start = n.Position()
	j.prev = j.start
	if j.absolute {
		j.delta = j.to.Sub(j.start)
	}
}

func (j *jumpBy) update(n *Node, t float64) {
	frac := math.Mod(t*float64(j.jumps), 1)
	if t >= 1 {
		frac = 0
	}
	// Y grows downward, so the arc subtracts height.
	y := -j.height*4*frac*(1-frac) + j.delta.Y*t
	x := j.delta.X * t

	cur := n.Position()
	j.start = j.start.Add(cur.Sub(j.prev))
	next := Vec2{j.start.X + x, j.start.Y + y}
	n.SetPosition(next.X, next.Y)
	j.prev = next
}

func (j *jumpBy) reverse() interpolator {
	if j.absolute {
		return nil
	}
	return &jumpBy{delta: j.delta.Scale(-1), height: j.height, jumps: j.jumps}
}

func (j *jumpBy) clone() interpolator {
	c := *j
	return &c
}

// JumpBy moves the node by (dx, dy) with the given number of parabolic hops
// of the given height.
func JumpBy(duration, dx, dy, height float64, jumps int) *Action {
	return newInterval(duration, &jumpBy{delta: Vec2{dx, dy}, height: height, jumps: max(jumps, 1)})
}

// JumpTo hops the node to (x, y).
func JumpTo(duration, x, y, height float64, jumps int) *Action {
	return newInterval(duration, &jumpBy{to: Vec2{x, y}, absolute: true, height: height, jumps: max(jumps, 1)})
}

// --- Bezier ---

type bezierBy struct {
	c1, c2, end Vec2
	absolute    bool
	start       Vec2
	prev        Vec2
	rel         [3]Vec2
}

func (b *bezierBy) begin(n *Node) {
	b.start = n.Position()
	b.prev = b.start
	b.rel = [3]Vec2{b.c1, b.c2, b.end}
	if b.absolute {
		for i := range b.rel {
			b.rel[i] = b.rel[i].Sub(b.start)
		}
	}
}

func bezierAt(a, b, c, d, t float64) float64 {
	u := 1 - t
	return u*u*u*a + 3*t*u*u*b + 3*t*t*u*c + t*t*t*d
}

func (b *bezierBy) update(n *Node, t float64) {
	x := bezierAt(0, b.rel[0].X, b.rel[1].X, b.rel[2].X, t)
	y := bezierAt(0, b.rel[0].Y, b.rel[1].Y, b.rel[2].Y, t)
	cur := n.Position()
	b.start = b.start.Add(cur.Sub(b.prev))
	next := Vec2{b.start.X + x, b.start.Y + y}
	n.SetPosition(next.X, next.Y)
	b.prev = next
}

func (b *bezierBy) reverse() interpolator {
	if b.absolute {
		return nil
	}
	// Walk the same curve from the end point back to the origin.
	return &bezierBy{
		c1:  b.c2.Sub(b.end),
		c2:  b.c1.Sub(b.end),
		end: b.end.Scale(-1),
	}
}

func (b *bezierBy) clone() interpolator {
	c := *b
	return &c
}

// BezierBy moves the node along a cubic bezier with control points and end
// point relative to the starting position.
func BezierBy(duration float64, c1, c2, end Vec2) *Action {
	return newInterval(duration, &bezierBy{c1: c1, c2: c2, end: end})
}

// BezierTo moves the node along a cubic bezier with absolute control points.
func BezierTo(duration float64, c1, c2, end Vec2) *Action {
	return newInterval(duration, &bezierBy{c1: c1, c2: c2, end: end, absolute: true})
}

// --- Rotate ---

type rotateBy struct {
	delta    float64
	to       float64
	absolute bool
	start    float64
}

func (r *rotateBy) begin(n *Node) {
	r.start = n.Rotation
	if !r.absolute {
		return
	}
	// Take the shortest way round.
	if r.start > 0 {
		r.start = math.Mod(r.start, 360)
	} else {
		r.start = math.Mod(r.start, -360)
	}
	r.delta = r.to - r.start
	if r.delta > 180 {
		r.delta -= 360
	}
	if r.delta < -180 {
		r.delta += 360
	}
}

func (r *rotateBy) update(n *Node, t float64) {
	n.Rotation = r.start + r.delta*t
}

func (r *rotateBy) reverse() interpolator {
	if r.absolute {
		return nil
	}
	return &rotateBy{delta: -r.delta}
}

func (r *rotateBy) clone() interpolator {
	c := *r
	return &c
}

// RotateBy rotates the node by deg degrees.
func RotateBy(duration, deg float64) *Action {
	return newInterval(duration, &rotateBy{delta: deg})
}

// RotateTo rotates the node to deg degrees along the shortest arc.
func RotateTo(duration, deg float64) *Action {
	return newInterval(duration, &rotateBy{to: deg, absolute: true})
}

// --- Scale ---

type scaleTo struct {
	byX, byY       float64
	toX, toY       float64
	relative       bool
	startX, startY float64
	endX, endY     float64
}

func (s *scaleTo) begin(n *Node) {
	s.startX, s.startY = n.ScaleX, n.ScaleY
	if s.relative {
		s.endX, s.endY = s.startX*s.byX, s.startY*s.byY
	} else {
		s.endX, s.endY = s.toX, s.toY
	}
}

func (s *scaleTo) update(n *Node, t float64) {
	n.ScaleX = lerp(s.startX, s.endX, t)
	n.ScaleY = lerp(s.startY, s.endY, t)
}

func (s *scaleTo) reverse() interpolator {
	if !s.relative || s.byX == 0 || s.byY == 0 {
		return nil
	}
	return &scaleTo{byX: 1 / s.byX, byY: 1 / s.byY, relative: true}
}

func (s *scaleTo) clone() interpolator {
	c := *s
	return &c
}

// ScaleTo scales the node to (sx, sy).
func ScaleTo(duration, sx, sy float64) *Action {
	return newInterval(duration, &scaleTo{toX: sx, toY: sy})
}

// ScaleBy multiplies the node's scale by (sx, sy).
func ScaleBy(duration, sx, sy float64) *Action {
	return newInterval(duration, &scaleTo{byX: sx, byY: sy, relative: true})
}

// --- Skew ---

type skewBy struct {
	dx, dy         float64
	toX, toY       float64
	absolute       bool
	startX, startY float64
}

func (s *skewBy) begin(n *Node) {
	s.startX, s.startY = n.SkewX, n.SkewY
	if s.absolute {
		s.dx = s.toX - s.startX
		s.dy = s.toY - s.startY
	}
}

func (s *skewBy) update(n *Node, t float64) {
	n.SkewX = s.startX + s.dx*t
	n.SkewY = s.startY + s.dy*t
}

func (s *skewBy) reverse() interpolator {
	if s.absolute {
		return nil
	}
	return &skewBy{dx: -s.dx, dy: -s.dy}
}

func (s *skewBy) clone() interpolator {
	c := *s
	return &c
}

// SkewBy skews the node by (dx, dy) degrees.
func SkewBy(duration, dx, dy float64) *Action {
	return newInterval(duration, &skewBy{dx: dx, dy: dy})
}

// SkewTo skews the node to (x, y) degrees.
func SkewTo(duration, x, y float64) *Action {
	return newInterval(duration, &skewBy{toX: x, toY: y, absolute: true})
}

// --- Fade ---

type fadeTo struct {
	to    float64
	start float64
	dir   int // +1 fade in, -1 fade out, 0 explicit target
}

func (f *fadeTo) begin(n *Node) {
	f.start = n.Opacity
	switch f.dir {
	case 1:
		f.to = 1
	case -1:
		f.to = 0
	}
}

func (f *fadeTo) update(n *Node, t float64) {
	n.Opacity = lerp(f.start, f.to, t)
}

func (f *fadeTo) reverse() interpolator {
	if f.dir == 0 {
		return nil
	}
	return &fadeTo{dir: -f.dir}
}

func (f *fadeTo) clone() interpolator {
	c := *f
	return &c
}

// FadeTo changes the node's opacity to o in [0, 1].
func FadeTo(duration, o float64) *Action {
	return newInterval(duration, &fadeTo{to: clamp01(o)})
}

// FadeIn raises the node's opacity to 1.
func FadeIn(duration float64) *Action {
	return newInterval(duration, &fadeTo{dir: 1})
}

// FadeOut lowers the node's opacity to 0.
func FadeOut(duration float64) *Action {
	return newInterval(duration, &fadeTo{dir: -1})
}

// --- Tint ---

type tintTo struct {
	to       Color
	delta    Color
	relative bool
	start    Color
}

func (c *tintTo) begin(n *Node) {
	c.start = n.Color
	if c.relative {
		c.to = Color{
			R: clamp01(c.start.R + c.delta.R),
			G: clamp01(c.start.G + c.delta.G),
			B: clamp01(c.start.B + c.delta.B),
			A: c.start.A,
		}
	}
}

func (c *tintTo) update(n *Node, t float64) {
	n.Color = Color{
		R: lerp(c.start.R, c.to.R, t),
		G: lerp(c.start.G, c.to.G, t),
		B: lerp(c.start.B, c.to.B, t),
		A: c.start.A,
	}
}

func (c *tintTo) reverse() interpolator {
	if !c.relative {
		return nil
	}
	return &tintTo{delta: Color{-c.delta.R, -c.delta.G, -c.delta.B, 0}, relative: true}
}

func (c *tintTo) clone() interpolator {
	cp := *c
	return &cp
}

// TintTo tints the node's color to (r, g, b), components in [0, 1].
func TintTo(duration, r, g, b float64) *Action {
	return newInterval(duration, &tintTo{to: Color{r, g, b, 1}})
}

// TintBy shifts the node's color by (dr, dg, db).
func TintBy(duration, dr, dg, db float64) *Action {
	return newInterval(duration, &tintTo{delta: Color{dr, dg, db, 0}, relative: true})
}

// --- Blink ---

type blink struct {
	times    int
	original bool
}

func (b *blink) begin(n *Node) {
	b.original = n.Visible
}

func (b *blink) update(n *Node, t float64) {
	if t >= 1 {
		n.Visible = b.original
		return
	}
	slice := 1 / float64(b.times)
	m := math.Mod(t, slice)
	n.Visible = m > slice/2
}

func (b *blink) reverse() interpolator { return &blink{times: b.times} }

func (b *blink) clone() interpolator {
	c := *b
	return &c
}

// Blink toggles visibility times times over duration, restoring the original
// visibility at the end.
func Blink(duration float64, times int) *Action {
	return newInterval(duration, &blink{times: max(times, 1)})
}

// --- Delay ---

type delay struct{}

func (delay) begin(*Node)             {}
func (delay) update(*Node, float64)   {}
func (d delay) reverse() interpolator { return d }
func (d delay) clone() interpolator   { return d }

// DelayTime waits for duration seconds without touching the node.
func DelayTime(duration float64) *Action {
	return newInterval(duration, delay{})
}
