package bramble

import "testing"

// recordingCanvas records the calls of one frame.
type recordingCanvas struct {
	ops    []string
	colors []Color
	mats   []Affine
}

func (c *recordingCanvas) FillRect(m Affine, w, h float64, col Color) {
	c.record("rect", m, col)
}

func (c *recordingCanvas) DrawImage(m Affine, tex Texture, col Color) {
	c.record("image", m, col)
}

func (c *recordingCanvas) DrawText(m Affine, text string, size float64, col Color) {
	c.record("text:"+text, m, col)
}

func (c *recordingCanvas) record(op string, m Affine, col Color) {
	c.ops = append(c.ops, op)
	c.colors = append(c.colors, col)
	c.mats = append(c.mats, m)
}

// customDraw is a Drawable that records what it was given.
type customDraw struct {
	calls   int
	world   Affine
	opacity float64
}

func (d *customDraw) Draw(c Canvas, world Affine, opacity float64) {
	d.calls++
	d.world = world
	d.opacity = opacity
	c.FillRect(world, 1, 1, ColorWhite)
}

func drawFrame(d *Director) *recordingCanvas {
	c := &recordingCanvas{}
	d.Draw(c)
	return c
}

func assertOps(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDrawOrder(t *testing.T) {
	s := NewScene("s")
	sprite := NewSprite("sprite", fakeTexture{32, 16})
	s.AddChildZ(NewLabel("front", 10), 1)
	s.AddChild(sprite)
	s.AddChildZ(NewColorLayer("bg", ColorBlack, 960, 480), -1)
	sprite.AddChildZ(NewLabel("under", 10), -5)
	sprite.AddChild(NewLabel("over", 10))

	d := runningDirector(t, s)
	c := drawFrame(d)
	assertOps(t, c.ops, []string{"rect", "text:under", "image", "text:over", "text:front"})
}

func TestDrawSkipsInvisibleAndEmpty(t *testing.T) {
	s := NewScene("s")
	hidden := NewColorLayer("hidden", ColorWhite, 10, 10)
	hidden.Visible = false
	hidden.AddChild(NewLabel("child of hidden", 10))
	s.AddChild(hidden)
	s.AddChild(NewLabel("", 10))
	s.AddChild(NewSprite("no texture", nil))

	d := runningDirector(t, s)
	if c := drawFrame(d); len(c.ops) != 0 {
		t.Errorf("ops = %v, want none", c.ops)
	}
}

func TestDrawWithoutScene(t *testing.T) {
	if c := drawFrame(newTestDirector()); len(c.ops) != 0 {
		t.Errorf("ops = %v, want none", c.ops)
	}
}

func TestDrawInheritsOpacity(t *testing.T) {
	s := NewScene("s")
	group := NewNode("group")
	group.Opacity = 0.5
	layer := NewColorLayer("layer", Color{1, 0, 0, 0.5}, 10, 10)
	group.AddChild(layer)
	s.AddChild(group)

	d := runningDirector(t, s)
	c := drawFrame(d)
	if len(c.colors) != 1 {
		t.Fatalf("ops = %v, want one rect", c.ops)
	}
	if got := c.colors[0]; got != (Color{1, 0, 0, 0.25}) {
		t.Errorf("color = %v, want {1 0 0 0.25}", got)
	}
}

func TestDrawMapsThroughViewport(t *testing.T) {
	s := NewScene("s")
	sprite := NewSprite("sprite", fakeTexture{32, 16})
	sprite.SetPosition(10, 20)
	s.AddChild(sprite)

	d := runningDirector(t, s)
	c := drawFrame(d)
	if m := c.mats[0]; m[4] != -6 || m[5] != 12 {
		t.Errorf("translation = (%v, %v), want (-6, 12)", m[4], m[5])
	}

	d.Resize(1920, 960)
	c = drawFrame(d)
	if m := c.mats[0]; m[0] != 2 || m[4] != -12 || m[5] != 24 {
		t.Errorf("matrix = %v, want scale 2 and translation (-12, 24)", m)
	}
}

func TestDrawCustom(t *testing.T) {
	s := NewScene("s")
	n := NewColorLayer("n", ColorWhite, 5, 5)
	n.Opacity = 0.5
	n.SetPosition(3, 4)
	custom := &customDraw{}
	n.Custom = custom
	s.AddChild(n)
	s.AddChild(NewLabel("after", 10))

	d := runningDirector(t, s)
	c := drawFrame(d)
	assertOps(t, c.ops, []string{"rect", "rect", "text:after"})
	if custom.calls != 1 || custom.opacity != 0.5 {
		t.Errorf("custom calls = %d opacity = %v, want 1 and 0.5", custom.calls, custom.opacity)
	}
	if custom.world[4] != 3 || custom.world[5] != 4 {
		t.Errorf("custom world translation = (%v, %v), want (3, 4)", custom.world[4], custom.world[5])
	}
}

func TestDrawFadeTransition(t *testing.T) {
	a := NewScene("a")
	a.AddChild(NewLabel("out", 10))
	b := NewScene("b")
	b.AddChild(NewLabel("in", 10))
	d := runningDirector(t, a)
	if err := d.ReplaceScene(NewTransitionFade(1, b, Color{0.2, 0.2, 0.2, 0.1})); err != nil {
		t.Fatal(err)
	}

	d.Tick(0.25)
	c := drawFrame(d)
	assertOps(t, c.ops, []string{"text:out", "rect"})
	if got := c.colors[1]; !approxEqual(got.A, 0.5, 1e-6) || got.R != 0.2 {
		t.Errorf("overlay = %v, want grey at alpha 0.5", got)
	}

	d.Tick(0.5)
	c = drawFrame(d)
	assertOps(t, c.ops, []string{"text:in", "rect"})
	if got := c.colors[1]; !approxEqual(got.A, 0.5, 1e-6) {
		t.Errorf("overlay alpha = %v, want 0.5", got.A)
	}

	d.Tick(0.5)
	c = drawFrame(d)
	assertOps(t, c.ops, []string{"text:in"})
}

func TestDrawSlideTransition(t *testing.T) {
	a := NewScene("a")
	a.AddChild(NewLabel("out", 10))
	b := NewScene("b")
	b.AddChild(NewLabel("in", 10))
	d := runningDirector(t, a)
	if err := d.ReplaceScene(NewTransitionSlideInL(1, b)); err != nil {
		t.Fatal(err)
	}
	d.Tick(0.5)
	c := drawFrame(d)
	assertOps(t, c.ops, []string{"text:out", "text:in"})
}

func TestDrawStatsOverlay(t *testing.T) {
	d := newTestDirector()
	d.SetDisplayStats(true)
	if err := d.RunWithScene(NewScene("s")); err != nil {
		t.Fatal(err)
	}
	c := drawFrame(d)
	if len(c.ops) != 1 || c.ops[0] != "text:"+d.StatsText() {
		t.Errorf("ops = %v, want the stats label", c.ops)
	}
}
