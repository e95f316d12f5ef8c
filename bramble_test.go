package bramble

import "testing"

// --- Rect.Contains ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"left edge", 10, 40, true},
		{"bottom edge", 50, 70, true},
		{"outside left", 9, 40, false},
		{"outside right", 111, 40, false},
		{"outside above", 50, 19, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Contains(tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

// --- Rect.Intersects ---

func TestRectIntersects(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"containing", Rect{0, 0, 200, 200}, true},
		{"adjacent right", Rect{110, 10, 50, 50}, true},
		{"adjacent top", Rect{10, -50, 50, 60}, true},
		{"disjoint right", Rect{111, 10, 50, 50}, false},
		{"disjoint below", Rect{10, 111, 50, 50}, false},
		{"zero-size at corner", Rect{110, 110, 0, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.Intersects(tt.other)
			if got != tt.expect {
				t.Errorf("Rect%v.Intersects(Rect%v) = %v, want %v", base, tt.other, got, tt.expect)
			}
		})
	}
}

// --- Vec2 ---

func TestVec2Ops(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, -4}
	if got := a.Add(b); got != (Vec2{4, -2}) {
		t.Errorf("Add = %v, want {4 -2}", got)
	}
	if got := a.Sub(b); got != (Vec2{-2, 6}) {
		t.Errorf("Sub = %v, want {-2 6}", got)
	}
	if got := a.Scale(3); got != (Vec2{3, 6}) {
		t.Errorf("Scale = %v, want {3 6}", got)
	}
}

func TestLerpAndClamp(t *testing.T) {
	if got := lerp(10, 20, 0.25); got != 12.5 {
		t.Errorf("lerp = %v, want 12.5", got)
	}
	for in, want := range map[float64]float64{-1: 0, 0.3: 0.3, 2: 1} {
		if got := clamp01(in); got != want {
			t.Errorf("clamp01(%v) = %v, want %v", in, got, want)
		}
	}
}

// --- Enum constant values (catch accidental iota drift) ---

func TestEnumValues(t *testing.T) {
	// NodeType
	if NodeTypeContainer != 0 {
		t.Errorf("NodeTypeContainer = %d, want 0", NodeTypeContainer)
	}
	if NodeTypeMenuItem != 7 {
		t.Errorf("NodeTypeMenuItem = %d, want 7", NodeTypeMenuItem)
	}

	// EventType
	if EventSceneEnter != 0 {
		t.Errorf("EventSceneEnter = %d, want 0", EventSceneEnter)
	}
	if EventMenuActivate != 4 {
		t.Errorf("EventMenuActivate = %d, want 4", EventMenuActivate)
	}

	// ResolutionPolicy
	if ShowAll != 0 {
		t.Errorf("ShowAll = %d, want 0", ShowAll)
	}
	if FixedHeight != 4 {
		t.Errorf("FixedHeight = %d, want 4", FixedHeight)
	}

	// PointerPhase
	if PointerDown != 0 || PointerCancel != 3 {
		t.Errorf("PointerDown = %d, PointerCancel = %d, want 0 and 3", PointerDown, PointerCancel)
	}

	// CommandType
	if CommandRect != 0 || CommandCustom != 3 {
		t.Errorf("CommandRect = %d, CommandCustom = %d, want 0 and 3", CommandRect, CommandCustom)
	}
}

func TestColorConstants(t *testing.T) {
	if ColorWhite.R != 1 || ColorWhite.G != 1 || ColorWhite.B != 1 || ColorWhite.A != 1 {
		t.Errorf("ColorWhite = %v, want {1,1,1,1}", ColorWhite)
	}
	if ColorBlack != (Color{0, 0, 0, 1}) {
		t.Errorf("ColorBlack = %v, want {0,0,0,1}", ColorBlack)
	}
}

// --- Benchmarks (verify zero allocations) ---

func BenchmarkRectContains(b *testing.B) {
	r := Rect{10, 20, 100, 50}
	b.ReportAllocs()
	for b.Loop() {
		_ = r.Contains(50, 40)
	}
}

func BenchmarkSchedulerTick(b *testing.B) {
	s := NewScheduler(nil)
	root := NewNode("root")
	root.enter(s)
	for i := 0; i < 100; i++ {
		n := NewNode("n")
		root.AddChild(n)
		n.RunAction(RepeatForever(RotateBy(1, 360)))
	}
	b.ReportAllocs()
	for b.Loop() {
		s.Tick(1.0 / 60)
	}
}

func BenchmarkDraw(b *testing.B) {
	d := NewDirector(Config{})
	d.SetLogger(nil)
	scene := NewScene("bench")
	for i := 0; i < 100; i++ {
		scene.AddChild(NewColorLayer("c", ColorWhite, 10, 10))
	}
	if err := d.RunWithScene(scene); err != nil {
		b.Fatal(err)
	}
	c := &recordingCanvas{}
	b.ReportAllocs()
	for b.Loop() {
		c.ops, c.colors, c.mats = c.ops[:0], c.colors[:0], c.mats[:0]
		d.Draw(c)
	}
}
