package bramble

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	s, node := runningNode("pos")
	node.X = 10
	node.Y = 20

	a := node.RunAction(TweenPosition(1.0, 100, 200, ease.Linear))

	s.Tick(0.5)
	if math.Abs(node.X-55) > 0.5 {
		t.Errorf("X at half time = %f, want ~55", node.X)
	}
	s.Tick(0.5)

	if !a.IsDone() {
		t.Fatal("expected done after full duration")
	}
	if node.X != 100 || node.Y != 200 {
		t.Errorf("pos = (%v, %v), want (100, 200)", node.X, node.Y)
	}
}

func TestTweenScaleReachesTarget(t *testing.T) {
	s, node := runningNode("scale")
	node.RunAction(TweenScale(0.5, 2.0, 3.0, ease.Linear))

	s.Tick(0.25)
	s.Tick(0.25)

	if node.ScaleX != 2 || node.ScaleY != 3 {
		t.Errorf("scale = (%v, %v), want (2, 3)", node.ScaleX, node.ScaleY)
	}
}

func TestTweenColorAndOpacity(t *testing.T) {
	s, node := runningNode("color")
	node.RunAction(TweenColor(1, Color{0, 0.5, 1, 0.25}, ease.InOutQuad))
	node.RunAction(TweenOpacity(1, 0, nil))
	s.Tick(1)

	if node.Color != (Color{0, 0.5, 1, 0.25}) {
		t.Errorf("Color = %v, want {0 0.5 1 0.25}", node.Color)
	}
	if node.Opacity != 0 {
		t.Errorf("Opacity = %v, want 0", node.Opacity)
	}
}

func TestTweenRotation(t *testing.T) {
	s, node := runningNode("rot")
	node.RunAction(TweenRotation(2, 90, ease.Linear))
	s.Tick(1)
	if math.Abs(node.Rotation-45) > 0.01 {
		t.Errorf("Rotation at 1s = %v, want ~45", node.Rotation)
	}
}

func TestTweenStartsFromCurrentValue(t *testing.T) {
	s, node := runningNode("late")
	a := TweenPosition(1, 10, 0, ease.Linear)
	node.X = 0
	node.RunAction(Sequence(Place(5, 0), a))
	s.Tick(0.5)
	if math.Abs(node.X-7.5) > 0.01 {
		t.Errorf("X = %v, want ~7.5 (tween starts at 5 when reached)", node.X)
	}
}

func TestTweenValue(t *testing.T) {
	s, node := runningNode("value")
	var got []float64
	node.RunAction(Tween(1, 0, 10, ease.Linear, func(v float64) { got = append(got, v) }))

	s.Tick(0.5)
	s.Tick(0.5)

	if len(got) != 2 {
		t.Fatalf("setter called %d times, want 2", len(got))
	}
	if math.Abs(got[0]-5) > 0.01 || got[1] != 10 {
		t.Errorf("values = %v, want [~5 10]", got)
	}
}

func TestTweenReverse(t *testing.T) {
	s, node := runningNode("rev")
	var last float64
	fwd := Tween(1, 0, 10, nil, func(v float64) { last = v })
	node.RunAction(fwd.Reverse())
	s.Tick(1)
	if last != 0 {
		t.Errorf("reversed tween ended at %v, want 0", last)
	}
}

func TestTweenNilSetterPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil setter")
		}
	}()
	Tween(1, 0, 1, nil, nil)
}

func TestTweenRestartsInRepeat(t *testing.T) {
	s, node := runningNode("repeat")
	var starts int
	prev := math.Inf(1)
	node.RunAction(Repeat(Tween(1, 0, 1, ease.Linear, func(v float64) {
		if v < prev {
			starts++
		}
		prev = v
	}), 2))
	tickN(s, 4, 0.5)
	if starts != 2 {
		t.Errorf("tween restarted %d times, want 2 runs", starts)
	}
}

func TestTweenGroupNotReversible(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic reversing a tween group")
		}
	}()
	TweenScale(1, 2, 2, nil).Reverse()
}

func TestTweenZeroDuration(t *testing.T) {
	s, node := runningNode("zero")
	a := node.RunAction(TweenPosition(0, 50, 60, ease.Linear))
	s.Tick(0)
	if !a.IsDone() || node.X != 50 || node.Y != 60 {
		t.Errorf("done=%v pos=(%v, %v), want done at (50, 60)", a.IsDone(), node.X, node.Y)
	}
}
