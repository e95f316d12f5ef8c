package bramble

import (
	"errors"
	"testing"
)

// newTestDirector returns a quiet director whose frame matches a 960x480
// design, so frame and design coordinates coincide.
func newTestDirector() *Director {
	d := NewDirector(Config{DesignWidth: 960, DesignHeight: 480, FrameWidth: 960, FrameHeight: 480})
	d.SetLogger(nil)
	return d
}

// recordingSink collects director events.
type recordingSink struct {
	events []Event
}

func (s *recordingSink) EmitEvent(e Event) {
	s.events = append(s.events, e)
}

func (s *recordingSink) has(typ EventType, name string) bool {
	for _, e := range s.events {
		if e.Type == typ && e.Name == name {
			return true
		}
	}
	return false
}

func (s *recordingSink) count(typ EventType, name string) int {
	n := 0
	for _, e := range s.events {
		if e.Type == typ && e.Name == name {
			n++
		}
	}
	return n
}

func assertInvalidState(t *testing.T, op string, err error) {
	t.Helper()
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("%s error = %v, want ErrInvalidState", op, err)
	}
}

// --- Scene stack ---

func TestRunWithScene(t *testing.T) {
	d := newTestDirector()
	if d.State() != NoSceneRunning {
		t.Errorf("State = %v, want no_scene_running", d.State())
	}
	a := NewScene("a")
	if err := d.RunWithScene(a); err != nil {
		t.Fatalf("RunWithScene error: %v", err)
	}
	if d.State() != SceneRunning || d.RunningScene() != a {
		t.Errorf("State = %v, RunningScene = %v, want a running", d.State(), d.RunningScene())
	}
	if !a.IsRunning() {
		t.Error("scene should be running")
	}
	if a.Width != 960 || a.Height != 480 {
		t.Errorf("scene size = %vx%v, want 960x480", a.Width, a.Height)
	}

	err := d.RunWithScene(NewScene("b"))
	assertInvalidState(t, "second RunWithScene", err)
	if d.RunningScene() != a {
		t.Error("failed RunWithScene must not change the running scene")
	}
}

func TestDirectorRejectsBadScenes(t *testing.T) {
	d := newTestDirector()

	assertInvalidState(t, "RunWithScene(nil)", d.RunWithScene(nil))
	assertInvalidState(t, "RunWithScene(node)", d.RunWithScene(NewNode("plain")))

	parented := NewScene("child")
	NewNode("holder").AddChild(parented)
	assertInvalidState(t, "RunWithScene(parented)", d.RunWithScene(parented))

	disposed := NewScene("gone")
	disposed.Dispose()
	assertInvalidState(t, "RunWithScene(disposed)", d.RunWithScene(disposed))

	assertInvalidState(t, "ReplaceScene(empty)", d.ReplaceScene(NewScene("x")))
	assertInvalidState(t, "PushScene(empty)", d.PushScene(NewScene("x")))
	assertInvalidState(t, "PopScene(empty)", d.PopScene())

	a := NewScene("a")
	if err := d.RunWithScene(a); err != nil {
		t.Fatal(err)
	}
	assertInvalidState(t, "ReplaceScene(self)", d.ReplaceScene(a))
	assertInvalidState(t, "PushScene(self)", d.PushScene(a))
}

func TestReplaceSceneCleansUp(t *testing.T) {
	d := newTestDirector()
	sink := &recordingSink{}
	d.SetEventSink(sink)

	a := NewScene("a")
	b := NewScene("b")
	child := NewNode("child")
	a.AddChild(child)
	child.RunAction(MoveBy(1, 10, 0))
	if err := d.RunWithScene(a); err != nil {
		t.Fatal(err)
	}
	if err := d.ReplaceScene(b); err != nil {
		t.Fatalf("ReplaceScene error: %v", err)
	}

	if a.IsRunning() || child.IsRunning() {
		t.Error("replaced scene should stop running")
	}
	if child.NumberOfRunningActions() != 0 {
		t.Error("replaced scene's actions should be cleaned up")
	}
	if d.RunningScene() != b || d.SceneStackDepth() != 1 {
		t.Errorf("RunningScene = %v depth %d, want b at depth 1", d.RunningScene(), d.SceneStackDepth())
	}

	want := []EventType{EventSceneEnter, EventSceneExit, EventSceneEnter}
	if len(sink.events) != len(want) {
		t.Fatalf("events = %v, want %v", sink.events, want)
	}
	for i, typ := range want {
		if sink.events[i].Type != typ {
			t.Errorf("event[%d] = %v, want %v", i, sink.events[i].Type, typ)
		}
	}
	if sink.events[1].Name != "a" || sink.events[2].NodeID != b.ID {
		t.Errorf("events refer to %v, want a then b", sink.events)
	}
}

func TestPushPopScene(t *testing.T) {
	d := newTestDirector()
	a := NewScene("a")
	b := NewScene("b")
	a.RunAction(MoveBy(1, 10, 0))
	b.RunAction(MoveBy(1, 10, 0))
	if err := d.RunWithScene(a); err != nil {
		t.Fatal(err)
	}
	if err := d.PushScene(b); err != nil {
		t.Fatalf("PushScene error: %v", err)
	}
	if d.SceneStackDepth() != 2 || d.RunningScene() != b {
		t.Fatalf("depth = %d running = %v, want 2 and b", d.SceneStackDepth(), d.RunningScene())
	}

	d.Tick(0.5)
	if a.X != 0 {
		t.Errorf("suspended scene moved to X=%v", a.X)
	}
	if a.NumberOfRunningActions() != 1 {
		t.Error("pushed-over scene should keep its actions")
	}

	if err := d.PopScene(); err != nil {
		t.Fatalf("PopScene error: %v", err)
	}
	if d.RunningScene() != a || !a.IsRunning() {
		t.Error("PopScene should resume the scene below")
	}
	if b.IsRunning() || b.NumberOfRunningActions() != 0 {
		t.Error("popped scene should be stopped and cleaned up")
	}
	d.Tick(0.5)
	if !approxEqual(a.X, 5, 1e-9) {
		t.Errorf("resumed X = %v, want 5", a.X)
	}
}

func TestPopLastSceneEnds(t *testing.T) {
	d := newTestDirector()
	a := NewScene("a")
	if err := d.RunWithScene(a); err != nil {
		t.Fatal(err)
	}
	if err := d.PopScene(); err != nil {
		t.Fatalf("PopScene error: %v", err)
	}
	if d.State() != NoSceneRunning || a.IsRunning() {
		t.Errorf("State = %v running = %v, want ended", d.State(), a.IsRunning())
	}
}

func TestEnd(t *testing.T) {
	d := newTestDirector()
	a := NewScene("a")
	b := NewScene("b")
	a.Schedule("t", func(float64) {}, 0)
	if err := d.RunWithScene(a); err != nil {
		t.Fatal(err)
	}
	if err := d.PushScene(b); err != nil {
		t.Fatal(err)
	}
	d.InjectClick(1, 1)

	d.End()
	if d.State() != NoSceneRunning || d.SceneStackDepth() != 0 {
		t.Errorf("State = %v depth = %d, want empty", d.State(), d.SceneStackDepth())
	}
	if a.IsRunning() || b.IsRunning() || a.IsScheduled("t") {
		t.Error("End should stop and clean up every scene")
	}
	if d.PendingInjections() != 0 {
		t.Errorf("PendingInjections = %d, want 0", d.PendingInjections())
	}

	if err := d.RunWithScene(NewScene("c")); err != nil {
		t.Errorf("RunWithScene after End error: %v", err)
	}
}

func TestSceneLifecycleHooks(t *testing.T) {
	d := newTestDirector()
	a := NewScene("a")
	b := NewScene("b")
	var got []string
	a.OnEnter = func() { got = append(got, "a enter") }
	a.OnEnterTransitionDidFinish = func() { got = append(got, "a did finish") }
	a.OnExitTransitionDidStart = func() { got = append(got, "a did start exit") }
	a.OnExit = func() { got = append(got, "a exit") }
	b.OnEnter = func() { got = append(got, "b enter") }

	if err := d.RunWithScene(a); err != nil {
		t.Fatal(err)
	}
	if err := d.ReplaceScene(b); err != nil {
		t.Fatal(err)
	}
	want := []string{"a enter", "a did finish", "a did start exit", "a exit", "b enter"}
	if len(got) != len(want) {
		t.Fatalf("hooks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("hook[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLayersFillWindow(t *testing.T) {
	d := newTestDirector()
	s := NewScene("s")
	layer := NewLayer("layer")
	inner := NewLayer("inner")
	sized := NewLayer("sized")
	sized.SetContentSize(10, 10)
	s.AddChild(layer)
	layer.AddChild(inner)
	s.AddChild(sized)
	if err := d.RunWithScene(s); err != nil {
		t.Fatal(err)
	}
	if inner.Width != 960 || inner.Height != 480 {
		t.Errorf("nested layer = %vx%v, want 960x480", inner.Width, inner.Height)
	}
	if sized.Width != 10 {
		t.Errorf("sized layer Width = %v, want 10", sized.Width)
	}
}

// --- Clock ---

func TestDirectorPause(t *testing.T) {
	d := newTestDirector()
	a := NewScene("a")
	a.RunAction(MoveBy(1, 10, 0))
	if err := d.RunWithScene(a); err != nil {
		t.Fatal(err)
	}
	d.Pause()
	d.Tick(0.5)
	if a.X != 0 || !d.IsPaused() {
		t.Errorf("paused director advanced X to %v", a.X)
	}
	if d.TotalFrames() != 1 {
		t.Errorf("TotalFrames = %d, want 1", d.TotalFrames())
	}
	d.Resume()
	d.Tick(0.5)
	if !approxEqual(a.X, 5, 1e-9) {
		t.Errorf("X = %v, want 5", a.X)
	}
}

func TestDirectorSchedulerShared(t *testing.T) {
	d := newTestDirector()
	a := NewScene("a")
	if err := d.RunWithScene(a); err != nil {
		t.Fatal(err)
	}
	fired := 0
	d.Scheduler().ScheduleFunc(a, "k", func(float64) { fired++ }, 0, 1, 0)
	d.Tick(0.1)
	d.Tick(0.1)
	d.Tick(0.1)
	if fired != 2 {
		t.Errorf("fired = %d, want 2", fired)
	}
}

// --- Resolution ---

func TestResizeUpdatesViewport(t *testing.T) {
	d := newTestDirector()
	d.Resize(1920, 1080)
	vp := d.Viewport()
	if vp.ScaleX != 2 || vp.Rect.Y != 60 {
		t.Errorf("viewport = %+v, want scale 2 letterboxed by 60", vp)
	}
	if d.WinSize() != (Size{960, 480}) {
		t.Errorf("WinSize = %v, want the design size", d.WinSize())
	}
	if d.FrameSize() != (Size{1920, 1080}) {
		t.Errorf("FrameSize = %v, want 1920x1080", d.FrameSize())
	}

	d.SetDesignResolution(480, 240, FixedWidth)
	if d.WinSize() != (Size{480, 270}) {
		t.Errorf("WinSize = %v, want 480x270", d.WinSize())
	}
	if d.VisibleSize() != (Size{480, 270}) || d.VisibleOrigin() != (Vec2{}) {
		t.Errorf("visible = %v at %v, want the whole design", d.VisibleSize(), d.VisibleOrigin())
	}
}

func TestStateString(t *testing.T) {
	if NoSceneRunning.String() != "no_scene_running" || SceneRunning.String() != "scene_running" {
		t.Errorf("State strings = %q, %q", NoSceneRunning, SceneRunning)
	}
	if EventMenuActivate.String() != "menu_activate" || EventType(99).String() != "unknown" {
		t.Errorf("EventType strings = %q, %q", EventMenuActivate, EventType(99))
	}
}
