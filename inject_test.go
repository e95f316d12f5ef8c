package bramble

import "testing"

func TestInjectClick(t *testing.T) {
	activated := 0
	scene, _, item := menuScene(&activated)
	d := runningDirector(t, scene)

	d.InjectClick(100, 100)
	if d.PendingInjections() != 2 {
		t.Fatalf("expected 2 queued events, got %d", d.PendingInjections())
	}

	// Tick 1: press
	d.Tick(1.0 / 60)
	if d.PendingInjections() != 1 {
		t.Fatalf("expected 1 remaining event after tick 1, got %d", d.PendingInjections())
	}
	if activated != 0 {
		t.Error("click should not fire on press tick")
	}
	if !item.IsSelected() {
		t.Error("item should be selected after press")
	}

	// Tick 2: release fires the item
	d.Tick(1.0 / 60)
	if d.PendingInjections() != 0 {
		t.Fatalf("expected 0 remaining events after tick 2, got %d", d.PendingInjections())
	}
	if activated != 1 {
		t.Errorf("activated = %d, want 1", activated)
	}
}

func TestInjectDrag(t *testing.T) {
	activated := 0
	scene, _, item := menuScene(&activated)
	d := runningDirector(t, scene)

	// Drag from the item to empty space over 5 ticks:
	// tick 0: press at (100,100)
	// ticks 1-3: moves toward (400,400)
	// tick 4: release at (400,400)
	d.InjectDrag(100, 100, 400, 400, 5)
	if len(d.injectQueue) != 5 {
		t.Fatalf("expected 5 queued events, got %d", len(d.injectQueue))
	}
	if mid := d.injectQueue[2]; mid.Phase != PointerMove || mid.X != 250 || mid.Y != 250 {
		t.Errorf("middle event = %+v, want move at (250, 250)", mid)
	}

	d.Tick(1.0 / 60)
	if !item.IsSelected() {
		t.Error("press should select the item")
	}
	for i := 0; i < 4; i++ {
		d.Tick(1.0 / 60)
	}
	if activated != 0 || item.IsSelected() {
		t.Error("drag off the item must not activate it")
	}
}

func TestInjectDrag_MinTicks(t *testing.T) {
	d := newTestDirector()
	d.InjectDrag(0, 0, 100, 100, 1) // clamps to 2
	if d.PendingInjections() != 2 {
		t.Fatalf("expected 2 queued events (clamped), got %d", d.PendingInjections())
	}
}

func TestInjectQueueOrder(t *testing.T) {
	d := newTestDirector()

	d.InjectPress(10, 20)
	d.InjectMove(30, 40)
	d.InjectRelease(50, 60)

	if len(d.injectQueue) != 3 {
		t.Fatalf("expected 3 events, got %d", len(d.injectQueue))
	}
	want := []PointerEvent{
		{Phase: PointerDown, X: 10, Y: 20},
		{Phase: PointerMove, X: 30, Y: 40},
		{Phase: PointerUp, X: 50, Y: 60},
	}
	for i, ev := range want {
		if d.injectQueue[i] != ev {
			t.Errorf("event[%d] = %+v, want %+v", i, d.injectQueue[i], ev)
		}
	}
}

func TestProcessInjectedInput(t *testing.T) {
	activated := 0
	scene, _, item := menuScene(&activated)
	d := runningDirector(t, scene)

	d.InjectPress(100, 100)
	if !d.processInjectedInput() {
		t.Error("expected processInjectedInput to consume an event")
	}
	if !item.IsSelected() {
		t.Error("injected press should reach the menu")
	}
	if d.PendingInjections() != 0 {
		t.Errorf("queue should be empty, got %d", d.PendingInjections())
	}
}

func TestProcessInjectedInput_EmptyQueue(t *testing.T) {
	d := newTestDirector()
	if d.processInjectedInput() {
		t.Error("should not consume when queue is empty")
	}
}

func TestInjectThroughViewport(t *testing.T) {
	activated := 0
	scene, _, _ := menuScene(&activated)
	d := runningDirector(t, scene)
	d.Resize(480, 240)

	// Half-size frame: design (100, 100) is frame (50, 50).
	d.InjectClick(50, 50)
	d.Tick(0)
	d.Tick(0)
	if activated != 1 {
		t.Errorf("activated = %d, want 1", activated)
	}
}
