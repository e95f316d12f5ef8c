package bramble

import "testing"

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "log", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "ticks": 3},
			{"action": "drag", "fromX": 1, "fromY": 2, "toX": 3, "toY": 4, "ticks": 5}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "log" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "click" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "wait" || runner.steps[2].Ticks != 3 {
		t.Error("step 2 mismatch")
	}
	if st := runner.steps[3]; st.FromX != 1 || st.ToY != 4 || st.Ticks != 5 {
		t.Error("step 3 mismatch")
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	_, err := LoadTestScript([]byte(`not json`))
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadTestScript_Empty(t *testing.T) {
	_, err := LoadTestScript([]byte(`{"steps": []}`))
	if err == nil {
		t.Error("expected error for empty steps")
	}
}

func TestLoadTestScript_UnknownAction(t *testing.T) {
	_, err := LoadTestScript([]byte(`{"steps": [{"action": "screenshot"}]}`))
	if err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestRunnerStep_Click(t *testing.T) {
	d := newTestDirector()

	data := []byte(`{"steps": [{"action": "click", "x": 50, "y": 50}]}`)
	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatal(err)
	}
	d.SetTestRunner(runner)

	// First step call: click queues press+release (2 events).
	runner.step(d)
	if d.PendingInjections() != 2 {
		t.Fatalf("expected 2 queued events, got %d", d.PendingInjections())
	}
	// Injections still pending, so not done yet.
	if runner.Done() {
		t.Error("runner should not be done while inject queue has events")
	}

	d.processInjectedInput()
	d.processInjectedInput()

	runner.step(d)
	if !runner.Done() {
		t.Error("runner should be done after all steps executed and queue drained")
	}
}

func TestRunnerStep_Wait(t *testing.T) {
	d := newTestDirector()

	data := []byte(`{"steps": [
		{"action": "wait", "ticks": 3},
		{"action": "log", "label": "done"}
	]}`)
	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatal(err)
	}

	// Tick 1: execute wait (waitCount becomes 2).
	runner.step(d)
	if runner.Done() {
		t.Error("should not be done during wait")
	}

	// Tick 2: waitCount 2 -> 1.
	runner.step(d)
	if runner.Done() {
		t.Error("should not be done during wait countdown")
	}

	// Tick 3: waitCount 1 -> 0.
	runner.step(d)
	if runner.Done() {
		t.Error("should not be done before the log step runs")
	}

	// Tick 4: execute log step, runner finishes.
	runner.step(d)
	if !runner.Done() {
		t.Error("runner should be done after log step")
	}
}

func TestRunnerStep_Drag(t *testing.T) {
	d := newTestDirector()

	data := []byte(`{"steps": [{"action": "drag", "fromX": 10, "fromY": 10, "toX": 200, "toY": 200, "ticks": 4}]}`)
	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatal(err)
	}

	runner.step(d)
	if d.PendingInjections() != 4 {
		t.Fatalf("expected 4 queued events for drag, got %d", d.PendingInjections())
	}
}

func TestRunnerDone(t *testing.T) {
	d := newTestDirector()

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "log", "label": "only"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if runner.Done() {
		t.Error("runner should not be done before any steps")
	}
	runner.step(d)
	if !runner.Done() {
		t.Error("runner should be done after single log step")
	}
}

func TestRunnerWaitsForInjectQueue(t *testing.T) {
	d := newTestDirector()

	data := []byte(`{"steps": [
		{"action": "click", "x": 50, "y": 50},
		{"action": "log", "label": "after"}
	]}`)
	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatal(err)
	}

	runner.step(d)
	if d.PendingInjections() != 2 {
		t.Fatalf("expected 2 events, got %d", d.PendingInjections())
	}

	// Must not advance while the inject queue is non-empty.
	runner.step(d)
	if runner.cursor != 1 {
		t.Errorf("cursor should still be 1, got %d", runner.cursor)
	}

	d.injectQueue = d.injectQueue[:0]

	runner.step(d)
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestRunnerDrivesDirector(t *testing.T) {
	activated := 0
	scene, _, _ := menuScene(&activated)
	d := runningDirector(t, scene)

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "ticks": 2},
		{"action": "click", "x": 100, "y": 100}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	d.SetTestRunner(runner)

	for i := 0; i < 10 && !runner.Done(); i++ {
		d.Tick(1.0 / 60)
	}
	if !runner.Done() {
		t.Fatal("runner should finish within 10 ticks")
	}
	if activated != 1 {
		t.Errorf("activated = %d, want 1", activated)
	}
}
