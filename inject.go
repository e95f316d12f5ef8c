package bramble

// InjectPress queues a synthetic pointer press at the given frame coordinates.
// Queued events are consumed one per Tick, before the scheduler runs, and
// travel the same path as real input.
func (d *Director) InjectPress(x, y float64) {
	d.injectQueue = append(d.injectQueue, PointerEvent{Phase: PointerDown, X: x, Y: y})
}

// InjectMove queues a pointer move with the button held down. Use it between
// InjectPress and InjectRelease to simulate a drag.
func (d *Director) InjectMove(x, y float64) {
	d.injectQueue = append(d.injectQueue, PointerEvent{Phase: PointerMove, X: x, Y: y})
}

// InjectRelease queues a pointer release at the given frame coordinates.
func (d *Director) InjectRelease(x, y float64) {
	d.injectQueue = append(d.injectQueue, PointerEvent{Phase: PointerUp, X: x, Y: y})
}

// InjectClick queues a press followed by a release at the same coordinates.
// Consumes two ticks.
func (d *Director) InjectClick(x, y float64) {
	d.InjectPress(x, y)
	d.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), linearly interpolated moves
// over ticks-2 intermediate ticks, and a release at (toX, toY). The whole
// gesture consumes ticks ticks; the minimum is 2.
func (d *Director) InjectDrag(fromX, fromY, toX, toY float64, ticks int) {
	if ticks < 2 {
		ticks = 2
	}
	d.InjectPress(fromX, fromY)
	steps := ticks - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		d.InjectMove(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
	d.InjectRelease(toX, toY)
}

// PendingInjections returns the number of queued synthetic events.
func (d *Director) PendingInjections() int {
	return len(d.injectQueue)
}

// processInjectedInput pops one queued event and dispatches it. Returns true
// if an event was consumed, in which case hosts skip real pointer input for
// the tick.
func (d *Director) processInjectedInput() bool {
	if len(d.injectQueue) == 0 {
		return false
	}
	ev := d.injectQueue[0]
	copy(d.injectQueue, d.injectQueue[1:])
	d.injectQueue = d.injectQueue[:len(d.injectQueue)-1]
	d.HandlePointer(ev)
	return true
}
