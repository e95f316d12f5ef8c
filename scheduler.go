package bramble

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
)

// Updatable is implemented by anything that wants a callback every tick.
type Updatable interface {
	Update(dt float64)
}

// UpdateFunc adapts a plain function to Updatable.
type UpdateFunc func(dt float64)

// Update calls f(dt).
func (f UpdateFunc) Update(dt float64) { f(dt) }

// updateKey is the timer key used by ScheduleUpdate.
const updateKey = "update"

// Scheduler steps the actions and timers of every running node once per tick.
// It is an explicit context object: the Director owns one and hands it to each
// node as the node enters the running tree. Nodes that are not running keep
// their actions and timers but are never stepped.
//
// Mutations during Tick are deferred. Nodes registered mid-tick wait in a
// pending list; stopped actions and timers are only marked and are compacted
// once the traversal completes.
type Scheduler struct {
	// TimeScale multiplies every dt passed to Tick. 1 is real time.
	TimeScale float64

	targets []*Node
	pending []*Node
	ticking bool

	debug  bool
	logger *log.Logger
}

// NewScheduler returns an idle scheduler. A nil logger discards diagnostics.
func NewScheduler(logger *log.Logger) *Scheduler {
	return &Scheduler{TimeScale: 1, logger: logger}
}

// register adds n to the tick list. Safe to call repeatedly. A node moving
// over from another scheduler may still sit in this one's lists from an
// earlier visit, in which case it is only re-claimed.
func (s *Scheduler) register(n *Node) {
	if n.registered == s {
		return
	}
	moved := n.registered != nil
	n.registered = s
	if moved && (slices.Contains(s.targets, n) || slices.Contains(s.pending, n)) {
		return
	}
	if s.ticking {
		s.pending = append(s.pending, n)
		return
	}
	s.targets = append(s.targets, n)
}

// NumTargets returns the number of nodes currently on the tick list.
func (s *Scheduler) NumTargets() int {
	return len(s.targets) + len(s.pending)
}

// Schedule runs a on target. It is inert until target is running.
// Panics with ErrMissingTarget if target is nil.
func (s *Scheduler) Schedule(target *Node, a *Action) {
	scheduleAction(target, a)
}

// Unschedule stops a on target.
func (s *Scheduler) Unschedule(target *Node, a *Action) {
	if target == nil {
		return
	}
	target.StopAction(a)
}

// UnscheduleAll stops every action and timer on target.
func (s *Scheduler) UnscheduleAll(target *Node) {
	if target == nil {
		return
	}
	target.StopAllActions()
	target.UnscheduleAll()
}

// ScheduleFunc registers fn as a keyed timer on target. fn fires after delay,
// then every interval seconds, for repeat additional times. A negative repeat
// fires indefinitely. An interval of zero fires every tick.
func (s *Scheduler) ScheduleFunc(target *Node, key string, fn func(dt float64), interval float64, repeat int, delay float64) {
	if target == nil {
		panic(fmt.Errorf("bramble: schedule %q: %w", key, ErrMissingTarget))
	}
	target.ScheduleRepeat(key, fn, interval, repeat, delay)
}

// UnscheduleFunc cancels the timer named key on target.
func (s *Scheduler) UnscheduleFunc(target *Node, key string) {
	if target == nil {
		return
	}
	target.Unschedule(key)
}

// ScheduleUpdate calls u.Update every tick while target is running.
func (s *Scheduler) ScheduleUpdate(target *Node, u Updatable) {
	if target == nil {
		panic(fmt.Errorf("bramble: schedule update: %w", ErrMissingTarget))
	}
	target.ScheduleUpdate(u)
}

// Pause suspends target's actions and timers without removing them.
func (s *Scheduler) Pause(target *Node) {
	if target != nil {
		target.paused = true
	}
}

// Resume continues target's actions and timers after Pause.
func (s *Scheduler) Resume(target *Node) {
	if target != nil {
		target.paused = false
	}
}

// Tick advances every registered, running, unpaused node by dt scaled by
// TimeScale. All actions are stepped first, then all timers, each in
// registration order.
func (s *Scheduler) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	dt *= s.TimeScale

	s.ticking = true
	defer s.endTick()

	count := len(s.targets)
	for i := 0; i < count; i++ {
		n := s.targets[i]
		if !n.running || n.paused || n.scheduler != s {
			continue
		}
		n.stepActions(dt)
	}
	for i := 0; i < count; i++ {
		n := s.targets[i]
		if !n.running || n.paused || n.scheduler != s {
			continue
		}
		n.stepTimers(dt)
	}
}

// endTick compacts finished work and promotes nodes registered mid-tick.
func (s *Scheduler) endTick() {
	s.ticking = false
	kept := s.targets[:0]
	for _, n := range s.targets {
		if s.keep(n) {
			kept = append(kept, n)
		}
	}
	clear(s.targets[len(kept):])
	s.targets = kept
	for _, n := range s.pending {
		if s.keep(n) {
			s.targets = append(s.targets, n)
		}
	}
	clear(s.pending)
	s.pending = s.pending[:0]
}

func (s *Scheduler) keep(n *Node) bool {
	n.pruneActions()
	n.pruneTimers()
	if n.running && n.scheduler == s && (len(n.actions) > 0 || len(n.timers) > 0) {
		return true
	}
	if n.registered == s {
		n.registered = nil
	}
	return false
}

// --- Timers ---

// timer is a keyed callback owned by one node.
type timer struct {
	key       string
	fn        func(dt float64)
	interval  float64
	delay     float64
	repeat    int // additional fires after the first
	forever   bool
	elapsed   float64
	fired     int
	useDelay  bool
	cancelled bool
}

func (t *timer) step(dt float64) {
	t.elapsed += dt
	for !t.cancelled {
		wait := t.interval
		if t.useDelay {
			wait = t.delay
		}
		if wait <= 0 {
			t.useDelay = false
			t.elapsed = 0
			t.fire(dt)
			return
		}
		if t.elapsed < wait-timeEpsilon {
			return
		}
		t.elapsed = max(t.elapsed-wait, 0)
		delayed := t.useDelay
		t.useDelay = false
		t.fire(wait)
		if delayed && t.interval <= 0 {
			t.elapsed = 0
			return
		}
	}
}

func (t *timer) fire(dt float64) {
	t.fired++
	if !t.forever && t.fired > t.repeat {
		t.cancelled = true
	}
	t.fn(dt)
}

// Schedule calls fn every interval seconds while the node is running, until
// unscheduled. Scheduling an existing key replaces that timer.
func (n *Node) Schedule(key string, fn func(dt float64), interval float64) {
	n.ScheduleRepeat(key, fn, interval, -1, 0)
}

// ScheduleOnce calls fn once after delay seconds.
func (n *Node) ScheduleOnce(key string, fn func(dt float64), delay float64) {
	n.ScheduleRepeat(key, fn, 0, 0, delay)
}

// ScheduleRepeat calls fn after delay and then every interval seconds, for a
// total of repeat+1 calls. A negative repeat fires until unscheduled.
func (n *Node) ScheduleRepeat(key string, fn func(dt float64), interval float64, repeat int, delay float64) {
	if fn == nil {
		panic(invalidState("timer %q has no callback", key))
	}
	n.Unschedule(key)
	t := &timer{
		key:      key,
		fn:       fn,
		interval: max(interval, 0),
		delay:    max(delay, 0),
		repeat:   repeat,
		forever:  repeat < 0,
		useDelay: delay > 0,
	}
	n.timers = append(n.timers, t)
	if n.running && n.scheduler != nil {
		n.scheduler.register(n)
	}
}

// ScheduleUpdate calls u.Update(dt) every tick while the node is running.
func (n *Node) ScheduleUpdate(u Updatable) {
	if u == nil {
		panic(invalidState("nil Updatable on %q", n.Name))
	}
	n.Schedule(updateKey, u.Update, 0)
}

// UnscheduleUpdate cancels the per-tick update set by ScheduleUpdate.
func (n *Node) UnscheduleUpdate() {
	n.Unschedule(updateKey)
}

// Unschedule cancels the timer named key. No-op if absent.
func (n *Node) Unschedule(key string) {
	for _, t := range n.timers {
		if t.key == key {
			t.cancelled = true
		}
	}
	n.pruneTimersIfIdle()
}

// UnscheduleAll cancels every timer on the node.
func (n *Node) UnscheduleAll() {
	for _, t := range n.timers {
		t.cancelled = true
	}
	n.pruneTimersIfIdle()
}

// IsScheduled reports whether a live timer named key exists.
func (n *Node) IsScheduled(key string) bool {
	for _, t := range n.timers {
		if t.key == key && !t.cancelled {
			return true
		}
	}
	return false
}

// Pause suspends the node's actions and timers. Children are unaffected.
func (n *Node) Pause() {
	n.paused = true
}

// Resume undoes Pause.
func (n *Node) Resume() {
	n.paused = false
}

// IsPaused reports whether Pause is in effect.
func (n *Node) IsPaused() bool {
	return n.paused
}

func (n *Node) stepTimers(dt float64) {
	owner := n.scheduler
	timers := n.timers
	count := len(timers)
	for i := 0; i < count; i++ {
		if !n.running || n.paused || n.scheduler != owner {
			return
		}
		t := timers[i]
		if t.cancelled {
			continue
		}
		t.step(dt)
	}
}

func (n *Node) pruneTimers() {
	kept := n.timers[:0]
	for _, t := range n.timers {
		if !t.cancelled {
			kept = append(kept, t)
		}
	}
	clear(n.timers[len(kept):])
	n.timers = kept
}

func (n *Node) pruneTimersIfIdle() {
	if n.registered != nil && n.registered.ticking {
		return
	}
	n.pruneTimers()
}
