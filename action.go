package bramble

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// ActionKind selects how an Action advances.
type ActionKind uint8

const (
	ActionInstant   ActionKind = iota // fires once on its first tick and completes
	ActionInterval                    // interpolates a node attribute over a duration
	ActionComposite                   // dispatches ticks to child actions
)

func (k ActionKind) String() string {
	switch k {
	case ActionInstant:
		return "instant"
	case ActionInterval:
		return "interval"
	case ActionComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// CompositeOp identifies the state machine of a composite action.
type CompositeOp uint8

const (
	CompositeNone          CompositeOp = iota // not a composite
	CompositeSequence                         // children one after another
	CompositeSpawn                            // children in parallel
	CompositeRepeat                           // child a fixed number of times
	CompositeRepeatForever                    // child indefinitely
	CompositeSpeed                            // child with scaled time
	CompositeTargeted                         // child on a different node
)

// timeEpsilon absorbs float accumulation when summing per-tick deltas, so
// that sixty ticks of 1/60s complete a one second action.
const timeEpsilon = 1e-9

// Action is a time-driven mutation of a node's attributes. A single flat
// struct serves every action; Kind selects the stepping rule and, for
// composites, Op selects the state machine.
//
// An Action is stateful and may run on only one node at a time. Use Clone to
// run the same animation on several nodes.
type Action struct {
	Kind ActionKind
	Op   CompositeOp
	Tag  int

	duration  float64
	elapsed   float64
	target    *Node
	started   bool
	done      bool
	cancelled bool

	// Interval
	effect interpolator
	ease   ease.TweenFunc

	// Instant
	instant instantEffect

	// Composite
	children []*Action
	index    int     // Sequence cursor
	times    int     // Repeat count
	count    int     // completed repetitions
	speed    float64 // Speed factor
	other    *Node   // TargetedAction node
}

// interpolator is the closed set of interval effects. begin captures the
// target's starting state; update applies progress t in [0, 1].
type interpolator interface {
	begin(n *Node)
	update(n *Node, t float64)
	reverse() interpolator // nil when not reversible
	clone() interpolator
}

// instantEffect is the closed set of one-shot effects.
type instantEffect interface {
	run(n *Node)
	reverse() instantEffect // nil when not reversible
}

// Duration returns the total running time in seconds. Forever for actions
// that never complete on their own.
func (a *Action) Duration() float64 {
	return a.duration
}

// Elapsed returns the time consumed so far.
func (a *Action) Elapsed() float64 {
	return a.elapsed
}

// IsDone reports whether the action has finished or was stopped.
func (a *Action) IsDone() bool {
	return a.done
}

// Target returns the node the action is running on, or nil.
func (a *Action) Target() *Node {
	return a.target
}

// Children returns the child actions of a composite.
func (a *Action) Children() []*Action {
	return a.children
}

// start binds the action to target and resets its clock.
func (a *Action) start(target *Node) {
	a.target = target
	a.elapsed = 0
	a.started = true
	a.done = false
	a.cancelled = false
	switch a.Kind {
	case ActionInterval:
		a.effect.begin(target)
	case ActionComposite:
		a.startComposite(target)
	}
}

// cancel stops the action and every child so that no further mutation occurs,
// even if a parent composite is mid-step.
func (a *Action) cancel() {
	a.cancelled = true
	a.done = true
	for _, c := range a.children {
		c.cancel()
	}
}

// advance moves the action's clock by dt and applies its effect. Once the
// action completes it returns the part of dt it did not consume, so composites
// can hand the remainder to the next child.
func (a *Action) advance(dt float64) float64 {
	if a.done {
		return dt
	}
	if a.target == nil {
		panic(fmt.Errorf("bramble: %s action stepped: %w", a.Kind, ErrMissingTarget))
	}
	switch a.Kind {
	case ActionInstant:
		a.done = true
		a.instant.run(a.target)
		return dt
	case ActionInterval:
		return a.advanceInterval(dt)
	default:
		return a.advanceComposite(dt)
	}
}

func (a *Action) advanceInterval(dt float64) float64 {
	remaining := a.duration - a.elapsed
	if dt >= remaining-timeEpsilon {
		a.elapsed = a.duration
		a.effect.update(a.target, 1)
		a.done = true
		if dt > remaining {
			return dt - remaining
		}
		return 0
	}
	a.elapsed += dt
	a.effect.update(a.target, a.progress(a.elapsed/a.duration))
	return 0
}

// progress maps linear time to eased time.
func (a *Action) progress(t float64) float64 {
	t = clamp01(t)
	if a.ease == nil || t >= 1 {
		return t
	}
	return float64(a.ease(float32(t), 0, 1, 1))
}

// Clone returns an unstarted deep copy of the action.
func (a *Action) Clone() *Action {
	c := &Action{
		Kind:     a.Kind,
		Op:       a.Op,
		Tag:      a.Tag,
		duration: a.duration,
		ease:     a.ease,
		instant:  a.instant,
		times:    a.times,
		speed:    a.speed,
		other:    a.other,
	}
	if a.effect != nil {
		c.effect = a.effect.clone()
	}
	if len(a.children) > 0 {
		c.children = make([]*Action, len(a.children))
		for i, child := range a.children {
			c.children[i] = child.Clone()
		}
	}
	return c
}

// Reverse returns a new unstarted action that plays this one backwards.
// Panics for actions with no defined reverse (absolute "To" actions).
func (a *Action) Reverse() *Action {
	switch a.Kind {
	case ActionInstant:
		rev := a.instant.reverse()
		if rev == nil {
			panic(fmt.Sprintf("bramble: %T action cannot be reversed", a.instant))
		}
		return &Action{Kind: ActionInstant, Tag: a.Tag, instant: rev}
	case ActionInterval:
		rev := a.effect.reverse()
		if rev == nil {
			panic(fmt.Sprintf("bramble: %T action cannot be reversed", a.effect))
		}
		return &Action{Kind: ActionInterval, Tag: a.Tag, duration: a.duration, effect: rev, ease: a.ease}
	default:
		return a.reverseComposite()
	}
}

// --- Node action API ---

// RunAction schedules a on this node and returns it. If the node is not part
// of a running tree the action is kept but does not advance until the node
// enters one.
func (n *Node) RunAction(a *Action) *Action {
	scheduleAction(n, a)
	return a
}

// StopAction stops a if it is running on this node.
func (n *Node) StopAction(a *Action) {
	for _, cur := range n.actions {
		if cur == a {
			a.cancel()
			break
		}
	}
	n.pruneActionsIfIdle()
}

// StopActionByTag stops the first running action carrying tag.
func (n *Node) StopActionByTag(tag int) {
	if a := n.ActionByTag(tag); a != nil {
		n.StopAction(a)
	}
}

// StopAllActions stops every action on this node (descendants are untouched).
func (n *Node) StopAllActions() {
	for _, a := range n.actions {
		a.cancel()
	}
	n.pruneActionsIfIdle()
}

// ActionByTag returns the first unfinished action carrying tag, or nil.
func (n *Node) ActionByTag(tag int) *Action {
	for _, a := range n.actions {
		if a.Tag == tag && !a.done {
			return a
		}
	}
	return nil
}

// NumberOfRunningActions returns the number of unfinished actions on the node,
// including paused ones.
func (n *Node) NumberOfRunningActions() int {
	count := 0
	for _, a := range n.actions {
		if !a.done {
			count++
		}
	}
	return count
}

// scheduleAction attaches a to target and registers target with its
// scheduler when target is running.
func scheduleAction(target *Node, a *Action) {
	if target == nil {
		panic(fmt.Errorf("bramble: schedule: %w", ErrMissingTarget))
	}
	if a == nil {
		panic(invalidState("cannot schedule nil action"))
	}
	if a.started && !a.done && a.target != nil {
		panic(invalidState("action already running on %q", a.target.Name))
	}
	a.start(target)
	target.actions = append(target.actions, a)
	if target.running && target.scheduler != nil {
		target.scheduler.register(target)
	}
}

// stepActions advances the actions present when the tick began. Actions added
// during the step wait for the next tick. Stepping stops as soon as an action
// takes the node out of its running tree or pauses it.
func (n *Node) stepActions(dt float64) int {
	owner := n.scheduler
	acts := n.actions
	count := len(acts)
	stepped := 0
	for i := 0; i < count; i++ {
		if !n.running || n.paused || n.scheduler != owner {
			return stepped
		}
		a := acts[i]
		if a.done {
			continue
		}
		a.advance(dt)
		stepped++
	}
	return stepped
}

// pruneActions drops finished actions, keeping order.
func (n *Node) pruneActions() {
	kept := n.actions[:0]
	for _, a := range n.actions {
		if !a.done {
			kept = append(kept, a)
		}
	}
	clear(n.actions[len(kept):])
	n.actions = kept
}

// pruneActionsIfIdle prunes immediately unless the scheduler is mid-tick over
// this node, in which case compaction happens after the traversal.
func (n *Node) pruneActionsIfIdle() {
	if n.registered != nil && n.registered.ticking {
		return
	}
	n.pruneActions()
}
