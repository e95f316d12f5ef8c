package bramble

import (
	"fmt"
	"math"
)

// Sequence runs actions one after another. Time left over when a child
// finishes is handed to the next child in the same tick, so the sequence
// completes after the sum of its children's durations. An empty sequence
// completes on its first tick.
func Sequence(actions ...*Action) *Action {
	total := 0.0
	for _, a := range actions {
		total += a.duration
	}
	return &Action{Kind: ActionComposite, Op: CompositeSequence, duration: total, children: actions}
}

// Spawn runs actions in parallel and completes when all of them have.
func Spawn(actions ...*Action) *Action {
	longest := 0.0
	for _, a := range actions {
		longest = math.Max(longest, a.duration)
	}
	return &Action{Kind: ActionComposite, Op: CompositeSpawn, duration: longest, children: actions}
}

// Repeat runs a times times, restarting it each time it completes.
func Repeat(a *Action, times int) *Action {
	times = max(times, 1)
	return &Action{
		Kind:     ActionComposite,
		Op:       CompositeRepeat,
		duration: a.duration * float64(times),
		times:    times,
		children: []*Action{a},
	}
}

// RepeatForever runs a indefinitely. It never completes on its own.
func RepeatForever(a *Action) *Action {
	return &Action{
		Kind:     ActionComposite,
		Op:       CompositeRepeatForever,
		duration: Forever,
		children: []*Action{a},
	}
}

// Speed runs a with its clock scaled by factor. Factors <= 0 freeze it.
func Speed(a *Action, factor float64) *Action {
	d := Forever
	if factor > 0 {
		d = a.duration / factor
	}
	return &Action{
		Kind:     ActionComposite,
		Op:       CompositeSpeed,
		duration: d,
		speed:    factor,
		children: []*Action{a},
	}
}

// SetSpeed changes the factor of a Speed action while it runs.
func (a *Action) SetSpeed(factor float64) {
	if a.Op != CompositeSpeed {
		panic(fmt.Sprintf("bramble: SetSpeed on %s action", a.Kind))
	}
	a.speed = factor
}

// TargetedAction runs a on target instead of the node it is scheduled on.
func TargetedAction(target *Node, a *Action) *Action {
	return &Action{
		Kind:     ActionComposite,
		Op:       CompositeTargeted,
		duration: a.duration,
		other:    target,
		children: []*Action{a},
	}
}

// startComposite resets the composite's state machine. Sequence children are
// started lazily when reached; every other composite starts its children now.
func (a *Action) startComposite(target *Node) {
	a.index = 0
	a.count = 0
	switch a.Op {
	case CompositeSequence:
		for _, c := range a.children {
			c.started = false
			c.done = false
		}
	case CompositeTargeted:
		if a.other == nil {
			panic(fmt.Errorf("bramble: targeted action: %w", ErrMissingTarget))
		}
		a.children[0].start(a.other)
	default:
		for _, c := range a.children {
			c.start(target)
		}
	}
}

func (a *Action) advanceComposite(dt float64) float64 {
	switch a.Op {
	case CompositeSequence:
		return a.advanceSequence(dt)
	case CompositeSpawn:
		return a.advanceSpawn(dt)
	case CompositeRepeat, CompositeRepeatForever:
		return a.advanceRepeat(dt)
	case CompositeSpeed:
		return a.advanceSpeed(dt)
	case CompositeTargeted:
		rest := a.children[0].advance(dt)
		a.elapsed = a.children[0].elapsed
		if a.children[0].done {
			a.done = true
			return rest
		}
		return 0
	default:
		panic(fmt.Sprintf("bramble: unknown composite op %d", a.Op))
	}
}

func (a *Action) advanceSequence(dt float64) float64 {
	for a.index < len(a.children) {
		c := a.children[a.index]
		if !c.started {
			c.start(a.target)
		}
		before := dt
		dt = c.advance(dt)
		a.elapsed += before - dt
		if a.cancelled || !c.done {
			return 0
		}
		a.index++
	}
	a.done = true
	return dt
}

func (a *Action) advanceSpawn(dt float64) float64 {
	used := 0.0
	allDone := true
	for _, c := range a.children {
		if c.done {
			continue
		}
		rest := c.advance(dt)
		if a.cancelled {
			return 0
		}
		used = math.Max(used, dt-rest)
		if !c.done {
			allDone = false
		}
	}
	a.elapsed += used
	if !allDone {
		return 0
	}
	a.done = true
	return dt - used
}

func (a *Action) advanceRepeat(dt float64) float64 {
	inner := a.children[0]
	for {
		before := dt
		dt = inner.advance(dt)
		a.elapsed += before - dt
		if a.cancelled || !inner.done {
			return 0
		}
		a.count++
		if a.Op == CompositeRepeat && a.count >= a.times {
			a.done = true
			return dt
		}
		inner.start(a.target)
		// A zero-length child repeating forever runs once per tick.
		if a.Op == CompositeRepeatForever && dt >= before {
			return 0
		}
	}
}

func (a *Action) advanceSpeed(dt float64) float64 {
	if a.speed <= 0 {
		return 0
	}
	inner := a.children[0]
	rest := inner.advance(dt * a.speed)
	a.elapsed += dt - rest/a.speed
	if inner.done {
		a.done = true
		return rest / a.speed
	}
	return 0
}

func (a *Action) reverseComposite() *Action {
	switch a.Op {
	case CompositeSequence:
		rev := make([]*Action, len(a.children))
		for i, c := range a.children {
			rev[len(a.children)-1-i] = c.Reverse()
		}
		r := Sequence(rev...)
		r.Tag = a.Tag
		return r
	case CompositeSpawn:
		rev := make([]*Action, len(a.children))
		for i, c := range a.children {
			rev[i] = c.Reverse()
		}
		r := Spawn(rev...)
		r.Tag = a.Tag
		return r
	case CompositeRepeat:
		r := Repeat(a.children[0].Reverse(), a.times)
		r.Tag = a.Tag
		return r
	case CompositeRepeatForever:
		r := RepeatForever(a.children[0].Reverse())
		r.Tag = a.Tag
		return r
	case CompositeSpeed:
		r := Speed(a.children[0].Reverse(), a.speed)
		r.Tag = a.Tag
		return r
	case CompositeTargeted:
		r := TargetedAction(a.other, a.children[0].Reverse())
		r.Tag = a.Tag
		return r
	default:
		panic(fmt.Sprintf("bramble: unknown composite op %d", a.Op))
	}
}
