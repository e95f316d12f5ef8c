package bramble

import "github.com/tanema/gween/ease"

type transitionKind uint8

const (
	transitionFade transitionKind = iota
	transitionSlideInL
)

// transition is the state of a transition scene. The wrapper scene owns
// neither scene as a child: both stay parentless roots while the wrapper runs
// them side by side.
type transition struct {
	kind     transitionKind
	duration float64
	color    Color

	in, out    *Node
	cleanupOut bool
	director   *Director

	progress float64
	started  bool
	finished bool
}

// NewTransitionFade returns a scene that fades the running scene out to c and
// then fades scene in, over d seconds in total. Run it with ReplaceScene or
// PushScene.
func NewTransitionFade(d float64, scene *Node, c Color) *Node {
	t := newTransitionScene("fade", d, scene)
	t.transition.kind = transitionFade
	t.transition.color = Color{c.R, c.G, c.B, 1}
	return t
}

// NewTransitionSlideInL returns a scene that slides scene in from the left
// over d seconds, covering the running scene.
func NewTransitionSlideInL(d float64, scene *Node) *Node {
	t := newTransitionScene("slide_in_l", d, scene)
	t.transition.kind = transitionSlideInL
	return t
}

func newTransitionScene(kind string, d float64, scene *Node) *Node {
	if scene == nil {
		panic(invalidState("%s transition needs an in-scene", kind))
	}
	if scene.Type != NodeTypeScene || scene.transition != nil {
		panic(invalidState("%s transition target %q is not a plain scene", kind, scene.Name))
	}
	t := NewScene(kind + ":" + scene.Name)
	t.transition = &transition{duration: max(d, 0), in: scene}
	return t
}

// InScene returns the scene a transition hands over to.
func (n *Node) InScene() *Node {
	if n.transition == nil {
		return nil
	}
	return n.transition.in
}

func (tr *transition) active() bool {
	return tr.started && !tr.finished
}

// enter starts both scenes and the progress clock. Called once the wrapper
// itself is running.
func (tr *transition) enter(t *Node) {
	tr.started = true
	tr.finished = false
	tr.progress = 0
	if tr.out != nil {
		tr.out.exitTransitionDidStart()
	}
	if tr.kind == transitionSlideInL {
		tr.in.X = -t.Width
	}
	tr.in.enter(t.scheduler)
	t.RunAction(Sequence(
		Tween(tr.duration, 0, 1, ease.Linear, func(v float64) { tr.setProgress(t, v) }),
		CallFunc(func() { tr.finish(t) }),
	))
}

func (tr *transition) setProgress(t *Node, v float64) {
	tr.progress = v
	if tr.kind == transitionSlideInL {
		tr.in.X = -t.Width * (1 - v)
	}
}

// finish hands the director over to the in-scene without re-entering it.
func (tr *transition) finish(t *Node) {
	if tr.finished {
		return
	}
	tr.finished = true
	tr.setProgress(t, 1)
	if tr.director != nil {
		tr.director.finishTransition(t)
	}
}

// exit stops the out-scene and reports it as exited, whether the transition
// finished or was cut short. If the transition completed, the in-scene is told
// so; otherwise the in-scene is torn down as well.
func (tr *transition) exit(*Node) {
	if tr.out != nil && tr.out.running {
		tr.out.exit()
		if tr.cleanupOut {
			tr.out.cleanup()
		}
		if tr.director != nil {
			tr.director.emit(EventSceneExit, tr.out)
		}
	}
	tr.out = nil
	if tr.finished {
		tr.in.enterTransitionDidFinish()
		return
	}
	if tr.in.running {
		tr.in.exit()
		tr.in.cleanup()
	}
}

// traverse draws the scenes that are visible at the current progress.
func (tr *transition) traverse(r *renderer, t *Node, world Affine, opacity float64) {
	switch tr.kind {
	case transitionFade:
		alpha := tr.progress * 2
		scene := tr.out
		if tr.progress >= 0.5 {
			alpha = (1 - tr.progress) * 2
			scene = tr.in
		}
		if scene != nil {
			r.traverse(scene, world, opacity)
		}
		c := tr.color
		c.A = clamp01(alpha) * opacity
		r.overlay(world, t.Width, t.Height, c)
	default:
		if tr.out != nil {
			r.traverse(tr.out, world, opacity)
		}
		r.traverse(tr.in, world, opacity)
	}
}
