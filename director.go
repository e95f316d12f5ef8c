package bramble

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// State is the director's scene state.
type State uint8

const (
	NoSceneRunning State = iota // no scene has been run, or End was called
	SceneRunning                // a scene (possibly a transition) is running
)

func (s State) String() string {
	if s == SceneRunning {
		return "scene_running"
	}
	return "no_scene_running"
}

// Director owns the scene stack, the scheduler, and the mapping from the
// design resolution to the host frame. It is driven from outside: the host
// calls Tick once per frame, Draw to render, and HandlePointer for input.
type Director struct {
	cfg       Config
	scheduler *Scheduler
	logger    *log.Logger
	renderer  *renderer

	scenes []*Node
	paused bool
	debug  bool
	sink   EventSink

	frame    Size
	design   Size
	policy   ResolutionPolicy
	viewport Viewport

	totalFrames uint64
	stats       *Node
	statsFrames int
	statsTime   float64
	fpsSource   func() float64
	lastStats   debugStats

	captured    map[int]*Node
	menuBuf     []*Node
	injectQueue []PointerEvent
	runner      *TestRunner
}

// NewDirector creates an idle director. Zero-valued fields of cfg take their
// DefaultConfig values.
func NewDirector(cfg Config) *Director {
	def := DefaultConfig()
	if cfg.DesignWidth <= 0 || cfg.DesignHeight <= 0 {
		cfg.DesignWidth, cfg.DesignHeight = def.DesignWidth, def.DesignHeight
	}
	if cfg.FrameWidth <= 0 || cfg.FrameHeight <= 0 {
		cfg.FrameWidth, cfg.FrameHeight = int(cfg.DesignWidth), int(cfg.DesignHeight)
	}
	if cfg.AnimationInterval <= 0 {
		cfg.AnimationInterval = def.AnimationInterval
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bramble",
		Level:           cfg.level(),
	})
	d := &Director{
		cfg:       cfg,
		scheduler: NewScheduler(logger),
		logger:    logger,
		renderer:  newRenderer(),
		frame:     Size{float64(cfg.FrameWidth), float64(cfg.FrameHeight)},
		design:    Size{cfg.DesignWidth, cfg.DesignHeight},
		policy:    cfg.Policy,
		captured:  make(map[int]*Node),
	}
	d.updateViewport()
	d.SetDebugMode(cfg.Debug)
	d.SetDisplayStats(cfg.DisplayStats)
	return d
}

// Config returns the configuration the director was created with.
func (d *Director) Config() Config {
	return d.cfg
}

// Scheduler returns the scheduler that steps the running tree.
func (d *Director) Scheduler() *Scheduler {
	return d.scheduler
}

// Logger returns the director's logger.
func (d *Director) Logger() *log.Logger {
	return d.logger
}

// SetLogger replaces the logger used by the director and its scheduler. A
// nil logger discards output.
func (d *Director) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	d.logger = l
	d.scheduler.logger = l
}

// SetEventSink forwards scene and menu events to sink. Pass nil to disable.
func (d *Director) SetEventSink(sink EventSink) {
	d.sink = sink
}

// SetDebugMode enables per-frame timing logs and tree size warnings.
func (d *Director) SetDebugMode(on bool) {
	d.debug = on
	d.scheduler.debug = on
	if on && d.logger != nil {
		d.logger.SetLevel(log.DebugLevel)
	}
}

// State reports whether a scene is running.
func (d *Director) State() State {
	if len(d.scenes) == 0 {
		return NoSceneRunning
	}
	return SceneRunning
}

// RunningScene returns the scene on top of the stack, or nil.
func (d *Director) RunningScene() *Node {
	if len(d.scenes) == 0 {
		return nil
	}
	return d.scenes[len(d.scenes)-1]
}

// SceneStackDepth returns the number of scenes on the stack.
func (d *Director) SceneStackDepth() int {
	return len(d.scenes)
}

// RunWithScene starts the first scene. It fails with ErrInvalidState if a
// scene is already running.
func (d *Director) RunWithScene(scene *Node) error {
	if err := d.checkScene("RunWithScene", scene); err != nil {
		return err
	}
	if len(d.scenes) > 0 {
		return invalidState("RunWithScene: scene %q is already running", d.RunningScene().Name)
	}
	d.scenes = append(d.scenes, scene)
	d.startScene(scene, nil, true)
	d.logger.Debug("run scene", "scene", scene.Name)
	return nil
}

// ReplaceScene exits and cleans up the running scene and enters scene in its
// place. If scene is a transition, the old scene keeps running until the
// transition finishes. Fails with ErrInvalidState if no scene is running.
func (d *Director) ReplaceScene(scene *Node) error {
	if err := d.checkScene("ReplaceScene", scene); err != nil {
		return err
	}
	if len(d.scenes) == 0 {
		return invalidState("ReplaceScene: no scene is running")
	}
	d.completeTransition()
	old := d.RunningScene()
	if old == scene {
		return invalidState("ReplaceScene: scene %q is already running", scene.Name)
	}
	d.scenes[len(d.scenes)-1] = scene
	if scene.transition == nil {
		d.stopScene(old, true)
	}
	d.startScene(scene, old, true)
	d.logger.Debug("replace scene", "from", old.Name, "to", scene.Name)
	return nil
}

// PushScene suspends the running scene without cleanup and runs scene on top
// of it. Fails with ErrInvalidState if no scene is running.
func (d *Director) PushScene(scene *Node) error {
	if err := d.checkScene("PushScene", scene); err != nil {
		return err
	}
	if len(d.scenes) == 0 {
		return invalidState("PushScene: no scene is running")
	}
	d.completeTransition()
	old := d.RunningScene()
	for _, s := range d.scenes {
		if s == scene {
			return invalidState("PushScene: scene %q is already on the stack", scene.Name)
		}
	}
	d.scenes = append(d.scenes, scene)
	if scene.transition == nil {
		d.stopScene(old, false)
	}
	d.startScene(scene, old, false)
	d.logger.Debug("push scene", "scene", scene.Name, "depth", len(d.scenes))
	return nil
}

// PopScene ends the running scene and resumes the one below it. Popping the
// last scene is the same as End. Fails with ErrInvalidState if no scene is
// running.
func (d *Director) PopScene() error {
	if len(d.scenes) == 0 {
		return invalidState("PopScene: no scene is running")
	}
	if len(d.scenes) == 1 {
		d.End()
		return nil
	}
	cur := d.RunningScene()
	d.scenes[len(d.scenes)-1] = nil
	d.scenes = d.scenes[:len(d.scenes)-1]
	d.stopScene(cur, true)
	d.startScene(d.RunningScene(), nil, false)
	d.logger.Debug("pop scene", "scene", cur.Name, "depth", len(d.scenes))
	return nil
}

// End exits and cleans up every scene on the stack. The director returns to
// NoSceneRunning and can run a new scene.
func (d *Director) End() {
	d.dropCaptures()
	for i := len(d.scenes) - 1; i >= 0; i-- {
		d.stopScene(d.scenes[i], true)
		d.scenes[i] = nil
	}
	d.scenes = d.scenes[:0]
	d.injectQueue = d.injectQueue[:0]
	d.logger.Debug("end")
}

// Pause stops the scheduler. Drawing continues and pointer input is ignored.
func (d *Director) Pause() {
	d.paused = true
}

// Resume restarts the scheduler after Pause.
func (d *Director) Resume() {
	d.paused = false
}

// IsPaused reports whether Pause is in effect.
func (d *Director) IsPaused() bool {
	return d.paused
}

// Tick advances the director by dt seconds: the test runner and one injected
// pointer event are processed first, then the scheduler steps every action
// and timer of the running tree.
func (d *Director) Tick(dt float64) {
	var start time.Time
	if d.debug {
		start = time.Now()
	}
	if d.runner != nil {
		d.runner.step(d)
	}
	d.processInjectedInput()
	if !d.paused {
		d.scheduler.Tick(dt)
	}
	d.totalFrames++
	d.statsFrames++
	d.statsTime += dt
	if d.debug {
		d.lastStats.tickTime = time.Since(start)
		d.lastStats.targets = d.scheduler.NumTargets()
	}
}

// Draw renders the running scene and the stats overlay onto c, mapped from
// design coordinates to frame pixels by the resolution policy.
func (d *Director) Draw(c Canvas) {
	var start time.Time
	if d.debug {
		start = time.Now()
	}
	r := d.renderer
	r.reset()
	view := d.viewport.Transform()
	if scene := d.RunningScene(); scene != nil {
		r.traverse(scene, view, 1)
	}
	if d.stats != nil {
		r.traverse(d.stats, view, 1)
	}
	r.submit(c)
	if d.debug {
		d.lastStats.drawTime = time.Since(start)
		d.lastStats.drawnNodes = len(r.commands)
		if d.totalFrames%60 == 0 {
			d.debugLog(d.lastStats)
		}
	}
}

// Resize records a new frame size and recomputes the viewport.
func (d *Director) Resize(w, h float64) {
	if w == d.frame.Width && h == d.frame.Height {
		return
	}
	d.frame = Size{w, h}
	d.updateViewport()
	d.logger.Debug("resize", "width", w, "height", h, "scale", d.viewport.ScaleX)
}

// SetDesignResolution changes the design size and policy.
func (d *Director) SetDesignResolution(w, h float64, policy ResolutionPolicy) {
	d.design = Size{w, h}
	d.policy = policy
	d.updateViewport()
}

func (d *Director) updateViewport() {
	d.viewport = d.policy.Apply(d.frame, d.design)
	d.placeStats()
}

// Viewport returns the current design-to-frame mapping.
func (d *Director) Viewport() Viewport {
	return d.viewport
}

// FrameSize returns the host frame size in pixels.
func (d *Director) FrameSize() Size {
	return d.frame
}

// WinSize returns the effective design size scenes are laid out in.
func (d *Director) WinSize() Size {
	return d.viewport.Design
}

// VisibleSize returns the part of the design area that is on screen.
func (d *Director) VisibleSize() Size {
	return d.viewport.VisibleSize
}

// VisibleOrigin returns the top-left of the visible design area.
func (d *Director) VisibleOrigin() Vec2 {
	return d.viewport.VisibleOrigin
}

// TotalFrames returns the number of ticks since the director was created.
func (d *Director) TotalFrames() uint64 {
	return d.totalFrames
}

// AnimationInterval returns the configured fixed tick length in seconds.
func (d *Director) AnimationInterval() float64 {
	return d.cfg.AnimationInterval
}

// --- Scene plumbing ---

func (d *Director) checkScene(op string, scene *Node) error {
	if scene == nil {
		return invalidState("%s: nil scene", op)
	}
	if d.debug {
		debugCheckDisposed(scene, op)
	}
	if scene.disposed {
		return invalidState("%s: scene %q is disposed", op, scene.Name)
	}
	if scene.Type != NodeTypeScene {
		return invalidState("%s: %q is a %s, not a scene", op, scene.Name, scene.Type)
	}
	if scene.Parent != nil {
		return invalidState("%s: scene %q has a parent", op, scene.Name)
	}
	return nil
}

// startScene enters scene. A transition scene takes over out and exits it
// itself when it finishes.
func (d *Director) startScene(scene, out *Node, cleanupOut bool) {
	win := d.WinSize()
	fitToWindow(scene, win)
	if tr := scene.transition; tr != nil {
		fitToWindow(tr.in, win)
		tr.director = d
		tr.out = out
		tr.cleanupOut = cleanupOut
		scene.enter(d.scheduler)
		d.emit(EventTransitionStart, scene)
		return
	}
	scene.enter(d.scheduler)
	scene.enterTransitionDidFinish()
	d.emit(EventSceneEnter, scene)
}

// stopScene exits scene and optionally cleans it up.
func (d *Director) stopScene(scene *Node, cleanup bool) {
	if scene == nil {
		return
	}
	if scene.running {
		scene.exitTransitionDidStart()
		scene.exit()
		d.emit(EventSceneExit, scene)
	}
	if cleanup {
		scene.cleanup()
	}
}

// completeTransition finishes a running transition immediately so a new
// scene change starts from its in-scene.
func (d *Director) completeTransition() {
	if t := d.RunningScene(); t != nil && t.transition != nil && t.transition.active() {
		t.transition.finish(t)
	}
}

// finishTransition swaps a finished transition for its in-scene without
// re-entering it.
func (d *Director) finishTransition(t *Node) {
	idx := -1
	for i, s := range d.scenes {
		if s == t {
			idx = i
		}
	}
	if idx < 0 {
		return
	}
	in := t.transition.in
	d.scenes[idx] = in
	t.exit()
	t.cleanup()
	d.emit(EventTransitionFinish, t)
	d.emit(EventSceneEnter, in)
	d.logger.Debug("transition finished", "scene", in.Name)
}
