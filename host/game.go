package host

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/bramble"
)

// maxTouches bounds the number of tracked touch pointers.
const maxTouches = 9

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title string
	// Width and Height are the initial window size. Zero uses the
	// director's frame size.
	Width, Height int
	Resizable     bool
	// ShowFPS turns on the director's stats overlay fed by ebiten.ActualFPS.
	ShowFPS bool
	// ClearColor fills the screen before each frame. The zero value is black.
	ClearColor bramble.Color
	// ExitOnEnd stops the game loop once the director has no running scene.
	ExitOnEnd bool
}

// Game adapts a bramble.Director to ebiten.Game.
type Game struct {
	director *bramble.Director
	cfg      RunConfig
	canvas   *Canvas

	mouseDown bool
	mouseX    float64
	mouseY    float64

	touchBuf []ebiten.TouchID
	touches  map[ebiten.TouchID]touchState
}

type touchState struct {
	id   int
	x, y float64
	seen bool
}

// NewGame wraps d. The director is not started; run a scene on it first.
func NewGame(d *bramble.Director, cfg RunConfig) *Game {
	return &Game{
		director: d,
		cfg:      cfg,
		canvas:   NewCanvas(nil),
		touches:  make(map[ebiten.TouchID]touchState),
	}
}

// Director returns the wrapped director.
func (g *Game) Director() *bramble.Director {
	return g.director
}

// Update reads pointer input and advances the director by one tick.
// Real input is skipped on ticks that consume an injected event.
func (g *Game) Update() error {
	if g.director.PendingInjections() == 0 {
		g.processMouse()
		g.processTouches()
	}
	g.director.Tick(1.0 / float64(ebiten.TPS()))
	if g.cfg.ExitOnEnd && g.director.State() == bramble.NoSceneRunning {
		return ebiten.Termination
	}
	return nil
}

// Draw renders the running scene onto screen.
func (g *Game) Draw(screen *ebiten.Image) {
	c := g.cfg.ClearColor
	if c.A > 0 {
		screen.Fill(toRGBA(c))
	}
	g.canvas.SetTarget(screen)
	g.director.Draw(g.canvas)
}

// Layout reports the outside size as the frame size, so the resolution policy
// sees real window pixels.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.director.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// processMouse turns the left button state into pointer 0 events.
func (g *Game) processMouse() {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case pressed && !g.mouseDown:
		g.director.HandlePointer(bramble.PointerEvent{Phase: bramble.PointerDown, X: x, Y: y})
	case pressed && (x != g.mouseX || y != g.mouseY):
		g.director.HandlePointer(bramble.PointerEvent{Phase: bramble.PointerMove, X: x, Y: y})
	case !pressed && g.mouseDown:
		g.director.HandlePointer(bramble.PointerEvent{Phase: bramble.PointerUp, X: x, Y: y})
	}
	g.mouseDown = pressed
	g.mouseX, g.mouseY = x, y
}

// processTouches maps ebiten touch IDs to pointer IDs 1..maxTouches.
func (g *Game) processTouches() {
	g.touchBuf = ebiten.AppendTouchIDs(g.touchBuf[:0])
	for tid, st := range g.touches {
		st.seen = false
		g.touches[tid] = st
	}
	for _, tid := range g.touchBuf {
		tx, ty := ebiten.TouchPosition(tid)
		x, y := float64(tx), float64(ty)
		st, ok := g.touches[tid]
		if !ok {
			id := g.freeTouchID()
			if id < 0 {
				continue
			}
			st = touchState{id: id, x: x, y: y}
			g.director.HandlePointer(bramble.PointerEvent{Phase: bramble.PointerDown, X: x, Y: y, ID: id})
		} else if x != st.x || y != st.y {
			g.director.HandlePointer(bramble.PointerEvent{Phase: bramble.PointerMove, X: x, Y: y, ID: st.id})
		}
		st.x, st.y, st.seen = x, y, true
		g.touches[tid] = st
	}
	for tid, st := range g.touches {
		if st.seen {
			continue
		}
		g.director.HandlePointer(bramble.PointerEvent{Phase: bramble.PointerUp, X: st.x, Y: st.y, ID: st.id})
		delete(g.touches, tid)
	}
}

func (g *Game) freeTouchID() int {
	for id := 1; id <= maxTouches; id++ {
		used := false
		for _, st := range g.touches {
			if st.id == id {
				used = true
				break
			}
		}
		if !used {
			return id
		}
	}
	return -1
}

// Run opens a window and runs d until the window closes. Returning
// ebiten.Termination from Update (ExitOnEnd) ends the loop with a nil error.
func Run(d *bramble.Director, cfg RunConfig) error {
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		fs := d.FrameSize()
		w, h = int(fs.Width), int(fs.Height)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, h)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.ShowFPS {
		d.SetFPSSource(ebiten.ActualFPS)
		d.SetDisplayStats(true)
	}
	d.Resize(float64(w), float64(h))
	return ebiten.RunGame(NewGame(d, cfg))
}
