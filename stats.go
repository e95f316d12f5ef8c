package bramble

import "fmt"

const (
	statsKey      = "stats"
	statsInterval = 0.5
	statsFontSize = 12
	statsMargin   = 4
)

// SetDisplayStats shows or hides an overlay label with the frame rate and
// frame count, refreshed twice per second by a scheduler timer.
func (d *Director) SetDisplayStats(on bool) {
	if on == (d.stats != nil) {
		return
	}
	if !on {
		d.stats.exit()
		d.stats.cleanup()
		d.stats = nil
		return
	}
	n := NewLabel("", statsFontSize)
	n.Name = "stats"
	n.AnchorX, n.AnchorY = 0, 1
	n.Color = Color{1, 1, 1, 0.8}
	d.stats = n
	d.statsFrames, d.statsTime = 0, 0
	d.refreshStats()
	d.placeStats()
	n.enter(d.scheduler)
	n.Schedule(statsKey, func(float64) { d.refreshStats() }, statsInterval)
}

// IsDisplayingStats reports whether the stats overlay is shown.
func (d *Director) IsDisplayingStats() bool {
	return d.stats != nil
}

// SetFPSSource overrides the frame rate shown by the stats overlay. Hosts with
// a real clock pass their measured rate; otherwise the rate is derived from
// the dt values given to Tick.
func (d *Director) SetFPSSource(fn func() float64) {
	d.fpsSource = fn
}

// StatsText returns the overlay's current text, or "" when hidden.
func (d *Director) StatsText() string {
	if d.stats == nil {
		return ""
	}
	return d.stats.Text
}

func (d *Director) refreshStats() {
	if d.stats == nil {
		return
	}
	fps := 0.0
	switch {
	case d.fpsSource != nil:
		fps = d.fpsSource()
	case d.statsTime > 0:
		fps = float64(d.statsFrames) / d.statsTime
	}
	d.statsFrames, d.statsTime = 0, 0
	d.stats.SetString(fmt.Sprintf("FPS: %.1f frames: %d", fps, d.totalFrames))
}

// placeStats pins the overlay to the bottom-left of the visible area.
func (d *Director) placeStats() {
	if d.stats == nil {
		return
	}
	o := d.viewport.VisibleOrigin
	s := d.viewport.VisibleSize
	d.stats.SetPosition(o.X+statsMargin, o.Y+s.Height-statsMargin)
}
