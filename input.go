package bramble

// PointerPhase is the stage of a pointer gesture.
type PointerPhase uint8

const (
	PointerDown   PointerPhase = iota // button pressed or touch began
	PointerMove                       // position changed while down
	PointerUp                         // button released or touch ended
	PointerCancel                     // gesture aborted by the host
)

func (p PointerPhase) String() string {
	switch p {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// PointerEvent is an already-decoded pointer sample in frame pixels.
// ID 0 is the mouse; touches use their own IDs.
type PointerEvent struct {
	Phase PointerPhase
	X, Y  float64
	ID    int
}

// HandlePointer dispatches a pointer event to the menus of the running scene.
// Events are ignored while no scene runs, while a transition plays, and while
// the director is paused. It reports whether a menu consumed the event.
func (d *Director) HandlePointer(ev PointerEvent) bool {
	scene := d.RunningScene()
	if scene == nil || scene.IsTransition() || d.paused {
		d.dropCaptures()
		return false
	}
	x, y := d.viewport.FrameToDesign(ev.X, ev.Y)

	switch ev.Phase {
	case PointerDown:
		if _, busy := d.captured[ev.ID]; busy {
			return true
		}
		menus := d.menuBuf[:0]
		menus = collectMenus(scene, menus)
		d.menuBuf = menus
		for i := len(menus) - 1; i >= 0; i-- {
			m := menus[i]
			if m.menu.track != menuWaiting {
				continue
			}
			item := m.itemAt(x, y)
			if item == nil {
				continue
			}
			m.menu.track = menuTracking
			m.menu.pointer = ev.ID
			m.menu.selected = item
			item.selectedItem()
			d.captured[ev.ID] = m
			return true
		}
		return false

	case PointerMove:
		m, ok := d.captured[ev.ID]
		if !ok {
			return false
		}
		if !m.running || m.menu == nil {
			delete(d.captured, ev.ID)
			return false
		}
		item := m.itemAt(x, y)
		if item != m.menu.selected {
			if m.menu.selected != nil {
				m.menu.selected.unselected()
			}
			m.menu.selected = item
			if item != nil {
				item.selectedItem()
			}
		}
		return true

	case PointerUp:
		m, ok := d.captured[ev.ID]
		if !ok {
			return false
		}
		delete(d.captured, ev.ID)
		if !m.running || m.menu == nil {
			return false
		}
		item := m.itemAt(x, y)
		if item != m.menu.selected && m.menu.selected != nil {
			m.menu.selected.unselected()
			m.menu.selected = nil
		}
		m.menu.track = menuWaiting
		if item != nil && item == m.menu.selected {
			m.menu.selected = nil
			item.unselected()
			d.emit(EventMenuActivate, item)
			item.Activate()
		}
		return true

	default:
		m, ok := d.captured[ev.ID]
		if !ok {
			return false
		}
		delete(d.captured, ev.ID)
		if m.menu != nil {
			m.menu.reset()
		}
		return true
	}
}

// dropCaptures releases every claimed pointer.
func (d *Director) dropCaptures() {
	for id, m := range d.captured {
		if m.menu != nil {
			m.menu.reset()
		}
		delete(d.captured, id)
	}
}

// collectMenus appends the running, visible, enabled menus under n in draw
// order, so the last entry is the topmost.
func collectMenus(n *Node, dst []*Node) []*Node {
	if !n.Visible {
		return dst
	}
	kids := n.Children()
	i := 0
	for ; i < len(kids) && kids[i].zOrder < 0; i++ {
		dst = collectMenus(kids[i], dst)
	}
	if n.Type == NodeTypeMenu && n.menu != nil && n.running && n.enabled {
		dst = append(dst, n)
	}
	for ; i < len(kids); i++ {
		dst = collectMenus(kids[i], dst)
	}
	return dst
}
