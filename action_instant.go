package bramble

func newInstant(fx instantEffect) *Action {
	return &Action{Kind: ActionInstant, instant: fx}
}

type show struct{}

func (show) run(n *Node)            { n.Visible = true }
func (show) reverse() instantEffect { return hide{} }

type hide struct{}

func (hide) run(n *Node)            { n.Visible = false }
func (hide) reverse() instantEffect { return show{} }

type toggleVisibility struct{}

func (toggleVisibility) run(n *Node)              { n.Visible = !n.Visible }
func (t toggleVisibility) reverse() instantEffect { return t }

type place struct{ pos Vec2 }

func (p place) run(n *Node)          { n.SetPosition(p.pos.X, p.pos.Y) }
func (place) reverse() instantEffect { return nil }

type callFunc struct{ fn func(*Node) }

func (c callFunc) run(n *Node) {
	if c.fn != nil {
		c.fn(n)
	}
}
func (c callFunc) reverse() instantEffect { return c }

type removeSelf struct{}

func (removeSelf) run(n *Node)            { n.RemoveFromParent() }
func (removeSelf) reverse() instantEffect { return nil }

// Show makes the node visible.
func Show() *Action { return newInstant(show{}) }

// Hide makes the node invisible.
func Hide() *Action { return newInstant(hide{}) }

// ToggleVisibility flips the node's visibility.
func ToggleVisibility() *Action { return newInstant(toggleVisibility{}) }

// Place moves the node to (x, y) immediately.
func Place(x, y float64) *Action { return newInstant(place{Vec2{x, y}}) }

// CallFunc invokes fn once.
func CallFunc(fn func()) *Action {
	return newInstant(callFunc{func(*Node) {
		if fn != nil {
			fn()
		}
	}})
}

// CallFuncN invokes fn once with the action's target.
func CallFuncN(fn func(*Node)) *Action { return newInstant(callFunc{fn}) }

// RemoveSelf removes the target from its parent, stopping its actions.
func RemoveSelf() *Action { return newInstant(removeSelf{}) }
