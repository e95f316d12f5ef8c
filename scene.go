package bramble

// NewScene creates the root node of one application state. The director sizes
// the scene to the design resolution when it starts running.
func NewScene(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeScene}
	nodeDefaults(n)
	return n
}

// IsTransition reports whether the scene is a transition wrapper created by
// one of the NewTransition constructors.
func (n *Node) IsTransition() bool {
	return n.transition != nil
}

// fitToWindow gives scenes, layers and menus with no content size the window
// size. Nested layers are handled too, so a layer added inside another still
// fills the screen. A menu aligned before it was sized is aligned again.
func fitToWindow(n *Node, win Size) {
	switch n.Type {
	case NodeTypeScene, NodeTypeLayer, NodeTypeMenu:
		if n.Width == 0 && n.Height == 0 {
			n.Width, n.Height = win.Width, win.Height
			if n.Type == NodeTypeMenu {
				n.relayoutMenu()
			}
		}
	}
	for _, c := range n.children {
		fitToWindow(c, win)
	}
}
