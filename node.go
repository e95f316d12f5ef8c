package bramble

// --- ID counters ---

// nodeIDCounter is a plain counter and is not atomic; bramble is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// arrivalCounter orders siblings that share a z-order. Every insertion and
// every reorder takes a fresh value, so later arrivals sort after earlier ones.
var arrivalCounter uint64

func nextArrival() uint64 {
	arrivalCounter++
	return arrivalCounter
}

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types; the Type tag selects built-in drawing and input behavior.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType
	Tag  int

	// Hierarchy. Parent is a weak back-reference; children are owned.
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y             float64
	ScaleX, ScaleY   float64
	Rotation         float64 // degrees, clockwise on screen
	SkewX, SkewY     float64 // degrees
	AnchorX, AnchorY float64 // fraction of content size
	Width, Height    float64 // content size

	// Appearance
	Visible bool
	Opacity float64
	Color   Color

	// Ordering
	zOrder         int
	arrival        uint64
	childrenSorted bool

	// Metadata
	UserData any

	// Visual payloads. Only the field matching Type is used.
	Texture  Texture  // NodeTypeSprite
	Text     string   // NodeTypeLabel
	FontSize float64  // NodeTypeLabel
	Custom   Drawable // optional extra visual drawn for any node type

	// Menu fields (NodeTypeMenu, NodeTypeMenuItem)
	Callback func(item *Node)
	enabled  bool
	selected bool
	menu     *menuState
	label    *Node
	zoom     float64

	// Scene transition state (NodeTypeScene only)
	transition *transition

	// Lifecycle hooks (nil by default)
	OnEnter                    func()
	OnExit                     func()
	OnEnterTransitionDidFinish func()
	OnExitTransitionDidStart   func()

	// Scheduling. Actions and timers are exclusively owned by this node.
	scheduler  *Scheduler
	actions    []*Action
	timers     []*timer
	running    bool
	paused     bool
	registered *Scheduler // the scheduler whose tick list holds this node

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Opacity = 1
	n.Color = ColorWhite
	n.Visible = true
	n.enabled = true
	n.childrenSorted = true
}

// NewNode creates a container node with no visual representation.
func NewNode(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewLayer creates a full-window group node. Its size is taken from the
// director when the layer's scene starts running.
func NewLayer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeLayer}
	nodeDefaults(n)
	return n
}

// NewColorLayer creates a layer that fills its content size with a solid color.
func NewColorLayer(name string, c Color, w, h float64) *Node {
	n := &Node{Name: name, Type: NodeTypeColorLayer, Width: w, Height: h}
	nodeDefaults(n)
	n.Color = Color{c.R, c.G, c.B, 1}
	n.Opacity = c.A
	return n
}

// NewSprite creates a sprite node that displays a pre-decoded texture.
// A nil texture creates an empty sprite that can be assigned later.
func NewSprite(name string, tex Texture) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite}
	nodeDefaults(n)
	n.AnchorX, n.AnchorY = 0.5, 0.5
	n.SetTexture(tex)
	return n
}

// SetTexture replaces the sprite's texture and resizes the node to match.
func (n *Node) SetTexture(tex Texture) {
	n.Texture = tex
	if tex != nil {
		w, h := tex.Size()
		n.Width, n.Height = float64(w), float64(h)
	}
}

// --- Tree manipulation ---

// AddChild appends child using the child's current z-order and tag.
// Panics with ErrInvalidState if child is nil, already has a parent, or is an
// ancestor of this node.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic(invalidState("cannot add nil child"))
	}
	n.AddChildZTag(child, child.zOrder, child.Tag)
}

// AddChildZ appends child with the given z-order.
func (n *Node) AddChildZ(child *Node, z int) {
	if child == nil {
		panic(invalidState("cannot add nil child"))
	}
	n.AddChildZTag(child, z, child.Tag)
}

// AddChildZTag appends child with the given z-order and tag. If this node is
// running, the child subtree enters immediately and its paused actions resume.
func (n *Node) AddChildZTag(child *Node, z, tag int) {
	if child == nil {
		panic(invalidState("cannot add nil child"))
	}
	if n.disposed || child.disposed {
		panic(invalidState("AddChild on disposed node %q", pickDisposedName(n, child)))
	}
	if child.Parent != nil {
		panic(invalidState("node %q already has parent %q", child.Name, child.Parent.Name))
	}
	if isAncestor(child, n) {
		panic(invalidState("adding %q to %q would create a cycle", child.Name, n.Name))
	}
	child.Parent = n
	child.zOrder = z
	child.Tag = tag
	child.arrival = nextArrival()
	n.children = append(n.children, child)
	n.childrenSorted = false
	if n.running {
		child.enter(n.scheduler)
	}
	if n.scheduler != nil && n.scheduler.debug {
		n.scheduler.debugCheckTreeDepth(child)
		n.scheduler.debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node, exits it if running, and stops
// every action and timer in the removed subtree.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	n.removeChild(child, true)
}

// DetachChild detaches child without stopping its actions. The actions stay
// paused until the child enters a running tree again.
func (n *Node) DetachChild(child *Node) {
	n.removeChild(child, false)
}

func (n *Node) removeChild(child *Node, cleanup bool) {
	if child == nil || child.Parent != n {
		panic(invalidState("child's parent is not this node"))
	}
	if child.running {
		child.exitTransitionDidStart()
		child.exit()
	}
	if cleanup {
		child.cleanup()
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent with cleanup.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildByTag removes the first child carrying tag. It reports whether a
// child was removed.
func (n *Node) RemoveChildByTag(tag int) bool {
	child := n.ChildByTag(tag)
	if child == nil {
		return false
	}
	n.RemoveChild(child)
	return true
}

// RemoveAllChildren removes every child with cleanup.
func (n *Node) RemoveAllChildren() {
	kids := n.childSnapshot()
	for _, child := range kids {
		if child.running {
			child.exitTransitionDidStart()
			child.exit()
		}
		child.cleanup()
		child.Parent = nil
	}
	clear(n.children)
	n.children = n.children[:0]
	n.childrenSorted = true
}

// Children returns the children in traversal order: ascending z-order, ties
// broken by arrival order. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	n.sortChildren()
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildByTag returns the first child (in traversal order) carrying tag, or nil.
func (n *Node) ChildByTag(tag int) *Node {
	for _, c := range n.Children() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildByName returns the first child (in traversal order) named name, or nil.
func (n *Node) ChildByName(name string) *Node {
	for _, c := range n.Children() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ZOrder returns the node's z-order among its siblings.
func (n *Node) ZOrder() int {
	return n.zOrder
}

// SetZOrder changes the node's z-order. A parented node moves behind siblings
// that already share the new z-order.
func (n *Node) SetZOrder(z int) {
	if n.Parent != nil {
		n.Parent.ReorderChild(n, z)
		return
	}
	n.zOrder = z
}

// ReorderChild changes child's z-order and gives it a fresh arrival order.
func (n *Node) ReorderChild(child *Node, z int) {
	if child.Parent != n {
		panic(invalidState("child's parent is not this node"))
	}
	child.zOrder = z
	child.arrival = nextArrival()
	n.childrenSorted = false
}

// IsRunning reports whether the node is part of the director's running tree.
func (n *Node) IsRunning() bool {
	return n.running
}

// --- Lifecycle ---

// enter attaches the subtree to a running tree: resumes paused actions and
// timers, recurses into children, then fires OnEnter.
func (n *Node) enter(s *Scheduler) {
	if n.running {
		return
	}
	n.scheduler = s
	n.running = true
	if s != nil {
		s.register(n)
	}
	for _, child := range n.childSnapshot() {
		child.enter(s)
	}
	if n.Type == NodeTypeScene && n.transition != nil {
		n.transition.enter(n)
	}
	if n.OnEnter != nil {
		n.OnEnter()
	}
}

// exit fires OnExit, recurses into children, and pauses the subtree.
func (n *Node) exit() {
	if !n.running {
		return
	}
	if n.OnExit != nil {
		n.OnExit()
	}
	if n.Type == NodeTypeScene && n.transition != nil {
		n.transition.exit(n)
	}
	for _, child := range n.childSnapshot() {
		child.exit()
	}
	if n.menu != nil {
		n.menu.reset()
	}
	n.running = false
}

func (n *Node) enterTransitionDidFinish() {
	for _, child := range n.childSnapshot() {
		child.enterTransitionDidFinish()
	}
	if n.OnEnterTransitionDidFinish != nil {
		n.OnEnterTransitionDidFinish()
	}
}

func (n *Node) exitTransitionDidStart() {
	if n.OnExitTransitionDidStart != nil {
		n.OnExitTransitionDidStart()
	}
	for _, child := range n.childSnapshot() {
		child.exitTransitionDidStart()
	}
}

// cleanup stops all actions and timers on the node and its descendants.
func (n *Node) cleanup() {
	n.StopAllActions()
	n.UnscheduleAll()
	for _, child := range n.children {
		child.cleanup()
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, stops its actions, marks it as
// disposed, and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	if n.running {
		n.exit()
	}
	n.cleanup()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.scheduler = nil
	n.Texture = nil
	n.Custom = nil
	n.Callback = nil
	n.UserData = nil
	n.label = nil
	n.menu = nil
	n.transition = nil
	n.OnEnter = nil
	n.OnExit = nil
	n.OnEnterTransitionDidFinish = nil
	n.OnExitTransitionDidStart = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node itself or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func pickDisposedName(a, b *Node) string {
	if a.disposed {
		return a.Name
	}
	return b.Name
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// childSnapshot returns a sorted copy of the children so callers can iterate
// while hooks add or remove nodes.
func (n *Node) childSnapshot() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	n.sortChildren()
	return append([]*Node(nil), n.children...)
}

// sortChildren restores traversal order in place. Uses insertion sort: zero
// allocations, stable, and O(n) for the common nearly sorted case.
func (n *Node) sortChildren() {
	if n.childrenSorted {
		return
	}
	kids := n.children
	for i := 1; i < len(kids); i++ {
		key := kids[i]
		j := i - 1
		for j >= 0 && childLess(key, kids[j]) {
			kids[j+1] = kids[j]
			j--
		}
		kids[j+1] = key
	}
	n.childrenSorted = true
}

func childLess(a, b *Node) bool {
	if a.zOrder != b.zOrder {
		return a.zOrder < b.zOrder
	}
	return a.arrival < b.arrival
}
