package bramble

import (
	"fmt"
	"slices"
	"unicode/utf8"
)

const (
	// zoomActionTag tags the ScaleTo a label item runs while selected.
	zoomActionTag = 0xc0c05
	// selectedZoom is the scale factor of a selected label item.
	selectedZoom = 1.2
	// zoomDuration is the length of the select/unselect zoom.
	zoomDuration = 0.1
	// defaultMenuPadding separates aligned items.
	defaultMenuPadding = 5
	// labelGlyphWidth approximates a glyph's advance as a fraction of the
	// font size when measuring labels without a font.
	labelGlyphWidth = 0.5
)

// disabledLabelColor tints the label of a disabled item.
var disabledLabelColor = Color{0.5, 0.5, 0.5, 1}

// menuTrack is the pointer tracking state of a menu.
type menuTrack uint8

const (
	menuWaiting menuTrack = iota
	menuTracking
)

// menuState is the per-menu dispatch state.
type menuState struct {
	track    menuTrack
	selected *Node
	pointer  int

	// layout repeats the last alignment once the menu is sized to the window.
	layout func()
}

// reset drops any selection, as when the menu leaves the running tree.
func (m *menuState) reset() {
	if m.selected != nil {
		m.selected.unselected()
	}
	m.selected = nil
	m.track = menuWaiting
}

// NewLabel creates a text node. The content size is estimated from the rune
// count and font size; the host renders the actual glyphs.
func NewLabel(text string, size float64) *Node {
	n := &Node{Name: text, Type: NodeTypeLabel, FontSize: size}
	nodeDefaults(n)
	n.AnchorX, n.AnchorY = 0.5, 0.5
	n.SetString(text)
	return n
}

// SetString replaces a label's text and re-measures it.
func (n *Node) SetString(text string) {
	n.Text = text
	n.Width = float64(utf8.RuneCountInString(text)) * n.FontSize * labelGlyphWidth
	n.Height = n.FontSize
	if n.Parent != nil && n.Parent.Type == NodeTypeMenuItem && n.Parent.label == n {
		n.Parent.fitLabel()
	}
}

// NewMenuItem creates an item with no visual of its own. callback receives
// the item when it is activated.
func NewMenuItem(callback func(item *Node)) *Node {
	n := &Node{Name: "menu_item", Type: NodeTypeMenuItem, Callback: callback}
	nodeDefaults(n)
	n.AnchorX, n.AnchorY = 0.5, 0.5
	n.zoom = 1
	return n
}

// NewMenuItemLabel creates an item that displays label and zooms it while
// selected.
func NewMenuItemLabel(label *Node, callback func(item *Node)) *Node {
	if label == nil {
		panic(invalidState("menu item label is nil"))
	}
	n := NewMenuItem(callback)
	n.Name = label.Name
	n.label = label
	n.AddChild(label)
	n.fitLabel()
	return n
}

// NewMenuItemFont creates a label item showing text at the given font size.
func NewMenuItemFont(text string, size float64, callback func(item *Node)) *Node {
	return NewMenuItemLabel(NewLabel(text, size), callback)
}

// Label returns the label of a label item, or nil.
func (n *Node) Label() *Node {
	return n.label
}

// fitLabel sizes the item to its label and centers the label inside it.
func (n *Node) fitLabel() {
	l := n.label
	n.Width, n.Height = l.Width*l.ScaleX, l.Height*l.ScaleY
	l.X, l.Y = n.Width/2, n.Height/2
}

// SetEnabled enables or disables a menu item or a whole menu. A disabled item
// ignores pointer input and Activate.
func (n *Node) SetEnabled(enabled bool) {
	if n.enabled == enabled {
		return
	}
	n.enabled = enabled
	if n.Type == NodeTypeMenuItem && n.label != nil {
		if enabled {
			n.label.Color = ColorWhite
		} else {
			n.label.Color = disabledLabelColor
		}
	}
	if !enabled && n.selected {
		n.unselected()
	}
}

// IsEnabled reports whether the item or menu accepts input.
func (n *Node) IsEnabled() bool {
	return n.enabled
}

// IsSelected reports whether the item is highlighted under a pointer.
func (n *Node) IsSelected() bool {
	return n.selected
}

// Activate fires the item's callback if it is enabled.
func (n *Node) Activate() {
	if n.Type != NodeTypeMenuItem || !n.enabled {
		return
	}
	if n.label != nil {
		n.StopActionByTag(zoomActionTag)
		n.SetScale(n.zoom)
	}
	if n.Callback != nil {
		n.Callback(n)
	}
}

func (n *Node) selectedItem() {
	if n.selected {
		return
	}
	n.selected = true
	if n.label == nil {
		return
	}
	if n.ActionByTag(zoomActionTag) == nil {
		n.zoom = n.ScaleX
	} else {
		n.StopActionByTag(zoomActionTag)
	}
	a := ScaleTo(zoomDuration, n.zoom*selectedZoom, n.zoom*selectedZoom)
	a.Tag = zoomActionTag
	n.RunAction(a)
}

func (n *Node) unselected() {
	if !n.selected {
		return
	}
	n.selected = false
	if n.label == nil {
		return
	}
	n.StopActionByTag(zoomActionTag)
	a := ScaleTo(zoomDuration, n.zoom, n.zoom)
	a.Tag = zoomActionTag
	n.RunAction(a)
}

// NewMenu creates a menu holding items. Items are positioned relative to the
// menu's origin; the menu itself fills the window.
func NewMenu(items ...*Node) *Node {
	n := &Node{Name: "menu", Type: NodeTypeMenu, menu: &menuState{}}
	nodeDefaults(n)
	for i, item := range items {
		n.AddItem(item, i)
	}
	return n
}

// AddItem appends a menu item with the given z-order.
func (n *Node) AddItem(item *Node, z int) {
	if n.Type != NodeTypeMenu {
		panic(invalidState("AddItem on %s node %q", n.Type, n.Name))
	}
	if item == nil || item.Type != NodeTypeMenuItem {
		panic(invalidState("menu %q only accepts menu items", n.Name))
	}
	n.AddChildZ(item, z)
}

// SelectedItem returns the item currently highlighted by a pointer, or nil.
func (n *Node) SelectedItem() *Node {
	if n.menu == nil {
		return nil
	}
	return n.menu.selected
}

// AlignItemsVertically stacks the items top to bottom, centered on the
// middle of the menu. A menu aligned before it has a size is aligned again
// when the director sizes it to the window.
func (n *Node) AlignItemsVertically() {
	n.AlignItemsVerticallyWithPadding(defaultMenuPadding)
}

// AlignItemsVerticallyWithPadding stacks the items with padding between them.
func (n *Node) AlignItemsVerticallyWithPadding(padding float64) {
	n.setMenuLayout(func() { n.alignVertically(padding) })
}

func (n *Node) alignVertically(padding float64) {
	kids := n.Children()
	if len(kids) == 0 {
		return
	}
	height := -padding
	for _, c := range kids {
		height += c.Height*c.ScaleY + padding
	}
	y := n.Height/2 - height/2
	for _, c := range kids {
		h := c.Height * c.ScaleY
		c.SetPosition(n.Width/2, y+h/2)
		y += h + padding
	}
}

// AlignItemsHorizontally lines the items up left to right, centered on the
// middle of the menu.
func (n *Node) AlignItemsHorizontally() {
	n.AlignItemsHorizontallyWithPadding(defaultMenuPadding)
}

// AlignItemsHorizontallyWithPadding lines the items up with padding between them.
func (n *Node) AlignItemsHorizontallyWithPadding(padding float64) {
	n.setMenuLayout(func() { n.alignHorizontally(padding) })
}

func (n *Node) alignHorizontally(padding float64) {
	kids := n.Children()
	if len(kids) == 0 {
		return
	}
	width := -padding
	for _, c := range kids {
		width += c.Width*c.ScaleX + padding
	}
	x := n.Width/2 - width/2
	for _, c := range kids {
		w := c.Width * c.ScaleX
		c.SetPosition(x+w/2, n.Height/2)
		x += w + padding
	}
}

// AlignItemsInColumns arranges the items in rows; columns[i] is the number of
// items in row i. Each row spreads its items evenly across the menu width and
// the rows are centered on the middle of the menu. Returns an error if the
// counts do not add up to the number of items.
func (n *Node) AlignItemsInColumns(columns ...int) error {
	kids := n.Children()
	total := 0
	for _, c := range columns {
		if c <= 0 {
			return fmt.Errorf("bramble: column count %d must be positive", c)
		}
		total += c
	}
	if total != len(kids) {
		return fmt.Errorf("bramble: columns hold %d items, menu %q has %d", total, n.Name, len(kids))
	}
	columns = slices.Clone(columns)
	n.setMenuLayout(func() { n.alignColumns(columns) })
	return nil
}

func (n *Node) alignColumns(columns []int) {
	kids := n.Children()
	if total := sum(columns); total != len(kids) {
		return
	}
	rowHeights := make([]float64, len(columns))
	height := -float64(defaultMenuPadding)
	k := 0
	for row, cols := range columns {
		for i := 0; i < cols; i++ {
			rowHeights[row] = max(rowHeights[row], kids[k].Height*kids[k].ScaleY)
			k++
		}
		height += rowHeights[row] + defaultMenuPadding
	}

	y := n.Height/2 - height/2
	k = 0
	for row, cols := range columns {
		step := n.Width / float64(cols+1)
		x := step
		for i := 0; i < cols; i++ {
			kids[k].SetPosition(x, y+rowHeights[row]/2)
			x += step
			k++
		}
		y += rowHeights[row] + defaultMenuPadding
	}
}

// setMenuLayout applies layout now and remembers it for relayoutMenu.
func (n *Node) setMenuLayout(layout func()) {
	if n.menu != nil {
		n.menu.layout = layout
	}
	layout()
}

// relayoutMenu repeats the last alignment, for a menu that was just sized.
func (n *Node) relayoutMenu() {
	if n.menu != nil && n.menu.layout != nil {
		n.menu.layout()
	}
}

func sum(v []int) int {
	t := 0
	for _, x := range v {
		t += x
	}
	return t
}

// itemAt returns the topmost enabled, visible item under the world point.
func (n *Node) itemAt(x, y float64) *Node {
	kids := n.Children()
	for i := len(kids) - 1; i >= 0; i-- {
		item := kids[i]
		if item.Type != NodeTypeMenuItem || !item.Visible || !item.enabled {
			continue
		}
		lx, ly := item.WorldToLocal(x, y)
		if (Rect{0, 0, item.Width, item.Height}).Contains(lx, ly) {
			return item
		}
	}
	return nil
}
