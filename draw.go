package bramble

// Texture is an opaque, pre-decoded image handle supplied by the host.
type Texture interface {
	Size() (w, h int)
}

// Canvas receives the draw calls of one frame. Matrices map the primitive's
// local space (origin top-left, size in local units) to frame pixels. Colors
// are not premultiplied; A already includes inherited opacity.
type Canvas interface {
	FillRect(m Affine, w, h float64, c Color)
	DrawImage(m Affine, tex Texture, c Color)
	DrawText(m Affine, text string, size float64, c Color)
}

// Drawable is an extra visual attached to any node through Node.Custom. It is
// drawn after the node's built-in visual and before its non-negative children.
type Drawable interface {
	Draw(c Canvas, world Affine, opacity float64)
}

// CommandType identifies the kind of draw command.
type CommandType uint8

const (
	CommandRect   CommandType = iota // FillRect
	CommandImage                     // DrawImage
	CommandText                      // DrawText
	CommandCustom                    // Drawable.Draw
)

// DrawCommand is a single draw instruction emitted during tree traversal.
type DrawCommand struct {
	Type      CommandType
	Transform Affine
	Color     Color
	Width     float64 // CommandRect
	Height    float64 // CommandRect
	Texture   Texture // CommandImage
	Text      string  // CommandText
	FontSize  float64 // CommandText
	Node      *Node

	custom  Drawable
	opacity float64
}

const defaultCommandCap = 256

// renderer collects draw commands for a frame. The buffer is reused across
// frames.
type renderer struct {
	commands []DrawCommand
}

func newRenderer() *renderer {
	return &renderer{commands: make([]DrawCommand, 0, defaultCommandCap)}
}

func (r *renderer) reset() {
	clear(r.commands)
	r.commands = r.commands[:0]
}

// traverse walks the tree depth-first in draw order: children with negative
// z-order, then the node itself, then the remaining children.
func (r *renderer) traverse(n *Node, parent Affine, parentOpacity float64) {
	if !n.Visible {
		return
	}
	world := multiplyAffine(parent, computeLocalTransform(n))
	opacity := parentOpacity * n.Opacity

	if n.transition != nil && n.transition.active() {
		n.transition.traverse(r, n, world, opacity)
		return
	}

	kids := n.Children()
	i := 0
	for ; i < len(kids) && kids[i].zOrder < 0; i++ {
		r.traverse(kids[i], world, opacity)
	}
	r.emit(n, world, opacity)
	for ; i < len(kids); i++ {
		r.traverse(kids[i], world, opacity)
	}
}

func (r *renderer) emit(n *Node, world Affine, opacity float64) {
	c := Color{n.Color.R, n.Color.G, n.Color.B, n.Color.A * opacity}
	switch n.Type {
	case NodeTypeColorLayer:
		r.commands = append(r.commands, DrawCommand{
			Type: CommandRect, Transform: world, Color: c,
			Width: n.Width, Height: n.Height, Node: n,
		})
	case NodeTypeSprite:
		if n.Texture != nil {
			r.commands = append(r.commands, DrawCommand{
				Type: CommandImage, Transform: world, Color: c,
				Texture: n.Texture, Node: n,
			})
		}
	case NodeTypeLabel:
		if n.Text != "" {
			r.commands = append(r.commands, DrawCommand{
				Type: CommandText, Transform: world, Color: c,
				Text: n.Text, FontSize: n.FontSize, Node: n,
			})
		}
	}
	if n.Custom != nil {
		r.commands = append(r.commands, DrawCommand{
			Type: CommandCustom, Transform: world, Color: c, Node: n,
			custom: n.Custom, opacity: opacity,
		})
	}
}

// overlay appends a full-area rectangle, used by transitions.
func (r *renderer) overlay(world Affine, w, h float64, c Color) {
	r.commands = append(r.commands, DrawCommand{Type: CommandRect, Transform: world, Color: c, Width: w, Height: h})
}

// submit replays the collected commands onto c.
func (r *renderer) submit(c Canvas) {
	for i := range r.commands {
		cmd := &r.commands[i]
		switch cmd.Type {
		case CommandRect:
			c.FillRect(cmd.Transform, cmd.Width, cmd.Height, cmd.Color)
		case CommandImage:
			c.DrawImage(cmd.Transform, cmd.Texture, cmd.Color)
		case CommandText:
			c.DrawText(cmd.Transform, cmd.Text, cmd.FontSize, cmd.Color)
		case CommandCustom:
			cmd.custom.Draw(c, cmd.Transform, cmd.opacity)
		}
	}
}
