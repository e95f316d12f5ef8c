package bramble

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// ResolutionPolicy maps a fixed design resolution onto a frame (window) of
// arbitrary size.
type ResolutionPolicy uint8

const (
	ShowAll     ResolutionPolicy = iota // uniform scale, whole design visible, letterboxed
	ExactFit                            // non-uniform scale, design stretched to the frame
	NoBorder                            // uniform scale, frame filled, design cropped
	FixedWidth                          // design width kept, height follows the frame aspect
	FixedHeight                         // design height kept, width follows the frame aspect
)

var policyNames = [...]string{
	ShowAll:     "show_all",
	ExactFit:    "exact_fit",
	NoBorder:    "no_border",
	FixedWidth:  "fixed_width",
	FixedHeight: "fixed_height",
}

func (p ResolutionPolicy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return "unknown"
}

// ParseResolutionPolicy accepts the snake_case policy names, case-insensitively.
func ParseResolutionPolicy(s string) (ResolutionPolicy, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, name := range policyNames {
		if name == norm {
			return ResolutionPolicy(i), nil
		}
	}
	return ShowAll, fmt.Errorf("bramble: unknown resolution policy %q", s)
}

// UnmarshalYAML decodes a policy from its name.
func (p *ResolutionPolicy) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseResolutionPolicy(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalYAML encodes a policy as its name.
func (p ResolutionPolicy) MarshalYAML() (any, error) {
	return p.String(), nil
}

// Viewport is the result of applying a policy to a frame.
type Viewport struct {
	ScaleX, ScaleY float64
	// Rect is where the design area lands in frame pixels. It may extend
	// past the frame for NoBorder.
	Rect Rect
	// Design is the effective design size. It differs from the requested one
	// only for FixedWidth and FixedHeight.
	Design Size
	// VisibleOrigin and VisibleSize give the part of the design area that is
	// on screen, in design coordinates.
	VisibleOrigin Vec2
	VisibleSize   Size
}

// Apply computes the viewport for the given frame and design sizes.
// Degenerate sizes yield an identity mapping.
func (p ResolutionPolicy) Apply(frame, design Size) Viewport {
	if frame.Width <= 0 || frame.Height <= 0 || design.Width <= 0 || design.Height <= 0 {
		return Viewport{
			ScaleX: 1, ScaleY: 1,
			Rect:        Rect{0, 0, design.Width, design.Height},
			Design:      design,
			VisibleSize: design,
		}
	}
	sx := frame.Width / design.Width
	sy := frame.Height / design.Height
	switch p {
	case ExactFit:
	case NoBorder:
		sx = math.Max(sx, sy)
		sy = sx
	case FixedWidth:
		sy = sx
		design.Height = frame.Height / sx
	case FixedHeight:
		sx = sy
		design.Width = frame.Width / sy
	default:
		sx = math.Min(sx, sy)
		sy = sx
	}

	vw := design.Width * sx
	vh := design.Height * sy
	vp := Viewport{
		ScaleX: sx,
		ScaleY: sy,
		Rect:   Rect{(frame.Width - vw) / 2, (frame.Height - vh) / 2, vw, vh},
		Design: design,
	}
	vp.VisibleSize = Size{
		Width:  math.Min(design.Width, frame.Width/sx),
		Height: math.Min(design.Height, frame.Height/sy),
	}
	vp.VisibleOrigin = Vec2{
		X: (design.Width - vp.VisibleSize.Width) / 2,
		Y: (design.Height - vp.VisibleSize.Height) / 2,
	}
	return vp
}

// Transform returns the matrix mapping design coordinates to frame pixels.
func (v Viewport) Transform() Affine {
	return Affine{v.ScaleX, 0, 0, v.ScaleY, v.Rect.X, v.Rect.Y}
}

// FrameToDesign converts a frame pixel position to design coordinates.
func (v Viewport) FrameToDesign(x, y float64) (float64, float64) {
	return (x - v.Rect.X) / v.ScaleX, (y - v.Rect.Y) / v.ScaleY
}
