package host

import (
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/bramble"
)

// Glyph cell of ebitenutil.DebugPrint.
const (
	debugGlyphW = 6
	debugGlyphH = 16
)

// maxCachedText bounds the text image cache. The cache is flushed when full.
const maxCachedText = 256

// whitePixel is a 1x1 white image scaled to draw solid rectangles.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(color.White)
}

// Texture wraps an *ebiten.Image as a bramble.Texture.
type Texture struct {
	Image *ebiten.Image
}

// NewTexture wraps img. The image is not copied.
func NewTexture(img *ebiten.Image) *Texture {
	return &Texture{Image: img}
}

// Size returns the image size in pixels.
func (t *Texture) Size() (w, h int) {
	if t == nil || t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Canvas draws bramble commands onto an *ebiten.Image.
type Canvas struct {
	target *ebiten.Image
	op     ebiten.DrawImageOptions
	text   map[string]*ebiten.Image
}

// NewCanvas returns a canvas that draws onto target.
func NewCanvas(target *ebiten.Image) *Canvas {
	return &Canvas{target: target, text: make(map[string]*ebiten.Image)}
}

// SetTarget redirects subsequent draws.
func (c *Canvas) SetTarget(target *ebiten.Image) {
	c.target = target
}

// FillRect fills the local rectangle (0, 0, w, h) mapped by m.
func (c *Canvas) FillRect(m bramble.Affine, w, h float64, col bramble.Color) {
	if w <= 0 || h <= 0 || col.A <= 0 {
		return
	}
	c.prepare(m, col)
	c.op.GeoM.Reset()
	c.op.GeoM.Scale(w, h)
	c.op.GeoM.Concat(geoM(m))
	c.target.DrawImage(whitePixel, &c.op)
}

// DrawImage draws tex with its top-left at the local origin.
func (c *Canvas) DrawImage(m bramble.Affine, tex bramble.Texture, col bramble.Color) {
	t, ok := tex.(*Texture)
	if !ok || t.Image == nil || col.A <= 0 {
		return
	}
	c.prepare(m, col)
	c.target.DrawImage(t.Image, &c.op)
}

// DrawText renders text with the debug font, scaled so that it fills the
// label's estimated content box.
func (c *Canvas) DrawText(m bramble.Affine, text string, size float64, col bramble.Color) {
	if text == "" || col.A <= 0 {
		return
	}
	img := c.textImage(text)
	c.prepare(m, col)
	c.op.GeoM.Reset()
	c.op.GeoM.Scale(size*0.5/debugGlyphW, size/debugGlyphH)
	c.op.GeoM.Concat(geoM(m))
	c.target.DrawImage(img, &c.op)
}

func (c *Canvas) prepare(m bramble.Affine, col bramble.Color) {
	c.op.GeoM = geoM(m)
	c.op.ColorScale.Reset()
	// Premultiply at submission time.
	c.op.ColorScale.Scale(
		float32(col.R*col.A), float32(col.G*col.A),
		float32(col.B*col.A), float32(col.A),
	)
	c.op.Filter = ebiten.FilterLinear
}

// textImage returns a cached white rendering of text.
func (c *Canvas) textImage(text string) *ebiten.Image {
	if img, ok := c.text[text]; ok {
		return img
	}
	if len(c.text) >= maxCachedText {
		for k, img := range c.text {
			img.Deallocate()
			delete(c.text, k)
		}
	}
	w := max(utf8.RuneCountInString(text), 1) * debugGlyphW
	img := ebiten.NewImage(w, debugGlyphH)
	ebitenutil.DebugPrint(img, text)
	c.text[text] = img
	return img
}

// geoM converts a bramble affine matrix to an ebiten.GeoM.
func geoM(m bramble.Affine) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}
