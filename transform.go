package bramble

import "math"

// Affine is a 2D affine matrix laid out as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// IdentityAffine is the identity affine matrix.
var IdentityAffine = Affine{1, 0, 0, 1, 0, 0}

// Multiply returns m * child, i.e. child's transform expressed in m's parent space.
func (m Affine) Multiply(child Affine) Affine {
	return multiplyAffine(m, child)
}

// Invert returns the inverse of m, or the identity if m is singular.
func (m Affine) Invert() Affine {
	return invertAffine(m)
}

// Apply transforms the point (x, y) by m.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return transformPoint(m, x, y)
}

// computeLocalTransform computes the node-to-parent matrix from the node's
// transform properties.
//
// Composition order:
//
//	Translate(-anchor*size) -> Scale -> Skew -> Rotate -> Translate(X, Y)
func computeLocalTransform(n *Node) Affine {
	sx := n.ScaleX
	sy := n.ScaleY

	sin, cos := math.Sincos(degToRad(n.Rotation))

	var tanSkewX, tanSkewY float64
	if n.SkewX != 0 {
		tanSkewX = math.Tan(degToRad(n.SkewX))
	}
	if n.SkewY != 0 {
		tanSkewY = math.Tan(degToRad(n.SkewY))
	}

	// After Skew * Scale:
	a := sx
	b := tanSkewY * sx
	c := tanSkewX * sy
	d := sy

	px := n.AnchorX * n.Width
	py := n.AnchorY * n.Height
	preTx := -px*sx - tanSkewX*py*sy
	preTy := -tanSkewY*px*sx - py*sy

	// After Rotate:
	ra := cos*a - sin*b
	rb := sin*a + cos*b
	rc := cos*c - sin*d
	rd := sin*c + cos*d
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	// After Translate(X, Y):
	return Affine{ra, rb, rc, rd, rtx + n.X, rty + n.Y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
func multiplyAffine(p, c Affine) Affine {
	return Affine{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m Affine) Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m Affine, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// --- Transform property setters ---

// SetPosition sets the node's local X and Y.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
}

// Position returns the node's local position.
func (n *Node) Position() Vec2 {
	return Vec2{n.X, n.Y}
}

// SetScale sets ScaleX and ScaleY to the same value.
func (n *Node) SetScale(s float64) {
	n.ScaleX = s
	n.ScaleY = s
}

// SetAnchor sets the anchor point as a fraction of the content size.
func (n *Node) SetAnchor(ax, ay float64) {
	n.AnchorX = ax
	n.AnchorY = ay
}

// SetContentSize sets the node's untransformed size.
func (n *Node) SetContentSize(w, h float64) {
	n.Width = w
	n.Height = h
}

// --- Coordinate conversion ---

// NodeToParentTransform returns the matrix mapping this node's local space
// into its parent's space.
func (n *Node) NodeToParentTransform() Affine {
	return computeLocalTransform(n)
}

// ParentToNodeTransform returns the inverse of NodeToParentTransform.
func (n *Node) ParentToNodeTransform() Affine {
	return invertAffine(computeLocalTransform(n))
}

// NodeToWorldTransform returns the matrix mapping this node's local space into
// world space: the composition of every ancestor's local transform with this
// node's own.
func (n *Node) NodeToWorldTransform() Affine {
	m := computeLocalTransform(n)
	for p := n.Parent; p != nil; p = p.Parent {
		m = multiplyAffine(computeLocalTransform(p), m)
	}
	return m
}

// WorldToNodeTransform returns the inverse of NodeToWorldTransform.
func (n *Node) WorldToNodeTransform() Affine {
	return invertAffine(n.NodeToWorldTransform())
}

// ConvertToWorldSpace converts a point in this node's space to world space.
func (n *Node) ConvertToWorldSpace(p Vec2) Vec2 {
	x, y := transformPoint(n.NodeToWorldTransform(), p.X, p.Y)
	return Vec2{x, y}
}

// ConvertToNodeSpace converts a world-space point into this node's space.
func (n *Node) ConvertToNodeSpace(p Vec2) Vec2 {
	x, y := transformPoint(n.WorldToNodeTransform(), p.X, p.Y)
	return Vec2{x, y}
}

// WorldToLocal converts a world-space point to this node's local coordinate space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return transformPoint(n.WorldToNodeTransform(), wx, wy)
}

// LocalToWorld converts a local-space point to world-space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(n.NodeToWorldTransform(), lx, ly)
}

// BoundingBox returns the node's content rectangle transformed into its
// parent's space, as an axis-aligned rectangle.
func (n *Node) BoundingBox() Rect {
	return transformRect(computeLocalTransform(n), Rect{0, 0, n.Width, n.Height})
}

// transformRect returns the axis-aligned bounds of r after applying m.
func transformRect(m Affine, r Rect) Rect {
	x0, y0 := transformPoint(m, r.X, r.Y)
	x1, y1 := transformPoint(m, r.X+r.Width, r.Y)
	x2, y2 := transformPoint(m, r.X, r.Y+r.Height)
	x3, y3 := transformPoint(m, r.X+r.Width, r.Y+r.Height)
	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))
	return Rect{minX, minY, maxX - minX, maxY - minY}
}
