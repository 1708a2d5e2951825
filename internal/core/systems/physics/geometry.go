package physics

// Rect is an axis-aligned rectangle; (X, Y) is the top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// NewRect is shorthand for a Rect literal.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Intersects reports whether r and o overlap. Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height && r.Y+r.Height > o.Y
}

// Intersection returns the overlap area of r and o. It does not check that the
// rectangles overlap, so the result is negative or zero for separated
// rectangles and can even be positive when they are separated on both axes.
func (r Rect) Intersection(o Rect) float64 {
	sx := max(r.X, o.X)
	ex := min(r.X+r.Width, o.X+o.Width)
	sy := max(r.Y, o.Y)
	ey := min(r.Y+r.Height, o.Y+o.Height)
	return (ex - sx) * (ey - sy)
}

// Within reports whether r lies inside [0, width] x [0, height].
func (r Rect) Within(width, height float64) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.Width <= width && r.Y+r.Height <= height
}

// ShiftInside slides r so that it fits in [0, width] x [0, height] without
// changing its size. A rect larger than the bounds ends up with a negative origin.
func (r Rect) ShiftInside(width, height float64) Rect {
	if r.X < 0 {
		r.X = 0
	}
	if r.X+r.Width > width {
		r.X = width - r.Width
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.Y+r.Height > height {
		r.Y = height - r.Height
	}
	return r
}
