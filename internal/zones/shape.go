package zones

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether p lies within r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

type ShapeKind string

const (
	KindCircle    = ShapeKind("circle")
	KindRectangle = ShapeKind("rectangle")
)

// Shape is a tagged variant: a circle uses Center and Radius, a rectangle
// uses Bounds. A rectangle's Center is its midpoint, where labels go.
type Shape struct {
	Kind   ShapeKind `json:"kind"`
	Center Point     `json:"center"`
	Radius float64   `json:"radius,omitempty"`
	Bounds Rect      `json:"bounds"`
}

func Circle(x, y, radius float64) Shape {
	return Shape{Kind: KindCircle, Center: Point{X: x, Y: y}, Radius: radius}
}

func Rectangle(x, y, w, h float64) Shape {
	return Shape{
		Kind:   KindRectangle,
		Center: Point{X: x + w/2, Y: y + h/2},
		Bounds: Rect{X: x, Y: y, W: w, H: h},
	}
}

// Contains reports whether p is inside the shape, boundary included.
func (s Shape) Contains(p Point) bool {
	switch s.Kind {
	case KindCircle:
		return math.Hypot(p.X-s.Center.X, p.Y-s.Center.Y) <= s.Radius
	case KindRectangle:
		return s.Bounds.Contains(p)
	}
	return false
}

// Box returns the smallest rectangle enclosing the shape.
func (s Shape) Box() Rect {
	if s.Kind == KindCircle {
		return Rect{
			X: s.Center.X - s.Radius,
			Y: s.Center.Y - s.Radius,
			W: s.Radius * 2,
			H: s.Radius * 2,
		}
	}
	return s.Bounds
}

// Scale stretches the shape from reference coordinates. Circles keep their
// shape and scale the radius by the smaller factor.
func (s Shape) Scale(sx, sy float64) Shape {
	switch s.Kind {
	case KindCircle:
		return Circle(s.Center.X*sx, s.Center.Y*sy, s.Radius*math.Min(sx, sy))
	case KindRectangle:
		b := s.Bounds
		return Rectangle(b.X*sx, b.Y*sy, b.W*sx, b.H*sy)
	}
	return s
}

// intersects reports whether two shapes share at least one point.
func intersects(a, b Shape) bool {
	switch {
	case a.Kind == KindCircle && b.Kind == KindCircle:
		return math.Hypot(a.Center.X-b.Center.X, a.Center.Y-b.Center.Y) <= a.Radius+b.Radius
	case a.Kind == KindCircle && b.Kind == KindRectangle:
		return circleRect(a, b.Bounds)
	case a.Kind == KindRectangle && b.Kind == KindCircle:
		return circleRect(b, a.Bounds)
	default:
		ra, rb := a.Box(), b.Box()
		return ra.X <= rb.X+rb.W && rb.X <= ra.X+ra.W && ra.Y <= rb.Y+rb.H && rb.Y <= ra.Y+ra.H
	}
}

func circleRect(c Shape, r Rect) bool {
	nearest := Point{
		X: math.Max(r.X, math.Min(c.Center.X, r.X+r.W)),
		Y: math.Max(r.Y, math.Min(c.Center.Y, r.Y+r.H)),
	}
	return c.Contains(nearest)
}
