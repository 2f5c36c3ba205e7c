// Package geom holds the pixel-coordinate value types shared by the
// interaction state machine, the compositor and the writer.
package geom

import "fmt"

// Point is an integer pixel coordinate.
type Point struct {
	X int
	Y int
}

// Rect is an axis-aligned rectangle in image pixel coordinates.
// Width and height are never negative for a committed rectangle.
type Rect struct {
	X int
	Y int
	W int
	H int
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// RectFromPoints builds the rectangle spanned by a drag anchor and the
// current cursor: top-left at the component-wise minimum, extent at the
// component-wise absolute difference.
func RectFromPoints(anchor, cursor Point) Rect {
	return Rect{
		X: min(anchor.X, cursor.X),
		Y: min(anchor.Y, cursor.Y),
		W: abs(cursor.X - anchor.X),
		H: abs(cursor.Y - anchor.Y),
	}
}

// Contains reports whether p lies inside r, right and bottom edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// ClampPoint limits p to the closed bounds of r.
func (r Rect) ClampPoint(p Point) Point {
	return Point{
		X: clamp(p.X, r.X, r.X+r.W),
		Y: clamp(p.Y, r.Y, r.Y+r.H),
	}
}

// ContainsRect reports whether inner lies fully inside r.
func (r Rect) ContainsRect(inner Rect) bool {
	return inner.X >= r.X && inner.Y >= r.Y &&
		inner.X+inner.W <= r.X+r.W && inner.Y+inner.H <= r.Y+r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
