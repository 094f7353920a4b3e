// Package geom provides the small float geometry shared by the diagram packages.
package geom

import "math"

// Point is a 2D point.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Near reports whether p and q differ by at most eps on both axes.
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Size is a width and height.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// R is shorthand for Rect{X: x, Y: y, Width: w, Height: h}.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the centroid of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// OverlapsX reports whether r and o share any horizontal extent.
func (r Rect) OverlapsX(o Rect) bool {
	return r.Left() < o.Right() && o.Left() < r.Right()
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, Width: r.Width, Height: r.Height}
}
