// Package core provides the terminal-side building blocks of the lander:
// the cell screen, world-to-screen projection and input actions.
// It has no Bubble Tea dependency so drawing code stays testable.
package core

import "math"

// Rect is an axis-aligned area of screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks the rectangle by n cells on every side.
func (r Rect) Inset(n int) Rect {
	r.X += n
	r.Y += n
	r.W = max(0, r.W-2*n)
	r.H = max(0, r.H-2*n)
	return r
}

// Viewport projects world coordinates (y up) onto a screen area (y down).
type Viewport struct {
	WorldW, WorldH float64
	Area           Rect
}

// ToCell returns the screen cell containing the world point (x, y).
// Points outside the world map to cells outside Area.
func (v Viewport) ToCell(x, y float64) (int, int) {
	if v.WorldW <= 0 || v.WorldH <= 0 {
		return v.Area.X, v.Area.Y
	}
	cx := int(math.Floor(x / v.WorldW * float64(v.Area.W)))
	cy := int(math.Floor((v.WorldH - y) / v.WorldH * float64(v.Area.H)))
	// The world's top and right edges belong to the last cell
	if x == v.WorldW {
		cx = v.Area.W - 1
	}
	if y == 0 {
		cy = v.Area.H - 1
	}
	return v.Area.X + cx, v.Area.Y + cy
}

// ColumnX returns the world x at the center of screen column col.
func (v Viewport) ColumnX(col int) float64 {
	if v.Area.W <= 0 {
		return 0
	}
	return (float64(col-v.Area.X) + 0.5) / float64(v.Area.W) * v.WorldW
}

// RowY returns the world y at the bottom edge of screen row row.
func (v Viewport) RowY(row int) float64 {
	if v.Area.H <= 0 {
		return 0
	}
	return v.WorldH - float64(row-v.Area.Y+1)/float64(v.Area.H)*v.WorldH
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
