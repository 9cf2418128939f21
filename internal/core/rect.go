// Package core provides the small pure types shared by the simulation and
// the platform layer: input intents, the key latch, the frame clock and the
// screen buffer. It has no external dependencies so it stays testable.
package core

// Rect is an integer rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Clip returns the part of r inside a w x h screen.
func (r Rect) Clip(w, h int) Rect {
	x0, y0 := Clamp(r.X, 0, w), Clamp(r.Y, 0, h)
	x1, y1 := Clamp(r.Right(), 0, w), Clamp(r.Bottom(), 0, h)
	return Rect{X: x0, Y: y0, W: Max(x1-x0, 0), H: Max(y1-y0, 0)}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
