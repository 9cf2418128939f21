// Package geom provides the ground-plane geometry used by collision detection.
// Points are mgl64.Vec2 values holding (x, z): x is lateral, z is depth away
// from the viewpoint. The package has no game knowledge.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelEpsilon is the determinant magnitude below which two lines are
// treated as parallel.
const parallelEpsilon = 1e-12

// Line is an infinite line in the form A*x + B*z = C.
type Line struct {
	A, B, C float64
}

// LineThrough returns the line passing through p and q.
// If p == q the result is degenerate (A == B == 0) and intersects nothing.
func LineThrough(p, q mgl64.Vec2) Line {
	a := q.Y() - p.Y()
	b := p.X() - q.X()
	return Line{A: a, B: b, C: a*p.X() + b*p.Y()}
}

// Intersect returns the point where two lines cross.
// Parallel, coincident and degenerate lines report ok == false.
func Intersect(l1, l2 Line) (p mgl64.Vec2, ok bool) {
	det := l1.A*l2.B - l2.A*l1.B
	if math.Abs(det) < parallelEpsilon {
		return mgl64.Vec2{}, false
	}
	x := (l2.B*l1.C - l1.B*l2.C) / det
	z := (l1.A*l2.C - l2.A*l1.C) / det
	if math.IsNaN(x) || math.IsNaN(z) || math.IsInf(x, 0) || math.IsInf(z, 0) {
		return mgl64.Vec2{}, false
	}
	return mgl64.Vec2{x, z}, true
}

// Segment is a finite line segment between two points.
type Segment struct {
	P, Q mgl64.Vec2
}

// Line returns the infinite line carrying the segment.
func (s Segment) Line() Line {
	return LineThrough(s.P, s.Q)
}

// Bounds returns the axis-aligned bounds of the segment as (min, max).
func (s Segment) Bounds() (lo, hi mgl64.Vec2) {
	lo = mgl64.Vec2{math.Min(s.P.X(), s.Q.X()), math.Min(s.P.Y(), s.Q.Y())}
	hi = mgl64.Vec2{math.Max(s.P.X(), s.Q.X()), math.Max(s.P.Y(), s.Q.Y())}
	return lo, hi
}

// WithinBounds reports whether p lies inside the segment's bounding box
// grown by margin on every side. For a point already known to be on the
// segment's line this is the on-segment test.
func (s Segment) WithinBounds(p mgl64.Vec2, margin float64) bool {
	lo, hi := s.Bounds()
	return p.X() >= lo.X()-margin && p.X() <= hi.X()+margin &&
		p.Y() >= lo.Y()-margin && p.Y() <= hi.Y()+margin
}

// Crossing returns the intersection of two segments' lines when it lies
// within both segments' bounds grown by margin.
func Crossing(s1, s2 Segment, margin float64) (mgl64.Vec2, bool) {
	p, ok := Intersect(s1.Line(), s2.Line())
	if !ok {
		return mgl64.Vec2{}, false
	}
	if !s1.WithinBounds(p, margin) || !s2.WithinBounds(p, margin) {
		return mgl64.Vec2{}, false
	}
	return p, true
}

// Triangle is a triangle given by its three vertices.
type Triangle struct {
	A, B, C mgl64.Vec2
}

// Edges returns the three sides AB, BC and CA.
func (t Triangle) Edges() [3]Segment {
	return [3]Segment{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}}
}

// Vertices returns A, B and C.
func (t Triangle) Vertices() [3]mgl64.Vec2 {
	return [3]mgl64.Vec2{t.A, t.B, t.C}
}

// Centroid returns the mean of the three vertices.
func (t Triangle) Centroid() mgl64.Vec2 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

// Contains reports whether p lies inside the triangle or on its boundary.
func (t Triangle) Contains(p mgl64.Vec2) bool {
	d1 := cross(t.A, t.B, p)
	d2 := cross(t.B, t.C, p)
	d3 := cross(t.C, t.A, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// cross is the z component of (b-a) x (p-a).
func cross(a, b, p mgl64.Vec2) float64 {
	return (b.X()-a.X())*(p.Y()-a.Y()) - (b.Y()-a.Y())*(p.X()-a.X())
}

// Square is an axis-aligned square footprint.
type Square struct {
	Center     mgl64.Vec2
	HalfExtent float64
}

// Front returns the edge nearest the viewpoint (lowest z).
func (s Square) Front() Segment {
	z := s.Center.Y() - s.HalfExtent
	return Segment{
		P: mgl64.Vec2{s.Center.X() - s.HalfExtent, z},
		Q: mgl64.Vec2{s.Center.X() + s.HalfExtent, z},
	}
}

// Back returns the edge farthest from the viewpoint (highest z).
func (s Square) Back() Segment {
	z := s.Center.Y() + s.HalfExtent
	return Segment{
		P: mgl64.Vec2{s.Center.X() - s.HalfExtent, z},
		Q: mgl64.Vec2{s.Center.X() + s.HalfExtent, z},
	}
}

// Left returns the edge at the lowest x.
func (s Square) Left() Segment {
	x := s.Center.X() - s.HalfExtent
	return Segment{
		P: mgl64.Vec2{x, s.Center.Y() - s.HalfExtent},
		Q: mgl64.Vec2{x, s.Center.Y() + s.HalfExtent},
	}
}

// Right returns the edge at the highest x.
func (s Square) Right() Segment {
	x := s.Center.X() + s.HalfExtent
	return Segment{
		P: mgl64.Vec2{x, s.Center.Y() - s.HalfExtent},
		Q: mgl64.Vec2{x, s.Center.Y() + s.HalfExtent},
	}
}

// Contains reports whether p lies inside the square grown by margin.
func (s Square) Contains(p mgl64.Vec2, margin float64) bool {
	h := s.HalfExtent + margin
	return math.Abs(p.X()-s.Center.X()) <= h && math.Abs(p.Y()-s.Center.Y()) <= h
}
