package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/cubefield/internal/geom"
)

// HazardFootprint returns the ground triangle of the fixed tetrahedron at
// the origin, scaled by scale. The apex points towards +z, at the oncoming
// obstacles.
func HazardFootprint(scale float64) geom.Triangle {
	half := math.Sqrt(2.0 / 3.0)
	apex := math.Sqrt(8.0/9.0) + math.Sqrt(2.0/9.0)
	return geom.Triangle{
		A: mgl64.Vec2{-half * scale, 0},
		B: mgl64.Vec2{half * scale, 0},
		C: mgl64.Vec2{0, apex * scale},
	}
}

// Collides reports whether the square footprint at position overlaps
// hazard. The margin marginFactor*speedMagnitude grows every bound so that
// a fast obstacle cannot step over a thin edge between ticks.
//
// Each hazard edge is intersected with the obstacle's front, left and right
// edges; the back edge faces away from the hazard. Full containment either
// way also counts.
func Collides(position mgl64.Vec2, halfExtent float64, hazard geom.Triangle, speedMagnitude, marginFactor float64) bool {
	margin := math.Abs(marginFactor * speedMagnitude)
	if math.IsNaN(margin) || math.IsInf(margin, 0) {
		margin = 0
	}
	sq := geom.Square{Center: position, HalfExtent: halfExtent}

	sides := [3]geom.Segment{sq.Front(), sq.Left(), sq.Right()}
	for _, edge := range hazard.Edges() {
		for _, side := range sides {
			if _, hit := geom.Crossing(edge, side, margin); hit {
				return true
			}
		}
	}

	if hazard.Contains(position) {
		return true
	}
	for _, v := range hazard.Vertices() {
		if sq.Contains(v, margin) {
			return true
		}
	}
	return false
}
