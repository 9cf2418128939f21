// Package render draws simulation snapshots into a core.Screen.
// It projects the ground-plane world through a fixed pinhole camera sitting
// just above and behind the hazard.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultEye is the camera position in world space (x, y, z).
var DefaultEye = mgl64.Vec3{0, 0.25, -0.75}

const (
	defaultFocal = 2.4  // 1 / tan(fov/2), roughly a 45 degree vertical fov
	cellAspect   = 2.0  // terminal cells are about twice as tall as wide
	nearPlane    = 0.05 // points closer than this to the eye are dropped
)

// Projector maps world points to fractional screen cells.
// World +x is drawn on the left of the screen, as seen from the eye looking
// down +z.
type Projector struct {
	Eye   mgl64.Vec3
	Focal float64
	Roll  float64 // radians, positive rolls the picture counter-clockwise

	width  int
	height int
}

// NewProjector creates a projector for a w x h screen.
func NewProjector(w, h int) *Projector {
	return &Projector{
		Eye:    DefaultEye,
		Focal:  defaultFocal,
		width:  w,
		height: h,
	}
}

// Resize changes the target screen size.
func (p *Projector) Resize(w, h int) {
	p.width, p.height = w, h
}

// Project returns the screen position of a world point and its depth from
// the eye. ok is false for points at or behind the near plane.
func (p *Projector) Project(world mgl64.Vec3) (screen mgl64.Vec2, depth float64, ok bool) {
	rel := world.Sub(p.Eye)
	depth = rel.Z()
	if depth <= nearPlane {
		return mgl64.Vec2{}, depth, false
	}

	// Normalised image plane, y up
	img := mgl64.Vec2{-rel.X() / depth * p.Focal, rel.Y() / depth * p.Focal}
	if p.Roll != 0 {
		img = mgl64.Rotate2D(p.Roll).Mul2x1(img)
	}

	half := float64(p.height) / 2
	screen = mgl64.Vec2{
		float64(p.width)/2 + img.X()*half*cellAspect,
		half - img.Y()*half,
	}
	if math.IsNaN(screen.X()) || math.IsNaN(screen.Y()) {
		return mgl64.Vec2{}, depth, false
	}
	return screen, depth, true
}

// Horizon returns the screen row of the ground plane at infinity when
// there is no roll.
func (p *Projector) Horizon() int {
	return p.height / 2
}
