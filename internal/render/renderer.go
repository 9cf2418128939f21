package render

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/cubefield/internal/core"
	"github.com/vovakirdan/cubefield/internal/sim"
)

// Visual characters for rendering
const (
	CubeChar    = '█'
	CubeFarChar = '▓'
	HazardChar  = '▲'
	GroundChar  = '·'
	HorizonChar = '─'
)

// Depth beyond which cubes use the far shade.
const farDepth = 2.5

// Renderer draws snapshots of the field.
type Renderer struct {
	proj        *Projector
	tetraHeight float64
	cubes       []projectedCube
}

type projectedCube struct {
	box   core.Rect
	depth float64
}

// New creates a renderer for a w x h screen. tetraScale sizes the hazard's
// apex height.
func New(w, h int, tetraScale float64) *Renderer {
	return &Renderer{
		proj:        NewProjector(w, h),
		tetraHeight: tetraScale * math.Sqrt(16.0/9.0),
	}
}

// Projector exposes the camera for tests and debug output.
func (r *Renderer) Projector() *Projector {
	return r.proj
}

// Draw clears dst and paints the scene and HUD for snap.
func (r *Renderer) Draw(dst *core.Screen, snap sim.Snapshot) {
	dst.Clear()
	r.proj.Resize(dst.Width(), dst.Height())
	r.proj.Roll = snap.Tilt

	r.drawGround(dst)
	r.drawCubes(dst, snap)
	r.drawHazard(dst, snap)
	r.drawHUD(dst, snap)

	if !snap.Status.Alive {
		DrawMessage(dst, "GAME OVER", fmt.Sprintf("Score: %.0f  |  Press R to restart", snap.Status.Score))
	}
}

func (r *Renderer) drawGround(dst *core.Screen) {
	// Horizon and a few depth markers on the ground
	if r.proj.Roll == 0 {
		dst.DrawHLine(0, r.proj.Horizon(), dst.Width(), HorizonChar, core.ColorDarkGray)
	}
	for _, z := range []float64{0.5, 1, 2, 4} {
		for _, x := range []float64{-2, -1, -0.5, 0.5, 1, 2} {
			if p, _, ok := r.proj.Project(mgl64.Vec3{x, 0, z}); ok {
				dst.SetCell(int(p.X()), int(p.Y()), GroundChar, core.ColorDarkGray)
			}
		}
	}
}

// drawCubes paints every obstacle as the screen bounding box of its eight
// corners, farthest first.
func (r *Renderer) drawCubes(dst *core.Screen, snap sim.Snapshot) {
	r.cubes = r.cubes[:0]
	for v := range snap.Obstacles {
		if pc, ok := r.projectCube(v); ok {
			r.cubes = append(r.cubes, pc)
		}
	}
	slices.SortFunc(r.cubes, func(a, b projectedCube) int {
		return cmp.Compare(b.depth, a.depth)
	})

	for _, c := range r.cubes {
		ch, color := CubeChar, core.ColorBrightGreen
		if c.depth > farDepth {
			ch, color = CubeFarChar, core.ColorGreen
		}
		dst.DrawRect(c.box.Clip(dst.Width(), dst.Height()), ch, color)
	}
}

func (r *Renderer) projectCube(v sim.ObstacleView) (projectedCube, bool) {
	h := v.HalfExtent
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	depth := 0.0

	for _, dx := range []float64{-h, h} {
		for _, dz := range []float64{-h, h} {
			for _, y := range []float64{0, 2 * h} {
				p, d, ok := r.proj.Project(mgl64.Vec3{v.Position.X() + dx, y, v.Position.Y() + dz})
				if !ok {
					return projectedCube{}, false
				}
				minX, maxX = math.Min(minX, p.X()), math.Max(maxX, p.X())
				minY, maxY = math.Min(minY, p.Y()), math.Max(maxY, p.Y())
				depth = math.Max(depth, d)
			}
		}
	}

	x0, y0 := int(math.Floor(minX)), int(math.Floor(minY))
	x1, y1 := int(math.Ceil(maxX)), int(math.Ceil(maxY))
	box := core.NewRect(x0, y0, core.Max(x1-x0, 1), core.Max(y1-y0, 1))
	return projectedCube{box: box, depth: depth}, true
}

// drawHazard fills the silhouette of the tetrahedron: both base corners and
// the apex raised above the footprint's centroid.
func (r *Renderer) drawHazard(dst *core.Screen, snap sim.Snapshot) {
	c := snap.Hazard.Centroid()
	corners := []mgl64.Vec3{
		{snap.Hazard.A.X(), 0, snap.Hazard.A.Y()},
		{snap.Hazard.B.X(), 0, snap.Hazard.B.Y()},
		{c.X(), r.tetraHeight, c.Y()},
	}

	var pts [3]mgl64.Vec2
	for i, w := range corners {
		p, _, ok := r.proj.Project(w)
		if !ok {
			return
		}
		pts[i] = p
	}
	color := core.ColorYellow
	if !snap.Status.Alive {
		color = core.ColorRed
	}
	fillTriangle(dst, pts, HazardChar, color)
}

// fillTriangle sets every cell whose centre lies inside the triangle.
func fillTriangle(dst *core.Screen, pts [3]mgl64.Vec2, ch rune, color core.Color) {
	minX := math.Min(pts[0].X(), math.Min(pts[1].X(), pts[2].X()))
	maxX := math.Max(pts[0].X(), math.Max(pts[1].X(), pts[2].X()))
	minY := math.Min(pts[0].Y(), math.Min(pts[1].Y(), pts[2].Y()))
	maxY := math.Max(pts[0].Y(), math.Max(pts[1].Y(), pts[2].Y()))

	area := edge(pts[0], pts[1], pts[2])
	if area == 0 {
		return
	}
	x0 := core.Max(int(math.Floor(minX)), 0)
	x1 := core.Min(int(math.Ceil(maxX)), dst.Width()-1)
	y0 := core.Max(int(math.Floor(minY)), 0)
	y1 := core.Min(int(math.Ceil(maxY)), dst.Height()-1)

	drawn := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			p := mgl64.Vec2{float64(x) + 0.5, float64(y) + 0.5}
			w0 := edge(pts[1], pts[2], p) / area
			w1 := edge(pts[2], pts[0], p) / area
			w2 := edge(pts[0], pts[1], p) / area
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				dst.SetCell(x, y, ch, color)
				drawn = true
			}
		}
	}
	// Always show at least the apex when the shape is thinner than a cell
	if !drawn {
		dst.SetCell(int(pts[2].X()), int(pts[2].Y()), ch, color)
	}
}

func edge(a, b, p mgl64.Vec2) float64 {
	return (b.X()-a.X())*(p.Y()-a.Y()) - (b.Y()-a.Y())*(p.X()-a.X())
}

func (r *Renderer) drawHUD(dst *core.Screen, snap sim.Snapshot) {
	left := fmt.Sprintf(" Score: %.0f  High: %.0f ", snap.Status.Score, snap.Status.HighScore)
	dst.DrawTextColor(1, 0, left, core.ColorBrightWhite)

	right := fmt.Sprintf(" %s  speed %.1f ", snap.Difficulty.Title(), math.Abs(snap.Speed)*1000)
	dst.DrawTextColor(dst.Width()-len([]rune(right))-1, 0, right, core.ColorCyan)
}

// DrawMessage draws a boxed two-line message in the middle of the screen.
func DrawMessage(dst *core.Screen, title, subtitle string) {
	w := core.Max(len([]rune(title)), len([]rune(subtitle))) + 4
	h := 4
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box)
	dst.DrawTextColor(box.X+(w-len([]rune(title)))/2, box.Y+1, title, core.ColorBrightWhite)
	dst.DrawTextColor(box.X+(w-len([]rune(subtitle)))/2, box.Y+2, subtitle, core.ColorWhite)
}
