package sim

import (
	"iter"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// ObstacleID identifies an obstacle while it is alive.
// IDs are never reused within one Registry.
type ObstacleID uint64

// Obstacle is a cube resting on the ground plane.
// Velocity is captured when the obstacle spawns and is not updated when the
// scroll speed ramps, so older obstacles keep their spawn-time speed.
type Obstacle struct {
	ID       ObstacleID
	Position mgl64.Vec2 // (x, z)
	Velocity mgl64.Vec2 // (dx, dz) per millisecond
}

// ObstacleView is the read-only part of an obstacle the renderer needs.
type ObstacleView struct {
	ID         ObstacleID
	Position   mgl64.Vec2
	HalfExtent float64
}

// Registry owns the live obstacles: spawning rows, moving, culling.
type Registry struct {
	obstacles  []Obstacle
	nextID     ObstacleID
	rng        *rand.Rand
	halfExtent float64
	laneSpan   float64
	cullZ      float64
}

// NewRegistry creates an empty registry.
// Lanes span laneSpan world units centred on x = 0; obstacles whose z drops
// below cullZ are removed.
func NewRegistry(seed int64, halfExtent, laneSpan, cullZ float64) *Registry {
	return &Registry{
		obstacles:  make([]Obstacle, 0, 64),
		nextID:     1,
		rng:        rand.New(rand.NewSource(seed)),
		halfExtent: halfExtent,
		laneSpan:   laneSpan,
		cullZ:      cullZ,
	}
}

// Reseed replaces the RNG so the following rows replay deterministically.
func (r *Registry) Reseed(seed int64) {
	r.rng = rand.New(rand.NewSource(seed))
}

// HalfExtent returns the footprint half size shared by all obstacles.
func (r *Registry) HalfExtent() float64 {
	return r.halfExtent
}

// CullZ returns the depth below which obstacles are removed.
func (r *Registry) CullZ() float64 {
	return r.cullZ
}

// LaneX returns the lateral centre of lane i out of laneCount.
func (r *Registry) LaneX(i, laneCount int) float64 {
	w := r.laneSpan / float64(laneCount)
	return -r.laneSpan/2 + (float64(i)+0.5)*w
}

// SpawnRow runs one independent trial per lane and places an obstacle at
// depth distance for each success. Every new obstacle moves at scrollSpeed
// in z and drifts laterally by a random share of jitter. Returns the number
// of obstacles spawned; an empty row is valid.
func (r *Registry) SpawnRow(laneCount int, probability, distance, jitter, scrollSpeed float64) int {
	spawned := 0
	for i := 0; i < laneCount; i++ {
		if r.rng.Float64() >= probability {
			continue
		}
		dx := (r.rng.Float64() - 0.5) * jitter
		r.Place(mgl64.Vec2{r.LaneX(i, laneCount), distance}, mgl64.Vec2{dx, scrollSpeed})
		spawned++
	}
	return spawned
}

// Place adds a single obstacle and returns its id.
func (r *Registry) Place(position, velocity mgl64.Vec2) ObstacleID {
	id := r.nextID
	r.nextID++
	r.obstacles = append(r.obstacles, Obstacle{ID: id, Position: position, Velocity: velocity})
	return id
}

// AdvanceAndCull moves every obstacle by (dx+drift, dz)*dt and removes the
// ones that passed cullZ. Returns the number removed.
func (r *Registry) AdvanceAndCull(dt, drift float64) int {
	kept := r.obstacles[:0]
	for _, o := range r.obstacles {
		o.Position = o.Position.Add(mgl64.Vec2{o.Velocity.X() + drift, o.Velocity.Y()}.Mul(dt))
		if o.Position.Y() < r.cullZ {
			continue
		}
		kept = append(kept, o)
	}
	culled := len(r.obstacles) - len(kept)
	clear(r.obstacles[len(kept):])
	r.obstacles = kept
	return culled
}

// maxSubSteps bounds the work a single frame can cause.
const maxSubSteps = 1024

// SubSteps returns how many equal steps dt must be split into so that no
// obstacle moves more than maxStep world units per step.
func (r *Registry) SubSteps(dt, drift, maxStep float64) int {
	if maxStep <= 0 || dt <= 0 {
		return 1
	}
	fastest := 0.0
	for _, o := range r.obstacles {
		fastest = math.Max(fastest, mgl64.Vec2{o.Velocity.X() + drift, o.Velocity.Y()}.Len())
	}
	// Tolerate rounding so an exact multiple does not add a step
	n := math.Ceil(fastest*dt/maxStep - 1e-9)
	switch {
	case n < 1 || math.IsNaN(n):
		return 1
	case n > maxSubSteps:
		return maxSubSteps
	}
	return int(n)
}

// Snapshot returns a lazy view over the live obstacles.
// The sequence can be ranged over any number of times and is valid until
// the registry is next mutated.
func (r *Registry) Snapshot() iter.Seq[ObstacleView] {
	return func(yield func(ObstacleView) bool) {
		for _, o := range r.obstacles {
			if !yield(ObstacleView{ID: o.ID, Position: o.Position, HalfExtent: r.halfExtent}) {
				return
			}
		}
	}
}

// Get returns the obstacle with the given id.
func (r *Registry) Get(id ObstacleID) (Obstacle, bool) {
	for _, o := range r.obstacles {
		if o.ID == id {
			return o, true
		}
	}
	return Obstacle{}, false
}

// Len returns the number of live obstacles.
func (r *Registry) Len() int {
	return len(r.obstacles)
}

// Clear removes every obstacle. IDs keep increasing.
func (r *Registry) Clear() {
	clear(r.obstacles)
	r.obstacles = r.obstacles[:0]
}

// each calls fn for every live obstacle until it returns false.
func (r *Registry) each(fn func(Obstacle) bool) {
	for _, o := range r.obstacles {
		if !fn(o) {
			return
		}
	}
}
