package sim

import (
	"iter"

	"github.com/vovakirdan/cubefield/internal/config"
	"github.com/vovakirdan/cubefield/internal/geom"
)

// Snapshot is the read-only view of one tick for a renderer.
// Obstacles is lazy and stays valid until the next Tick, Restart or
// SetDifficulty call.
type Snapshot struct {
	Obstacles  iter.Seq[ObstacleView]
	Hazard     geom.Triangle
	Tilt       float64
	Drift      float64
	Speed      float64
	Difficulty config.Difficulty
	Ticks      int
	Status     Status
}

// Snapshot returns the current view without advancing time.
func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Obstacles:  s.registry.Snapshot(),
		Hazard:     s.hazard,
		Tilt:       s.steering.Tilt(),
		Drift:      s.steering.Drift(),
		Speed:      s.speed.Speed(),
		Difficulty: s.difficulty,
		Ticks:      s.ticks,
		Status:     s.Status(),
	}
}

// Count returns the number of obstacles in the snapshot.
func (snap Snapshot) Count() int {
	n := 0
	for range snap.Obstacles {
		n++
	}
	return n
}
