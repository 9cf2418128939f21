package sim

import (
	"math"

	"github.com/vovakirdan/cubefield/internal/config"
	"github.com/vovakirdan/cubefield/internal/core"
)

// Steering holds the lateral drift applied to every obstacle and the
// cosmetic tilt. Tilt never affects collision.
type Steering struct {
	cfg   config.SteeringConfig
	drift float64
	tilt  float64
}

// NewSteering creates neutral steering.
func NewSteering(cfg config.SteeringConfig) *Steering {
	return &Steering{cfg: cfg}
}

// Update sets drift from the intent and moves tilt one step towards its
// target. Steering left slides obstacles towards -x, which the projector
// draws on the right of the screen.
func (s *Steering) Update(in core.Intent) {
	var target float64
	switch in {
	case core.IntentSteerLeft:
		s.drift = -s.cfg.LateralSpeed
		target = s.cfg.TiltMax
	case core.IntentSteerRight:
		s.drift = s.cfg.LateralSpeed
		target = -s.cfg.TiltMax
	default:
		s.drift = 0
	}
	s.tilt = approach(s.tilt, target, s.cfg.TiltRate)
}

// Drift returns the lateral velocity added to every obstacle.
func (s *Steering) Drift() float64 {
	return s.drift
}

// Tilt returns the current view roll.
func (s *Steering) Tilt() float64 {
	return s.tilt
}

// Reset returns drift and tilt to neutral.
func (s *Steering) Reset() {
	s.drift = 0
	s.tilt = 0
}

// approach moves v towards target by at most step.
func approach(v, target, step float64) float64 {
	if v < target {
		return math.Min(v+step, target)
	}
	return math.Max(v-step, target)
}

// Kinematics advances steering and obstacles for one tick.
type Kinematics struct {
	steering *Steering
	registry *Registry
}

// NewKinematics binds steering to a registry.
func NewKinematics(steering *Steering, registry *Registry) *Kinematics {
	return &Kinematics{steering: steering, registry: registry}
}

// Update applies the intent and moves every obstacle by dt milliseconds.
//
// The move is split into sub-steps no longer than the obstacle half extent
// so a fast obstacle cannot jump over the hazard within one frame. hit, if
// not nil, runs after every sub-step; the first true stops the move there.
// Returns the number of obstacles culled and whether hit fired.
func (k *Kinematics) Update(dt float64, in core.Intent, hit func() bool) (culled int, collided bool) {
	k.steering.Update(in)
	drift := k.steering.Drift()

	n := k.registry.SubSteps(dt, drift, k.registry.HalfExtent())
	step := dt / float64(n)
	for range n {
		culled += k.registry.AdvanceAndCull(step, drift)
		if hit != nil && hit() {
			return culled, true
		}
	}
	return culled, false
}

// SanitizeElapsed maps a raw frame delta to a safe step: NaN, infinite and
// negative values become 0, and values above limit are clamped to it.
// A limit of 0 or less disables the clamp.
func SanitizeElapsed(elapsed, limit float64) float64 {
	if math.IsNaN(elapsed) || elapsed < 0 {
		return 0
	}
	if limit > 0 && elapsed > limit {
		return limit
	}
	if math.IsInf(elapsed, 1) {
		return 0
	}
	return elapsed
}
