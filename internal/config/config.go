// Package config provides YAML-based configuration loading and the
// difficulty table for Cubefield.
package config

import (
	"errors"
	"fmt"
)

// Config contains all tunables for the simulation and its front end.
type Config struct {
	World        WorldConfig               `yaml:"world"`
	Speed        SpeedConfig               `yaml:"speed"`
	Steering     SteeringConfig            `yaml:"steering"`
	Difficulties map[Difficulty]LevelConfig `yaml:"difficulties"`
	Input        InputConfig               `yaml:"input"`
}

// WorldConfig defines the geometry of the field and how rows are spawned.
type WorldConfig struct {
	CubeScale        float64 `yaml:"cube_scale"`  // Obstacle half extent
	TetraScale       float64 `yaml:"tetra_scale"` // Hazard scale
	LaneCount        int     `yaml:"lane_count"`
	LaneSpan         float64 `yaml:"lane_span"`
	SpawnProbability float64 `yaml:"spawn_probability"`
	SpawnLeadMs      float64 `yaml:"spawn_lead_ms"`   // spawn z = lead * |speed|
	SpawnCadenceC    float64 `yaml:"spawn_cadence_c"` // row delay = c / |speed|
	CullZ            float64 `yaml:"cull_z"`
}

// SpeedConfig defines scroll speed and how it ramps over a run.
type SpeedConfig struct {
	Initial         float64 `yaml:"initial"` // Signed, negative moves towards the viewpoint
	Max             float64 `yaml:"max"`     // Magnitude cap
	RampEvery       int     `yaml:"ramp_every"`
	SpeedGrowth     float64 `yaml:"speed_growth"`
	ScoreGrowth     float64 `yaml:"score_growth"`
	CollisionMargin float64 `yaml:"collision_margin"` // margin = factor * |speed|
	MaxElapsed      float64 `yaml:"max_elapsed"`      // 0 disables the clamp
}

// SteeringConfig defines lateral drift and the cosmetic tilt.
type SteeringConfig struct {
	LateralSpeed float64 `yaml:"lateral_speed"`
	TiltRate     float64 `yaml:"tilt_rate"`
	TiltMax      float64 `yaml:"tilt_max"`
}

// LevelConfig is one row of the difficulty table.
type LevelConfig struct {
	Jitter    float64 `yaml:"jitter"`
	ScoreRate float64 `yaml:"score_rate"`
}

// InputConfig controls how terminal key repeats become held steering.
type InputConfig struct {
	HoldMs        int `yaml:"hold_ms"`
	InitialHoldMs int `yaml:"initial_hold_ms"`
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Level returns the table entry for d.
func (c Config) Level(d Difficulty) (LevelConfig, error) {
	lvl, ok := c.Difficulties[d]
	if !ok {
		return LevelConfig{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(d))
	}
	return lvl, nil
}

// Validate checks that the config can drive a simulation.
func (c Config) Validate() error {
	switch {
	case c.Speed.Initial >= 0:
		return fmt.Errorf("%w: speed.initial must be negative, got %g", ErrInvalidConfig, c.Speed.Initial)
	case c.Speed.Max <= 0:
		return fmt.Errorf("%w: speed.max must be positive, got %g", ErrInvalidConfig, c.Speed.Max)
	case c.Speed.Max < -c.Speed.Initial:
		return fmt.Errorf("%w: speed.max %g is below |speed.initial| %g", ErrInvalidConfig, c.Speed.Max, -c.Speed.Initial)
	case c.Speed.RampEvery < 1:
		return fmt.Errorf("%w: speed.ramp_every must be at least 1", ErrInvalidConfig)
	case c.World.LaneCount < 1:
		return fmt.Errorf("%w: world.lane_count must be at least 1", ErrInvalidConfig)
	case c.World.SpawnProbability < 0 || c.World.SpawnProbability > 1:
		return fmt.Errorf("%w: world.spawn_probability must be in [0, 1], got %g", ErrInvalidConfig, c.World.SpawnProbability)
	case c.World.CubeScale <= 0 || c.World.TetraScale <= 0:
		return fmt.Errorf("%w: world scales must be positive", ErrInvalidConfig)
	case c.World.SpawnLeadMs <= 0 || c.World.SpawnCadenceC <= 0:
		return fmt.Errorf("%w: spawn constants must be positive", ErrInvalidConfig)
	}

	for _, d := range Difficulties() {
		if _, ok := c.Difficulties[d]; !ok {
			return fmt.Errorf("%w: difficulties.%s is missing", ErrInvalidConfig, d)
		}
	}
	return nil
}
