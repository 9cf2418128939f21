package config

import (
	_ "embed"
)

//go:embed defaults/cubefield.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
// It mirrors defaults/cubefield.yaml and is used when the embedded file
// cannot be parsed.
func DefaultConfig() Config {
	return Config{
		World: WorldConfig{
			CubeScale:        0.04,
			TetraScale:       0.05,
			LaneCount:        100,
			LaneSpan:         8.0,
			SpawnProbability: 0.07,
			SpawnLeadMs:      1000,
			SpawnCadenceC:    1.0,
			CullZ:            -0.3,
		},
		Speed: SpeedConfig{
			Initial:         -0.004,
			Max:             0.012,
			RampEvery:       100,
			SpeedGrowth:     1.01,
			ScoreGrowth:     1.025,
			CollisionMargin: 0.05,
			MaxElapsed:      250,
		},
		Steering: SteeringConfig{
			LateralSpeed: 1.0 / 375,
			TiltRate:     0.01,
			TiltMax:      0.1,
		},
		Difficulties: map[Difficulty]LevelConfig{
			DifficultyEasy:       {Jitter: 0, ScoreRate: 1},
			DifficultyMedium:     {Jitter: 0.002, ScoreRate: 2},
			DifficultyHard:       {Jitter: 0.004, ScoreRate: 3},
			DifficultyImpossible: {Jitter: 0.008, ScoreRate: 5},
			DifficultyLuck:       {Jitter: 0.016, ScoreRate: 10},
		},
		Input: InputConfig{
			HoldMs:        160,
			InitialHoldMs: 520,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}
