package sim

import (
	"math"

	"github.com/vovakirdan/cubefield/internal/config"
)

// SpeedController owns the scroll speed, the score rate and the spawn
// cadence. Speed is signed (negative moves towards the viewpoint) and its
// magnitude never exceeds the configured maximum.
type SpeedController struct {
	cfg   config.SpeedConfig
	world config.WorldConfig

	speed     float64
	scoreRate float64
	baseRate  float64
	jitter    float64
	sinceRow  float64 // ms accumulated towards the next spawn row
}

// NewSpeedController creates a controller at the initial speed with the
// given level's base score rate and jitter.
func NewSpeedController(cfg config.SpeedConfig, world config.WorldConfig, level config.LevelConfig) *SpeedController {
	sc := &SpeedController{cfg: cfg, world: world}
	sc.SetLevel(level)
	return sc
}

// SetLevel applies a difficulty table entry and resets the run values.
func (sc *SpeedController) SetLevel(level config.LevelConfig) {
	sc.baseRate = level.ScoreRate
	sc.jitter = level.Jitter
	sc.Reset()
}

// Reset returns speed, score rate and cadence to their starting values.
func (sc *SpeedController) Reset() {
	sc.speed = sc.cfg.Initial
	sc.scoreRate = sc.baseRate
	sc.sinceRow = 0
}

// Speed returns the signed scroll speed.
func (sc *SpeedController) Speed() float64 {
	return sc.speed
}

// Magnitude returns |speed|.
func (sc *SpeedController) Magnitude() float64 {
	return math.Abs(sc.speed)
}

// ScoreRate returns the score added per surviving tick.
func (sc *SpeedController) ScoreRate() float64 {
	return sc.scoreRate
}

// Jitter returns the lateral jitter factor for new obstacles.
func (sc *SpeedController) Jitter() float64 {
	return sc.jitter
}

// Ramp applies one growth step when survivalTicks is a positive multiple of
// the ramp interval. Reports whether a step was applied.
func (sc *SpeedController) Ramp(survivalTicks int) bool {
	if survivalTicks <= 0 || survivalTicks%sc.cfg.RampEvery != 0 {
		return false
	}
	sc.scoreRate *= sc.cfg.ScoreGrowth
	mag := math.Min(sc.Magnitude()*sc.cfg.SpeedGrowth, sc.cfg.Max)
	sc.speed = math.Copysign(mag, sc.speed)
	return true
}

// SpawnDistance returns the depth at which a new row appears:
// lead * |speed|. A fresh row always needs the same time to reach the
// hazard, so faster runs spawn rows further out.
func (sc *SpeedController) SpawnDistance() float64 {
	return sc.world.SpawnLeadMs * sc.Magnitude()
}

// RowDistance returns the spawn depth for row i of n rows that fell due in
// the same frame, oldest first. A row that came due before the end of the
// frame has already covered the time since then. A result of 0 or less
// means the row would already be past the hazard line.
func (sc *SpeedController) RowDistance(i, n int) float64 {
	lag := sc.sinceRow + float64(n-1-i)*sc.RowDelay()
	return sc.SpawnDistance() - lag*sc.Magnitude()
}

// RowDelay returns the milliseconds between rows: c / |speed|.
func (sc *SpeedController) RowDelay() float64 {
	return sc.world.SpawnCadenceC / sc.Magnitude()
}

// RowsDue adds dt to the cadence accumulator and returns how many rows
// should spawn now.
func (sc *SpeedController) RowsDue(dt float64) int {
	sc.sinceRow += dt
	delay := sc.RowDelay()
	rows := 0
	for sc.sinceRow >= delay {
		sc.sinceRow -= delay
		rows++
	}
	return rows
}

// CollisionMargin returns the safety margin for the current speed.
func (sc *SpeedController) CollisionMargin() float64 {
	return sc.cfg.CollisionMargin * sc.Magnitude()
}
