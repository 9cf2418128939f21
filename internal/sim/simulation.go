// Package sim is the Cubefield simulation and collision engine.
//
// A Simulation owns every piece of run state: the obstacle registry, the
// steering state, the speed controller, the score and the high scores for
// the session. An external driver calls Tick once per frame with the
// elapsed milliseconds and the player's intent; nothing in this package
// schedules work, blocks, or touches the terminal.
package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/vovakirdan/cubefield/internal/config"
	"github.com/vovakirdan/cubefield/internal/core"
	"github.com/vovakirdan/cubefield/internal/geom"
)

// State is the top-level run state.
type State int

const (
	StatePlaying State = iota
	StateStopped
)

// String returns a human-readable name for the state.
func (s State) String() string {
	if s == StatePlaying {
		return "Playing"
	}
	return "Stopped"
}

// Status is what a score display needs.
type Status struct {
	Alive     bool
	Score     float64
	HighScore float64 // Best score for the current difficulty this session
}

// RunResult describes a finished run.
type RunResult struct {
	RunID      uuid.UUID
	Difficulty config.Difficulty
	Score      float64
	Ticks      int
}

// RunObserver is called once when a run ends in a collision.
type RunObserver func(RunResult)

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger for run events.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSeed sets the obstacle RNG seed. Without it the seed comes from the
// clock. A seeded simulation replays the same obstacle field after every
// restart.
func WithSeed(seed int64) Option {
	return func(s *Simulation) {
		s.seed = seed
		s.seeded = true
	}
}

// WithObserver registers fn to be told about every finished run.
func WithObserver(fn RunObserver) Option {
	return func(s *Simulation) {
		s.observer = fn
	}
}

// Simulation is the per-session game context. It is not safe for
// concurrent use; the driver owns it.
type Simulation struct {
	cfg    config.Config
	hazard geom.Triangle

	registry   *Registry
	steering   *Steering
	kinematics *Kinematics
	speed      *SpeedController

	difficulty config.Difficulty
	state      State
	score      float64
	ticks      int
	runID      uuid.UUID
	highScores map[config.Difficulty]float64

	seed     int64
	seeded   bool
	log      *log.Logger
	observer RunObserver
}

// New creates a simulation at difficulty d, ready to play.
func New(cfg config.Config, d config.Difficulty, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, err := cfg.Level(d)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:        cfg,
		hazard:     HazardFootprint(cfg.World.TetraScale),
		difficulty: d,
		highScores: make(map[config.Difficulty]float64),
		seed:       time.Now().UnixNano(),
		log:        log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registry = NewRegistry(s.seed, cfg.World.CubeScale, cfg.World.LaneSpan, cfg.World.CullZ)
	s.steering = NewSteering(cfg.Steering)
	s.kinematics = NewKinematics(s.steering, s.registry)
	s.speed = NewSpeedController(cfg.Speed, cfg.World, level)
	s.Restart()
	return s, nil
}

// Tick advances the simulation by elapsed milliseconds under intent in and
// returns the resulting snapshot.
//
// While playing, one tick runs steering and movement, the speed ramp, the
// spawn cadence, collision against the hazard, and finally scoring.
// Movement is checked against the hazard after every sub-step, so a long
// frame cannot carry a cube through it. While stopped nothing changes
// except on a restart intent.
func (s *Simulation) Tick(elapsed float64, in core.Intent) Snapshot {
	if in == core.IntentRestart {
		s.Restart()
		return s.Snapshot()
	}
	if s.state == StateStopped {
		return s.Snapshot()
	}

	dt := SanitizeElapsed(elapsed, s.cfg.Speed.MaxElapsed)

	if _, hit := s.kinematics.Update(dt, in, s.collides); hit {
		s.stop()
		return s.Snapshot()
	}

	if s.speed.Ramp(s.ticks) {
		s.log.Debug("speed ramp", "ticks", s.ticks, "speed", s.speed.Speed(), "rate", s.speed.ScoreRate())
	}
	rows := s.speed.RowsDue(dt)
	for i := range rows {
		distance := s.speed.RowDistance(i, rows)
		if distance <= 0 {
			continue
		}
		s.registry.SpawnRow(
			s.cfg.World.LaneCount,
			s.cfg.World.SpawnProbability,
			distance,
			s.speed.Jitter(),
			s.speed.Speed(),
		)
	}

	if s.collides() {
		s.stop()
		return s.Snapshot()
	}

	s.score += s.speed.ScoreRate()
	s.ticks++
	if s.score > s.highScores[s.difficulty] {
		s.highScores[s.difficulty] = s.score
	}
	return s.Snapshot()
}

// collides reports whether any live obstacle overlaps the hazard.
func (s *Simulation) collides() bool {
	mag := s.speed.Magnitude()
	hit := false
	s.registry.each(func(o Obstacle) bool {
		if Collides(o.Position, s.registry.HalfExtent(), s.hazard, mag, s.cfg.Speed.CollisionMargin) {
			hit = true
			return false
		}
		return true
	})
	return hit
}

func (s *Simulation) stop() {
	s.state = StateStopped
	res := RunResult{
		RunID:      s.runID,
		Difficulty: s.difficulty,
		Score:      s.score,
		Ticks:      s.ticks,
	}
	s.log.Info("run over", "run", res.RunID, "difficulty", res.Difficulty, "score", res.Score, "ticks", res.Ticks)
	if s.observer != nil {
		s.observer(res)
	}
}

// Restart resets the run: obstacles, score, survival ticks, speed, steering
// and the spawn cadence. It behaves the same whether playing or stopped.
// High scores are kept.
func (s *Simulation) Restart() {
	s.registry.Clear()
	if s.seeded {
		s.registry.Reseed(s.seed)
	}
	s.steering.Reset()
	s.speed.Reset()
	s.score = 0
	s.ticks = 0
	s.state = StatePlaying
	s.runID = uuid.New()
	s.log.Debug("run started", "run", s.runID, "difficulty", s.difficulty)
}

// SetDifficulty switches level and restarts. An unknown level is rejected
// and the current level is kept.
func (s *Simulation) SetDifficulty(d config.Difficulty) error {
	level, err := s.cfg.Level(d)
	if err != nil {
		return fmt.Errorf("failed to set difficulty: %w", err)
	}
	s.difficulty = d
	s.speed.SetLevel(level)
	s.log.Debug("difficulty changed", "difficulty", d)
	s.Restart()
	return nil
}

// Difficulty returns the current level.
func (s *Simulation) Difficulty() config.Difficulty {
	return s.difficulty
}

// State returns Playing or Stopped.
func (s *Simulation) State() State {
	return s.state
}

// Status returns alive, score and the high score for the current level.
func (s *Simulation) Status() Status {
	return Status{
		Alive:     s.state == StatePlaying,
		Score:     s.score,
		HighScore: s.highScores[s.difficulty],
	}
}

// HighScore returns the session best for level d.
func (s *Simulation) HighScore(d config.Difficulty) float64 {
	return s.highScores[d]
}

// RunID returns the id of the current run.
func (s *Simulation) RunID() uuid.UUID {
	return s.runID
}

// Ticks returns the survival ticks of the current run.
func (s *Simulation) Ticks() int {
	return s.ticks
}

// Place adds an obstacle outside the spawn cadence, for scripted scenarios.
func (s *Simulation) Place(position, velocity mgl64.Vec2) ObstacleID {
	return s.registry.Place(position, velocity)
}

// Hazard returns the fixed hazard footprint.
func (s *Simulation) Hazard() geom.Triangle {
	return s.hazard
}
