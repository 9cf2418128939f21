package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/cubefield/internal/config"
	"github.com/vovakirdan/cubefield/internal/core"
)

func newTestSim(t *testing.T, mutate func(*config.Config), opts ...Option) *Simulation {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	opts = append([]Option{WithSeed(7)}, opts...)
	s, err := New(cfg, config.DifficultyEasy, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}

// noSpawns keeps the field empty so tests control every obstacle.
func noSpawns(c *config.Config) {
	c.World.SpawnProbability = 0
}

func TestNewRejectsBadInput(t *testing.T) {
	cfg := config.DefaultConfig()
	if _, err := New(cfg, "normal"); !errors.Is(err, config.ErrUnknownDifficulty) {
		t.Errorf("New() with unknown difficulty error = %v", err)
	}
	cfg.Speed.Initial = 1
	if _, err := New(cfg, config.DifficultyEasy); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("New() with invalid config error = %v", err)
	}
}

func TestScenarioFiveHundredTicks(t *testing.T) {
	s := newTestSim(t, func(c *config.Config) {
		noSpawns(c)
		c.Speed.Initial = -0.01
		c.Speed.ScoreGrowth = 1
	})
	// Off-axis so the obstacle passes beside the hazard
	id := s.Place(mgl64.Vec2{1, 5}, mgl64.Vec2{0, -0.01})

	for range 500 {
		s.Tick(1, core.IntentNone)
	}

	st := s.Status()
	if !st.Alive {
		t.Fatal("run ended unexpectedly")
	}
	if math.Abs(st.Score-500) > 1e-9 {
		t.Errorf("score = %g, expected 500", st.Score)
	}
	o, ok := s.registry.Get(id)
	if !ok {
		t.Fatal("obstacle culled early")
	}
	if math.Abs(o.Position.Y()) > 1e-9 {
		t.Errorf("z = %g, expected 0", o.Position.Y())
	}

	for range 40 {
		s.Tick(1, core.IntentNone)
	}
	if _, ok := s.registry.Get(id); ok {
		t.Error("obstacle should be culled after crossing z=-0.3")
	}
}

func TestScoreRampsWithSurvival(t *testing.T) {
	s := newTestSim(t, noSpawns)
	for range 500 {
		s.Tick(1, core.IntentNone)
	}
	// 100 * (1 + 1.025 + 1.025^2 + 1.025^3 + 1.025^4)
	want := 0.0
	for i := range 5 {
		want += 100 * math.Pow(1.025, float64(i))
	}
	if got := s.Status().Score; math.Abs(got-want) > 1e-6 {
		t.Errorf("score = %g, expected %g", got, want)
	}
}

func TestCollisionStopsRun(t *testing.T) {
	var results []RunResult
	s := newTestSim(t, noSpawns, WithObserver(func(r RunResult) {
		results = append(results, r)
	}))
	s.Place(mgl64.Vec2{0, 0.5}, mgl64.Vec2{0, -0.004})

	for i := 0; i < 50 && s.State() == StatePlaying; i++ {
		s.Tick(16, core.IntentNone)
	}
	if s.State() != StateStopped {
		t.Fatal("obstacle on the hazard axis never collided")
	}
	if len(results) != 1 {
		t.Fatalf("observer called %d times, expected 1", len(results))
	}
	if results[0].Score != s.Status().Score || results[0].RunID != s.RunID() {
		t.Errorf("result %+v does not match status %+v", results[0], s.Status())
	}
	if results[0].Difficulty != config.DifficultyEasy {
		t.Errorf("result difficulty = %q", results[0].Difficulty)
	}
}

func TestStoppedFreezesState(t *testing.T) {
	s := newTestSim(t, noSpawns)
	s.Place(mgl64.Vec2{0, 0.2}, mgl64.Vec2{0, -0.004})
	s.Place(mgl64.Vec2{2, 3}, mgl64.Vec2{0, -0.004})
	for i := 0; i < 50 && s.State() == StatePlaying; i++ {
		s.Tick(16, core.IntentNone)
	}
	if s.State() != StateStopped {
		t.Fatal("expected collision")
	}

	before := collect(s.Snapshot())
	status := s.Status()
	for range 20 {
		s.Tick(1000, core.IntentSteerLeft)
	}
	after := collect(s.Snapshot())

	if s.Status() != status {
		t.Errorf("status changed while stopped: %+v -> %+v", status, s.Status())
	}
	if len(before) != len(after) {
		t.Fatalf("obstacle count changed while stopped: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("obstacle moved while stopped: %+v -> %+v", before[i], after[i])
		}
	}
	if s.Snapshot().Tilt != 0 {
		t.Error("tilt changed while stopped")
	}
}

func collect(snap Snapshot) []ObstacleView {
	var out []ObstacleView
	for v := range snap.Obstacles {
		out = append(out, v)
	}
	return out
}

func TestRestartCompleteness(t *testing.T) {
	tests := []struct {
		name    string
		restart func(*Simulation)
	}{
		{"method", func(s *Simulation) { s.Restart() }},
		{"intent", func(s *Simulation) { s.Tick(16, core.IntentRestart) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSim(t, nil)
			firstRun := s.RunID()
			for i := range 400 {
				in := core.IntentSteerLeft
				if i%50 < 25 {
					in = core.IntentSteerRight
				}
				s.Tick(16, in)
			}
			if s.Status().Score == 0 || s.Snapshot().Count() == 0 {
				t.Fatal("setup produced no state to reset")
			}
			high := s.Status().HighScore

			tc.restart(s)

			snap := s.Snapshot()
			if !snap.Status.Alive || snap.Status.Score != 0 || snap.Ticks != 0 {
				t.Errorf("status after restart = %+v, ticks %d", snap.Status, snap.Ticks)
			}
			if snap.Count() != 0 {
				t.Errorf("%d obstacles after restart", snap.Count())
			}
			if snap.Speed != config.DefaultConfig().Speed.Initial {
				t.Errorf("speed after restart = %g", snap.Speed)
			}
			if snap.Tilt != 0 || snap.Drift != 0 {
				t.Errorf("steering after restart: tilt %g drift %g", snap.Tilt, snap.Drift)
			}
			if snap.Status.HighScore != high {
				t.Errorf("high score %g lost on restart, now %g", high, snap.Status.HighScore)
			}
			if s.RunID() == firstRun {
				t.Error("restart kept the old run id")
			}

			s.Tick(16, core.IntentNone)
			if got := s.Status().Score; got != 1 {
				t.Errorf("score after one tick = %g, expected base rate 1", got)
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	script := func(i int) core.Intent {
		switch {
		case i%90 < 30:
			return core.IntentSteerLeft
		case i%90 < 45:
			return core.IntentNone
		default:
			return core.IntentSteerRight
		}
	}

	run := func() (Status, []ObstacleView) {
		s := newTestSim(t, nil, WithSeed(12345))
		for i := range 1500 {
			s.Tick(16, script(i))
		}
		return s.Status(), collect(s.Snapshot())
	}

	st1, obs1 := run()
	st2, obs2 := run()
	if st1 != st2 {
		t.Errorf("status differs: %+v vs %+v", st1, st2)
	}
	if len(obs1) != len(obs2) {
		t.Fatalf("obstacle counts differ: %d vs %d", len(obs1), len(obs2))
	}
	for i := range obs1 {
		if obs1[i] != obs2[i] {
			t.Fatalf("obstacle %d differs: %+v vs %+v", i, obs1[i], obs2[i])
		}
	}
}

func TestSetDifficulty(t *testing.T) {
	s := newTestSim(t, noSpawns)
	for range 10 {
		s.Tick(16, core.IntentNone)
	}

	err := s.SetDifficulty("normal")
	if !errors.Is(err, config.ErrUnknownDifficulty) {
		t.Errorf("SetDifficulty(normal) error = %v", err)
	}
	if s.Difficulty() != config.DifficultyEasy {
		t.Errorf("difficulty changed to %q after rejected value", s.Difficulty())
	}
	if s.Status().Score != 10 {
		t.Errorf("rejected difficulty reset the run: score %g", s.Status().Score)
	}

	if err := s.SetDifficulty(config.DifficultyHard); err != nil {
		t.Fatalf("SetDifficulty(hard) failed: %v", err)
	}
	if s.Status().Score != 0 {
		t.Errorf("difficulty change did not restart, score %g", s.Status().Score)
	}
	s.Tick(16, core.IntentNone)
	if s.Status().Score != 3 {
		t.Errorf("score after one hard tick = %g, expected 3", s.Status().Score)
	}
}

func TestHighScorePerDifficulty(t *testing.T) {
	s := newTestSim(t, noSpawns)
	for range 20 {
		s.Tick(16, core.IntentNone)
	}
	if s.HighScore(config.DifficultyEasy) != 20 {
		t.Errorf("easy high score = %g, expected 20", s.HighScore(config.DifficultyEasy))
	}

	if err := s.SetDifficulty(config.DifficultyLuck); err != nil {
		t.Fatal(err)
	}
	if s.Status().HighScore != 0 {
		t.Errorf("luck high score = %g, expected 0", s.Status().HighScore)
	}
	s.Tick(16, core.IntentNone)
	if s.Status().HighScore != 10 {
		t.Errorf("luck high score = %g, expected 10", s.Status().HighScore)
	}
	if s.HighScore(config.DifficultyEasy) != 20 {
		t.Error("easy high score lost after switching level")
	}
}

func TestElapsedSanitized(t *testing.T) {
	tests := []struct {
		name    string
		elapsed float64
		wantZ   float64
	}{
		{"negative", -100, 1},
		{"nan", math.NaN(), 1},
		{"inf", math.Inf(1), 1 - 0.004*250},
		{"stall clamped", 10000, 1 - 0.004*250},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSim(t, noSpawns)
			id := s.Place(mgl64.Vec2{1, 1}, mgl64.Vec2{0, -0.004})
			s.Tick(tc.elapsed, core.IntentNone)
			o, ok := s.registry.Get(id)
			if !ok {
				t.Fatal("obstacle missing")
			}
			if math.Abs(o.Position.Y()-tc.wantZ) > 1e-12 {
				t.Errorf("z = %g, expected %g", o.Position.Y(), tc.wantZ)
			}
		})
	}
}

func TestSpeedMonotonicWhileAlive(t *testing.T) {
	s := newTestSim(t, noSpawns)
	maxSpeed := config.DefaultConfig().Speed.Max
	prev := math.Abs(s.Snapshot().Speed)
	for range 20000 {
		snap := s.Tick(1, core.IntentNone)
		mag := math.Abs(snap.Speed)
		if mag < prev || mag > maxSpeed {
			t.Fatalf("tick %d: |speed| %g (previous %g, max %g)", snap.Ticks, mag, prev, maxSpeed)
		}
		prev = mag
	}
	if prev != maxSpeed {
		t.Errorf("|speed| after 20000 ticks = %g, expected cap %g", prev, maxSpeed)
	}
}

func TestSpawnedRowsStartAtSpawnDistance(t *testing.T) {
	s := newTestSim(t, func(c *config.Config) {
		c.World.SpawnProbability = 1
		c.World.LaneCount = 10
	})
	// First row is due after 250 ms at the initial speed
	s.Tick(0, core.IntentNone)
	snap := s.Tick(251, core.IntentNone)
	if n := snap.Count(); n != 10 {
		t.Fatalf("obstacles after first row = %d, expected 10", n)
	}
	for v := range snap.Obstacles {
		if math.Abs(v.Position.Y()-4) > 1e-9 {
			t.Errorf("spawn z = %g, expected 4", v.Position.Y())
		}
	}
}

func TestHeadOnObstaclesAlwaysCollide(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		dt    float64
	}{
		{"max speed at 60 fps", -0.012, 16.67},
		{"max speed stalled frames", -0.012, 250},
		{"initial speed stalled frames", -0.004, 250},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for i := range 20 {
				s := newTestSim(t, func(c *config.Config) {
					noSpawns(c)
					c.Speed.Initial = tc.speed
				})
				z := 0.5 + float64(i)*0.013
				s.Place(mgl64.Vec2{0, z}, mgl64.Vec2{0, tc.speed})
				for range 200 {
					if s.State() != StatePlaying {
						break
					}
					s.Tick(tc.dt, core.IntentNone)
				}
				if s.State() != StateStopped {
					t.Errorf("obstacle from z=%g passed through the hazard", z)
				}
			}
		})
	}
}

func TestSingleLongFrameCannotSkipHazard(t *testing.T) {
	s := newTestSim(t, noSpawns)
	s.Place(mgl64.Vec2{0, 0.5}, mgl64.Vec2{0, -0.004})

	// 250 ms moves the cube a full unit, from z=0.5 to z=-0.5
	snap := s.Tick(250, core.IntentNone)
	if snap.Status.Alive {
		t.Fatal("cube jumped over the hazard in one frame")
	}
	if snap.Status.Score != 0 {
		t.Errorf("score = %g, expected no score for the fatal tick", snap.Status.Score)
	}
}

func TestCatchUpRowsKeepSpacing(t *testing.T) {
	s := newTestSim(t, func(c *config.Config) {
		c.World.SpawnProbability = 1
		c.World.LaneCount = 10
		c.Speed.Initial = -0.012
	})
	// About 83 ms per row at this speed, so a 200 ms frame owes two rows
	s.Tick(0, core.IntentNone)
	snap := s.Tick(200, core.IntentNone)

	depths := make(map[float64]int)
	for v := range snap.Obstacles {
		depths[math.Round(v.Position.Y()*1e6)/1e6]++
	}
	if len(depths) != 2 {
		t.Fatalf("rows at depths %v, expected two distinct rows", depths)
	}
	var zs []float64
	for z, n := range depths {
		if n != 10 {
			t.Errorf("row at z=%g has %d cubes, expected 10", z, n)
		}
		zs = append(zs, z)
	}
	gap := math.Abs(zs[0] - zs[1])
	if c := config.DefaultConfig().World.SpawnCadenceC; math.Abs(gap-c) > 1e-5 {
		t.Errorf("row gap = %g, expected %g", gap, c)
	}
}

func TestSeededRestartReplaysField(t *testing.T) {
	s := newTestSim(t, nil, WithSeed(99))
	play := func() []mgl64.Vec2 {
		for range 100 {
			s.Tick(16, core.IntentNone)
		}
		var out []mgl64.Vec2
		for v := range s.Snapshot().Obstacles {
			out = append(out, v.Position)
		}
		return out
	}

	first := play()
	if len(first) == 0 {
		t.Fatal("no obstacles spawned")
	}
	s.Restart()
	second := play()

	if len(first) != len(second) {
		t.Fatalf("restart produced %d obstacles, first run had %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("obstacle %d at %v after restart, expected %v", i, second[i], first[i])
		}
	}
}
