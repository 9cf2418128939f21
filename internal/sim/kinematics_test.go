package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/cubefield/internal/config"
	"github.com/vovakirdan/cubefield/internal/core"
)

func TestSteeringDrift(t *testing.T) {
	cfg := config.DefaultConfig().Steering
	tests := []struct {
		in   core.Intent
		want float64
	}{
		{core.IntentSteerLeft, -cfg.LateralSpeed},
		{core.IntentSteerRight, cfg.LateralSpeed},
		{core.IntentNone, 0},
	}
	for _, tc := range tests {
		t.Run(tc.in.String(), func(t *testing.T) {
			s := NewSteering(cfg)
			s.Update(tc.in)
			if s.Drift() != tc.want {
				t.Errorf("Drift() = %g, expected %g", s.Drift(), tc.want)
			}
		})
	}
}

func TestSteeringTiltRampsAndClamps(t *testing.T) {
	cfg := config.DefaultConfig().Steering
	s := NewSteering(cfg)

	s.Update(core.IntentSteerLeft)
	if math.Abs(s.Tilt()-cfg.TiltRate) > 1e-12 {
		t.Errorf("Tilt() after one tick = %g, expected %g", s.Tilt(), cfg.TiltRate)
	}
	for range 50 {
		s.Update(core.IntentSteerLeft)
	}
	if s.Tilt() != cfg.TiltMax {
		t.Errorf("Tilt() = %g, expected clamp at %g", s.Tilt(), cfg.TiltMax)
	}

	for range 50 {
		s.Update(core.IntentSteerRight)
	}
	if s.Tilt() != -cfg.TiltMax {
		t.Errorf("Tilt() = %g, expected clamp at %g", s.Tilt(), -cfg.TiltMax)
	}

	for range 50 {
		s.Update(core.IntentNone)
	}
	if s.Tilt() != 0 {
		t.Errorf("Tilt() = %g, expected return to 0", s.Tilt())
	}
}

func TestKinematicsAppliesDrift(t *testing.T) {
	cfg := config.DefaultConfig().Steering
	r := newTestRegistry()
	id := r.Place(mgl64.Vec2{0, 1}, mgl64.Vec2{0, -0.004})
	k := NewKinematics(NewSteering(cfg), r)

	k.Update(10, core.IntentSteerRight, nil)
	o, _ := r.Get(id)
	want := mgl64.Vec2{cfg.LateralSpeed * 10, 1 - 0.04}
	if !o.Position.ApproxEqualThreshold(want, 1e-12) {
		t.Errorf("position = %v, expected %v", o.Position, want)
	}
}

func TestKinematicsSubSteps(t *testing.T) {
	r := newTestRegistry()
	id := r.Place(mgl64.Vec2{0, 3}, mgl64.Vec2{0, -0.012})
	k := NewKinematics(NewSteering(config.DefaultConfig().Steering), r)

	// 250 ms at 0.012/ms is 3 units; steps of at most 0.04 need 75
	calls := 0
	_, collided := k.Update(250, core.IntentNone, func() bool {
		calls++
		return false
	})
	if collided {
		t.Fatal("hit never returned true")
	}
	if calls != 75 {
		t.Errorf("hit called %d times, expected 75", calls)
	}
	o, _ := r.Get(id)
	if math.Abs(o.Position.Y()) > 1e-9 {
		t.Errorf("z = %g, expected 0", o.Position.Y())
	}
}

func TestKinematicsStopsAtFirstHit(t *testing.T) {
	r := newTestRegistry()
	id := r.Place(mgl64.Vec2{0, 2}, mgl64.Vec2{0, -0.012})
	k := NewKinematics(NewSteering(config.DefaultConfig().Steering), r)

	calls := 0
	_, collided := k.Update(250, core.IntentNone, func() bool {
		calls++
		return calls == 10
	})
	if !collided || calls != 10 {
		t.Fatalf("collided=%v after %d calls, expected true after 10", collided, calls)
	}
	o, _ := r.Get(id)
	if math.Abs(o.Position.Y()-(2-0.4)) > 1e-9 {
		t.Errorf("z = %g, expected the move to stop at 1.6", o.Position.Y())
	}
}

func TestSanitizeElapsed(t *testing.T) {
	tests := []struct {
		name  string
		in    float64
		limit float64
		want  float64
	}{
		{"normal", 16, 250, 16},
		{"zero", 0, 250, 0},
		{"negative", -5, 250, 0},
		{"nan", math.NaN(), 250, 0},
		{"positive inf clamped", math.Inf(1), 250, 250},
		{"positive inf unclamped", math.Inf(1), 0, 0},
		{"negative inf", math.Inf(-1), 250, 0},
		{"stall", 5000, 250, 250},
		{"no limit", 5000, 0, 5000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeElapsed(tc.in, tc.limit); got != tc.want {
				t.Errorf("SanitizeElapsed(%g, %g) = %g, expected %g", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}
