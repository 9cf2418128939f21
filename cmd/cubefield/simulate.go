package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cubefield/internal/config"
	"github.com/vovakirdan/cubefield/internal/core"
	"github.com/vovakirdan/cubefield/internal/sim"
)

var (
	flagSimTicks      int
	flagSimDT         float64
	flagSimDifficulty string
	flagSimPattern    string
	flagSimScenario   bool
	flagSimRestart    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the simulation headless",
	Long: `Runs the simulation without a terminal UI and prints a summary.

Steering patterns:
  none   - No input
  left   - Hold left
  right  - Hold right
  weave  - Alternate left and right every 60 ticks

With --scenario the field starts empty except for one cube at x=1, z=5
closing at 0.01 per ms, at scroll speed -0.01. After 500 ticks of 1 ms
the cube sits at z=0 and the score is 500 on easy.

Examples:
  cubefield simulate --ticks 5000 --seed 7
  cubefield simulate --difficulty luck --pattern weave --log-level debug
  cubefield simulate --scenario --ticks 500 --dt 1`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 1000, "Number of ticks to run")
	simulateCmd.Flags().Float64Var(&flagSimDT, "dt", 16, "Milliseconds per tick")
	simulateCmd.Flags().StringVar(&flagSimDifficulty, "difficulty", string(config.DifficultyEasy), "Difficulty: easy, medium, hard, impossible, luck")
	simulateCmd.Flags().StringVar(&flagSimPattern, "pattern", "none", "Steering pattern: none, left, right, weave")
	simulateCmd.Flags().BoolVar(&flagSimScenario, "scenario", false, "Run the single-cube reference scenario")
	simulateCmd.Flags().BoolVar(&flagSimRestart, "restart", false, "Restart after a collision instead of stopping")
}

// steerPattern returns the intent for a tick.
type steerPattern func(tick int) core.Intent

const weavePeriod = 60

func parsePattern(name string) (steerPattern, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return func(int) core.Intent { return core.IntentNone }, nil
	case "left":
		return func(int) core.Intent { return core.IntentSteerLeft }, nil
	case "right":
		return func(int) core.Intent { return core.IntentSteerRight }, nil
	case "weave":
		return func(tick int) core.Intent {
			if (tick/weavePeriod)%2 == 0 {
				return core.IntentSteerLeft
			}
			return core.IntentSteerRight
		}, nil
	default:
		return nil, fmt.Errorf("unknown steering pattern %q", name)
	}
}

// headlessOptions configures one headless session.
type headlessOptions struct {
	Ticks      int
	DT         float64
	Difficulty config.Difficulty
	Pattern    steerPattern
	Scenario   bool
	Restart    bool
	Seed       int64
}

// headlessSummary is what a headless session reports.
type headlessSummary struct {
	RunID      uuid.UUID
	Difficulty config.Difficulty
	State      sim.State
	Ticks      int // Ticks driven, including stopped ones
	Survived   int // Survival ticks of the last run
	Score      float64
	HighScore  float64
	Collisions int
	Obstacles  int
	Speed      float64
	ScenarioZ  float64 // z of the scenario cube while ScenarioOK
	ScenarioOK bool    // Scenario cube still live
}

// scenarioConfig empties the field and fixes the speed so the reference
// run is reproducible.
func scenarioConfig(cfg config.Config) config.Config {
	cfg.World.SpawnProbability = 0
	cfg.Speed.Initial = -0.01
	cfg.Speed.ScoreGrowth = 1
	if cfg.Speed.Max < 0.01 {
		cfg.Speed.Max = 0.01
	}
	return cfg
}

// runHeadless drives a simulation for opts.Ticks ticks.
func runHeadless(cfg config.Config, opts headlessOptions, logger *log.Logger) (headlessSummary, error) {
	if opts.Ticks < 0 {
		return headlessSummary{}, fmt.Errorf("ticks must not be negative, got %d", opts.Ticks)
	}
	if opts.Pattern == nil {
		opts.Pattern = func(int) core.Intent { return core.IntentNone }
	}
	if opts.Scenario {
		cfg = scenarioConfig(cfg)
	}

	var collisions int
	simOpts := []sim.Option{
		sim.WithLogger(logger),
		sim.WithObserver(func(sim.RunResult) { collisions++ }),
	}
	if opts.Seed != 0 {
		simOpts = append(simOpts, sim.WithSeed(opts.Seed))
	}
	s, err := sim.New(cfg, opts.Difficulty, simOpts...)
	if err != nil {
		return headlessSummary{}, err
	}

	var cube sim.ObstacleID
	if opts.Scenario {
		cube = s.Place(mgl64.Vec2{1, 5}, mgl64.Vec2{0, -0.01})
	}

	var snap sim.Snapshot
	for i := range opts.Ticks {
		in := opts.Pattern(i)
		if opts.Restart && s.State() == sim.StateStopped {
			in = core.IntentRestart
		}
		snap = s.Tick(opts.DT, in)
	}
	if opts.Ticks == 0 {
		snap = s.Snapshot()
	}

	sum := headlessSummary{
		RunID:      s.RunID(),
		Difficulty: s.Difficulty(),
		State:      s.State(),
		Ticks:      opts.Ticks,
		Survived:   s.Ticks(),
		Score:      snap.Status.Score,
		HighScore:  snap.Status.HighScore,
		Collisions: collisions,
		Obstacles:  snap.Count(),
		Speed:      snap.Speed,
	}
	if opts.Scenario {
		for o := range snap.Obstacles {
			if o.ID == cube {
				sum.ScenarioZ = o.Position.Y()
				sum.ScenarioOK = true
				break
			}
		}
	}
	return sum, nil
}

func runSimulate(_ *cobra.Command, _ []string) {
	difficulty, err := config.ParseDifficulty(flagSimDifficulty)
	if err != nil {
		fail(err)
	}
	pattern, err := parsePattern(flagSimPattern)
	if err != nil {
		fail(err)
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail(err)
	}

	logger, closeLog, err := newLogger(false)
	if err != nil {
		fail(err)
	}
	defer closeLog()

	sum, err := runHeadless(cfg, headlessOptions{
		Ticks:      flagSimTicks,
		DT:         flagSimDT,
		Difficulty: difficulty,
		Pattern:    pattern,
		Scenario:   flagSimScenario,
		Restart:    flagSimRestart,
		Seed:       flagSeed,
	}, logger)
	if err != nil {
		fail(err)
	}
	printSummary(os.Stdout, sum, flagSimScenario)
}

func printSummary(w io.Writer, sum headlessSummary, scenario bool) {
	fmt.Fprintf(w, "Run:         %s\n", sum.RunID)
	fmt.Fprintf(w, "Difficulty:  %s\n", sum.Difficulty.Title())
	fmt.Fprintf(w, "State:       %s\n", sum.State)
	fmt.Fprintf(w, "Ticks:       %d (survived %d)\n", sum.Ticks, sum.Survived)
	fmt.Fprintf(w, "Score:       %.2f\n", sum.Score)
	fmt.Fprintf(w, "High score:  %.2f\n", sum.HighScore)
	fmt.Fprintf(w, "Collisions:  %d\n", sum.Collisions)
	fmt.Fprintf(w, "Obstacles:   %d\n", sum.Obstacles)
	fmt.Fprintf(w, "Speed:       %.5f\n", sum.Speed)
	if scenario {
		if sum.ScenarioOK {
			fmt.Fprintf(w, "Scenario z:  %.4f\n", sum.ScenarioZ)
		} else {
			fmt.Fprintln(w, "Scenario z:  culled")
		}
	}
}
