package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cubefield/internal/config"
	"github.com/vovakirdan/cubefield/internal/platform/tui"
	"github.com/vovakirdan/cubefield/internal/storage"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start a run at the given difficulty.

Controls:
  Left/A/H   - Steer left
  Right/D/L  - Steer right
  R          - Restart
  Tab        - Next difficulty (restarts the run)
  P/Space    - Pause
  Esc/B      - Back to menu
  Q/Ctrl+C   - Quit

Difficulty levels:
  easy, medium, hard, impossible, luck

Examples:
  cubefield play
  cubefield play --difficulty impossible
  cubefield play --config ./my-cubefield.yaml --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", string(config.DifficultyEasy), "Difficulty: easy, medium, hard, impossible, luck")
}

func runPlay(_ *cobra.Command, _ []string) {
	difficulty, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		fail(err)
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail(err)
	}

	logger, closeLog, err := newLogger(true)
	if err != nil {
		fail(err)
	}
	defer closeLog()

	// Scores live for this session only
	store, err := storage.OpenSession()
	if err != nil {
		logger.Warn("scoreboard unavailable", "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	rt := runtimeConfig()
	goBack, err := tui.Run(tui.GameOptions{
		Config:     cfg,
		Difficulty: difficulty,
		Runtime:    rt,
		Store:      store,
		Logger:     logger,
	})
	if err != nil {
		fail(err)
	}
	if goBack {
		if err := menuLoop(cfg, store, difficulty, rt, logger); err != nil {
			fail(err)
		}
	}
}
