package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cubefield/internal/config"
	"github.com/vovakirdan/cubefield/internal/core"
	"github.com/vovakirdan/cubefield/internal/platform/tui"
	"github.com/vovakirdan/cubefield/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a difficulty picker",
	Long: `Start Cubefield in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to start a run.
Leaving a run returns you to the menu; the scoreboard keeps every run
played in this session.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Start run
  Tab          - Session scoreboard
  Q            - Quit

Examples:
  cubefield menu
  cubefield menu --fps 30
  cubefield menu --log-file cubefield.log --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail(err)
	}

	logger, closeLog, err := newLogger(true)
	if err != nil {
		fail(err)
	}
	defer closeLog()

	store, err := storage.OpenSession()
	if err != nil {
		logger.Warn("scoreboard unavailable", "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if err := menuLoop(cfg, store, config.DifficultyEasy, runtimeConfig(), logger); err != nil {
		fail(err)
	}
}

// menuLoop alternates between the picker, the scoreboard and runs until
// the player quits.
func menuLoop(cfg config.Config, store *storage.Store, current config.Difficulty, rt core.RuntimeConfig, logger *log.Logger) error {
	for {
		res, err := tui.RunMenu(cfg, store, current, rt)
		if err != nil {
			return err
		}

		// Update config with any size changes
		rt = res.Config

		if res.Quit {
			return nil
		}

		if res.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, current, rt.ScreenW, rt.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return nil
		}

		if res.Difficulty == "" {
			return nil
		}
		current = res.Difficulty

		goBack, err := tui.Run(tui.GameOptions{
			Config:     cfg,
			Difficulty: current,
			Runtime:    rt,
			Store:      store,
			Logger:     logger,
		})
		if err != nil {
			return err
		}
		if !goBack {
			return nil
		}
	}
}
