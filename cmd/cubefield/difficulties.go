package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cubefield/internal/config"
)

var difficultiesCmd = &cobra.Command{
	Use:     "difficulties",
	Aliases: []string{"levels"},
	Short:   "List difficulty levels",
	Long:    `Shows every difficulty level with its spawn jitter and base score rate.`,
	Args:    cobra.NoArgs,
	Run:     runDifficulties,
}

func runDifficulties(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail(err)
	}

	fmt.Println("Difficulty levels:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := len("Level")
	for _, d := range config.Difficulties() {
		if len(d) > maxNameLen {
			maxNameLen = len(d)
		}
	}

	fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, "Level", "Jitter", "Score rate")
	fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, "-----", "------", "----------")

	for _, d := range config.Difficulties() {
		level, err := cfg.Level(d)
		if err != nil {
			fail(err)
		}
		fmt.Printf("  %-*s  %-8.3f  %g\n", maxNameLen, d, level.Jitter, level.ScoreRate)
	}

	fmt.Println()
	fmt.Println("Run 'cubefield play --difficulty <level>' to play.")
}
