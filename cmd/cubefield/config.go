package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cubefield/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Prints the configuration Cubefield would use, as YAML.

The output is a complete config file: redirect it to a file, edit it,
and pass it back with --config or $` + config.EnvConfigPath + `.`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func runConfig(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail(err)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		fail(err)
	}
	if _, err := os.Stdout.Write(data); err != nil {
		fail(err)
	}
}
