// Command kittycore is a demo CLI over the core's external interface: it
// owns no domain logic itself, only construction, persistence wiring, and
// formatted output.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kittycore/core/internal/config"
	"github.com/kittycore/core/internal/kittycore"
	"github.com/kittycore/core/pkg/logger"
)

var (
	stateDir string
	core     *kittycore.Core
	log      *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kittycore",
	Short: "KittyCore self-improving multi-agent orchestration core",
	Long: `kittycore is a reference CLI over the pheromone memory, evolutionary
agent factory, and prompt evolution engine that make up the KittyCore core.

It is a thin demo harness: the real integration point is the core package's
Core type, consulted and updated by an external task orchestrator.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if stateDir != "" {
			cfg.StateDir = stateDir
		}

		log = logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
		core = kittycore.New(cfg, log)
		core.Load()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "override the configured state directory")

	rootCmd.AddCommand(newRecommendCommand())
	rootCmd.AddCommand(newSpawnCommand())
	rootCmd.AddCommand(newEvolveCommand())
	rootCmd.AddCommand(newStatsCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
