package main

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSpawnCommand() *cobra.Command {
	var specialization string

	cmd := &cobra.Command{
		Use:   "spawn <agent-type>",
		Short: "Spawn a new agent DNA of the given type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var spec []string
			if specialization != "" {
				spec = strings.Split(specialization, ",")
			}

			agent := core.SpawnAgent(args[0], spec)

			color.New(color.FgCyan, color.Bold).Printf("spawned agent %s\n", agent.AgentID)
			cmd.Printf("  generation:   %d\n", agent.Generation)
			cmd.Printf("  success_rate: %.3f\n", agent.Genes.SuccessRate)
			cmd.Printf("  tools:        %s\n", strings.Join(agent.Genes.PreferredTools, ", "))

			return core.Save()
		},
	}

	cmd.Flags().StringVar(&specialization, "specialization", "", "comma-separated specialization tags")
	return cmd
}
