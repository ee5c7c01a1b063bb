package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print aggregated diagnostics across all three components",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := core.Stats()

			section := color.New(color.Bold, color.FgCyan)

			section.Println("pheromone memory")
			cmd.Printf("  task_types:         %d\n", s.Pheromones.TaskTypes)
			cmd.Printf("  agent_combinations: %d\n", s.Pheromones.AgentCombinations)
			cmd.Printf("  total_trails:       %d\n", s.Pheromones.TotalTrails)
			cmd.Printf("  system_health:       %.3f\n", s.Pheromones.SystemHealth)

			section.Println("agent factory")
			cmd.Printf("  active:            %d\n", s.Agents.Active)
			cmd.Printf("  retired:           %d\n", s.Agents.Retired)
			cmd.Printf("  max_generation:    %d\n", s.Agents.MaxGeneration)
			cmd.Printf("  population_health: %.3f\n", s.Agents.PopulationHealth)

			section.Println("prompt engine")
			cmd.Printf("  total:          %d\n", s.Prompts.Total)
			cmd.Printf("  max_generation: %d\n", s.Prompts.MaxGeneration)
			cmd.Printf("  avg_fitness:    %.3f\n", s.Prompts.AvgFitness)

			return nil
		},
	}
}
