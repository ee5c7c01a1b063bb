package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRecommendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <task-type>",
		Short: "Ask the core for its best-known approach to a task type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskType := args[0]
			rec := core.Recommend(taskType)

			bold := color.New(color.Bold)
			bold.Printf("Recommendation for %q\n", taskType)
			fmt.Printf("  patterns:    %s\n", joinOrNone(rec.Patterns))
			fmt.Printf("  agent_combo: %s\n", orNone(rec.AgentCombo))
			fmt.Printf("  tools:       %s\n", joinOrNone(rec.Tools))

			confColor := color.New(color.FgGreen)
			if rec.Confidence < 0.5 {
				confColor = color.New(color.FgYellow)
			}
			confColor.Printf("  confidence:  %.2f\n", rec.Confidence)

			return core.Save()
		},
	}
	return cmd
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
