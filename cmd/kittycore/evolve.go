package main

import (
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

func newEvolveCommand() *cobra.Command {
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Run one evolution cycle (evaporation + agent/prompt generation step)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				core.Evolve()
				color.New(color.FgGreen).Println("ran one evolution cycle")
				return core.Save()
			}

			return watchEvolve(cmd.Context(), interval)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep evolving periodically until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "minimum spacing between evolution cycles in watch mode")
	return cmd
}

// watchEvolve runs Evolve on a loop, throttled to at most one cycle per
// interval regardless of how busy the caller's context is — a single
// internal rate.Limiter standing in for what would otherwise be an
// external cron trigger.
func watchEvolve(ctx context.Context, interval time.Duration) error {
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		core.Evolve()
		if err := core.Save(); err != nil {
			color.New(color.FgRed).Println(err.Error())
		} else {
			color.New(color.FgGreen).Println("evolution cycle complete")
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
