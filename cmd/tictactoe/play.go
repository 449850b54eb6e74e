package main

import (
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/jaminalder/undo-tic-tac-toe/internal/app"
	"github.com/jaminalder/undo-tic-tac-toe/internal/cli"
)

func newPlayCmd(opts *rootOptions) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			profile := termenv.NewOutput(cmd.OutOrStdout()).Profile
			if plain {
				profile = termenv.Ascii
			}
			svc := app.NewService(
				app.WithHistoryLimit(opts.cfg.HistoryLimit),
				app.WithLogger(opts.log),
			)
			return cli.Play(ctx, svc, cli.PlayOptions{
				In:      cmd.InOrStdin(),
				Out:     cmd.OutOrStdout(),
				Profile: profile,
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colors")
	return cmd
}
