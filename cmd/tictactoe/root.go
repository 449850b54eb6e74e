package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jaminalder/undo-tic-tac-toe/internal/config"
	"github.com/jaminalder/undo-tic-tac-toe/internal/logging"
)

// rootOptions is filled in by the persistent pre-run of the root command.
type rootOptions struct {
	configPath string
	logLevel   string

	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "tictactoe",
		Short:         "Tic-tac-toe with undo and redo",
		Long:          `Play tic-tac-toe in the terminal or serve it over HTTP. Every move can be undone and redone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = opts.logLevel
			}
			level, err := logging.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.log = logging.NewWithWriter(cmd.ErrOrStderr(), level)
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "tictactoe.yaml", "Path to a YAML or JSON config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts), newPlayCmd(opts))
	return cmd
}
