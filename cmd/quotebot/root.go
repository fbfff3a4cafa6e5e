package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quotebot/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "quotebot",
		Short: "Quotebot stores and serves chat quotes",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(
		newRunCmd(cfg),
		newQuoteCmd(cfg),
		newConfigCmd(cfg),
		newExportCmd(cfg),
		newImportCmd(cfg),
	)

	return cmd
}
