package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"quotebot/internal/config"
	"quotebot/internal/store"
)

// withStore opens the store from config, runs fn, and closes it.
func withStore(cfg *config.Config, fn func(st *store.Store) error) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func newExportCmd(cfg *config.Config) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all quotes as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, func(st *store.Store) error {
				all, err := st.AllQuotes(cmd.Context())
				if err != nil {
					return err
				}

				w := os.Stdout
				if outputPath != "" {
					f, err := os.Create(outputPath)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}

				enc := yaml.NewEncoder(w)
				defer enc.Close()
				return enc.Encode(all)
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")

	return cmd
}
