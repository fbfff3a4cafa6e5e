package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"quotebot/internal/config"
	"quotebot/internal/models"
	"quotebot/internal/store"
)

func newImportCmd(cfg *config.Config) *cobra.Command {
	var (
		inputPath string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import quotes from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return errors.New("--input is required")
			}

			data, err := os.ReadFile(inputPath)
			if err != nil {
				return err
			}

			var records []models.Quote
			if err := yaml.Unmarshal(data, &records); err != nil {
				return fmt.Errorf("parse %s: %w", inputPath, err)
			}
			if len(records) == 0 {
				return errors.New("no records found in input file")
			}

			for i := range records {
				if records[i].ID < 1 {
					return fmt.Errorf("record %d: id is required", i+1)
				}
				if err := records[i].Validate(); err != nil {
					return fmt.Errorf("record %d: %w", i+1, err)
				}
			}

			return withStore(cfg, func(st *store.Store) error {
				imported, skipped := 0, 0
				for i := range records {
					exists, err := st.QuoteExists(cmd.Context(), records[i].ID)
					if err != nil {
						return err
					}
					if exists {
						skipped++
						continue
					}
					if dryRun {
						imported++
						continue
					}
					if err := st.ImportQuote(cmd.Context(), &records[i]); err != nil {
						return fmt.Errorf("record %d: %w", i+1, err)
					}
					imported++
				}
				return writePlain("imported: %d, skipped: %d\n", imported, skipped)
			})
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "input YAML file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without making changes")

	return cmd
}
