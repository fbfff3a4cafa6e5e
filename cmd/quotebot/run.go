package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"quotebot/internal/bot"
	"quotebot/internal/config"
	"quotebot/internal/discord"
	"quotebot/internal/fetch"
	"quotebot/internal/imagestore"
	"quotebot/internal/quotes"
	"quotebot/internal/store"
)

func newRunCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the quote bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.Token == "" {
				return fmt.Errorf("bot token is required (set token in config or %s)", "QUOTEBOT_TOKEN")
			}
			if cfg.OwnerID == "" {
				return fmt.Errorf("owner id is required (set owner_id in config or %s)", "QUOTEBOT_OWNER")
			}

			logger := slog.Default().With("component", "bot")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			images, err := imagestore.NewDir(cfg.ImageDir)
			if err != nil {
				return err
			}

			svc := quotes.NewService(st, images, fetch.New(images), logger)
			client, err := discord.New(cfg.Token, logger)
			if err != nil {
				return err
			}

			b := bot.New(svc, client, cfg.OwnerID, logger)

			logger.Info("starting bot", "images", cfg.ImageDir)
			if err := client.Run(ctx, b); err != nil {
				return err
			}
			logger.Info("shutting down")
			return nil
		},
	}
}
