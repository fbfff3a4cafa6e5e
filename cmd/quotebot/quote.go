package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"quotebot/internal/config"
	"quotebot/internal/fetch"
	"quotebot/internal/imagestore"
	"quotebot/internal/models"
	"quotebot/internal/quotes"
	"quotebot/internal/store"
)

func newQuoteCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Manage the quote store directly",
	}

	cmd.AddCommand(
		newQuoteAddCmd(cfg),
		newQuoteShowCmd(cfg),
		newQuoteDelCmd(cfg),
		newQuoteRandomCmd(cfg),
		newQuoteSearchCmd(cfg),
		newQuoteAuthorCmd(cfg),
		newQuoteTotalCmd(cfg),
		newQuoteSetCmd(cfg),
	)

	return cmd
}

// withService opens the store and image directory from config, runs fn,
// and closes the store afterwards.
func withService(cfg *config.Config, fn func(svc *quotes.Service) error) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	images, err := imagestore.NewDir(cfg.ImageDir)
	if err != nil {
		return err
	}

	return fn(quotes.NewService(st, images, fetch.New(images), slog.Default()))
}

func newQuoteAddCmd(cfg *config.Config) *cobra.Command {
	var (
		safety   string
		imageURL string
	)

	cmd := &cobra.Command{
		Use:   "add <author> <text...>",
		Short: "Add a quote",
		Args:  requireAtLeastArgs(1, "author is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			author := args[0]
			text := strings.Join(args[1:], " ")
			createdAt := float64(time.Now().UnixNano()) / 1e9

			return withService(cfg, func(svc *quotes.Service) error {
				level, err := models.ClassifyAtCreate(safety, imageURL != "")
				if err != nil {
					return err
				}

				var id int64
				if imageURL != "" {
					id, err = svc.AddImage(cmd.Context(), imageURL, text, level, author, createdAt)
				} else {
					if text == "" {
						return fmt.Errorf("text is required without --image")
					}
					id, err = svc.AddText(cmd.Context(), text, level, author, createdAt)
				}
				if err != nil {
					return err
				}
				return writePlain("%d\n", id)
			})
		},
	}

	cmd.Flags().StringVar(&safety, "safety", "", "safety level (sfw|nsfw)")
	cmd.Flags().StringVar(&imageURL, "image", "", "image URL to fetch and attach")
	return cmd
}

func newQuoteShowCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a quote",
		Args:  requireQuoteID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseQuoteID(args[0])
			if err != nil {
				return err
			}
			return withService(cfg, func(svc *quotes.Service) error {
				quote, err := svc.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeQuoteDetail(quote)
			})
		},
	}
}

func newQuoteDelCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "del <id>",
		Short: "Delete a quote and its image",
		Args:  requireQuoteID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseQuoteID(args[0])
			if err != nil {
				return err
			}
			return withService(cfg, func(svc *quotes.Service) error {
				return svc.Delete(cmd.Context(), id)
			})
		},
	}
}

func newQuoteRandomCmd(cfg *config.Config) *cobra.Command {
	var (
		safety    string
		imageOnly bool
	)

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Show a random quote",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cfg, func(svc *quotes.Service) error {
				level, err := models.DefaultRandomSafety(safety, imageOnly, false)
				if err != nil {
					return err
				}
				id, ok, err := svc.RandomID(cmd.Context(), imageOnly, level)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no quotes match")
				}
				quote, err := svc.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeQuoteDetail(quote)
			})
		},
	}

	cmd.Flags().StringVar(&safety, "safety", "", "safety ceiling (sfw|nsfw)")
	cmd.Flags().BoolVar(&imageOnly, "image", false, "only quotes with an image")
	return cmd
}

func newQuoteSearchCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Find quotes containing text",
		Args:  requireAtLeastArgs(1, "search text is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			needle := strings.Join(args, " ")
			return withService(cfg, func(svc *quotes.Service) error {
				ids, err := svc.FindByText(cmd.Context(), needle)
				if err != nil {
					return err
				}
				return writeIDList(ids)
			})
		},
	}
}

func newQuoteAuthorCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "author <name>",
		Short: "Find quotes by author",
		Args:  requireAtLeastArgs(1, "author name is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withService(cfg, func(svc *quotes.Service) error {
				ids, err := svc.FindByAuthor(cmd.Context(), name)
				if err != nil {
					return err
				}
				return writeIDList(ids)
			})
		},
	}
}

func newQuoteTotalCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Count quotes in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cfg, func(svc *quotes.Service) error {
				total, err := svc.Count(cmd.Context())
				if err != nil {
					return err
				}
				return writePlain("%d\n", total)
			})
		},
	}
}

func newQuoteSetCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <sfw|nsfw>",
		Short: "Change a quote's safety level",
		Args:  requireExactlyArgs(2, "id and safety level are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseQuoteID(args[0])
			if err != nil {
				return err
			}
			level, err := models.ParseSafety(args[1])
			if err != nil {
				return err
			}
			return withService(cfg, func(svc *quotes.Service) error {
				return svc.SetSafety(cmd.Context(), id, level)
			})
		},
	}
}
